package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/csimple/internal/config"
)

var (
	configPath string
	noColor    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "csimple",
	Short: "Static type checker for Csimple programs",
	Long: `csimple type-checks programs written in Csimple, a small C-like language.

Commands:
  init    Scaffold a new Csimple project
  check   Type-check (.csim) source files
  tokens  Print the token stream of a source file
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress")

	rootCmd.AddCommand(InitCmd, CheckCmd, TokensCmd)
}

func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadOrDefault(configPath, wd)
}

// useColor decides whether output to w gets ANSI colors.
func useColor(cfg *config.Config, w io.Writer) bool {
	if noColor {
		return false
	}
	switch cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
