package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/csimple/internal/compiler"
	"github.com/arnavsurve/csimple/internal/compiler/diagnostics"
	"github.com/arnavsurve/csimple/internal/compiler/scope"
	"github.com/arnavsurve/csimple/internal/compiler/symbols"
)

// ErrCheckFailed is returned when a program has a type error. The
// diagnostic itself has already been printed.
var ErrCheckFailed = errors.New("type check failed")

var (
	checkRev       string
	checkRepo      string
	checkShadowing string
	checkSymbols   bool
)

// check: type-check .csim sources
var CheckCmd = &cobra.Command{
	Use:   "check <source.csim>...",
	Short: "Type-check Csimple source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkRun,
}

func init() {
	CheckCmd.Flags().StringVar(&checkRev, "rev", "", "check the files as committed at this git revision")
	CheckCmd.Flags().StringVar(&checkRepo, "repo", ".", "repository to read --rev from")
	CheckCmd.Flags().StringVar(&checkShadowing, "shadowing", "", "name binding across blocks: flat or lexical (overrides config)")
	CheckCmd.Flags().BoolVar(&checkSymbols, "symbols", false, "print the symbol table of programs that type-check")
}

func checkRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := compiler.Options{Shadowing: cfg.Shadowing, Extensions: cfg.Extensions}
	if checkShadowing != "" {
		if opts.Shadowing, err = scope.ParseMode(checkShadowing); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	sink := diagnostics.NewConsole(out, useColor(cfg, out))

	failed := 0
	for _, src := range args {
		if verbose {
			fmt.Fprintf(out, "↪ checking %q (%s shadowing) ...\n", src, opts.Shadowing)
		}

		var res *compiler.Result
		if checkRev != "" {
			res, err = compiler.CheckRevision(checkRepo, checkRev, src, opts, sink)
		} else {
			res, err = compiler.CheckFile(src, opts, sink)
		}
		if err != nil {
			return err
		}
		if res.Failed() {
			failed++
			continue
		}

		if checkSymbols {
			printSymbols(out, res.Symbols)
		}
		if verbose {
			fmt.Fprintf(out, "✔︎ %s type-checks\n", res.Name)
		}
	}

	if failed > 0 {
		return ErrCheckFailed
	}
	return nil
}

func printSymbols(w io.Writer, syms []symbols.Symbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tTYPE\tDEPTH\tPARAMS")
	for _, sym := range syms {
		params := "-"
		if sym.Function {
			names := make([]string, 0, len(sym.ParamTypes))
			for _, p := range sym.ParamTypes {
				names = append(names, p.String())
			}
			params = "(" + strings.Join(names, ", ") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", sym.Name, sym.Kind(), sym.Type, sym.Depth, params)
	}
	tw.Flush()
}
