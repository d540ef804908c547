package cmd

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/csimple/internal/config"
)

//go:embed templates/*
var tplFS embed.FS

// init: scaffold a new project
var InitCmd = &cobra.Command{
	Use:   "init [project-dir]",
	Short: "Scaffold a new Csimple project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  initRun,
}

func initRun(cmd *cobra.Command, args []string) error {
	var (
		targetDir   string
		projectName string
	)

	// targetDir is where files go, projectName is for templating
	if len(args) == 1 {
		targetDir = args[0]
		projectName = filepath.Base(args[0])
	} else {
		targetDir = "."
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		projectName = filepath.Base(cwd)
	}

	// a new subdirectory must not exist yet
	if targetDir != "." {
		if _, err := os.Stat(targetDir); err == nil {
			return fmt.Errorf("directory %q already exists", targetDir)
		}
	}
	if _, err := os.Stat(filepath.Join(targetDir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %q", config.FileName, targetDir)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "↪ scaffolding new project %q ...\n", projectName)

	if err := os.MkdirAll(filepath.Join(targetDir, "src"), 0o755); err != nil {
		return err
	}

	data := map[string]string{"ProjectName": projectName}
	files := map[string]string{
		"templates/csimple.yml.tpl": config.FileName,
		"templates/hello.csim.tpl":  filepath.Join("src", "hello.csim"),
	}
	for tplPath, outName := range files {
		if err := writeTpl(tplPath, filepath.Join(targetDir, outName), data); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "✓ project %q initialized!\n", projectName)
	return nil
}

// writeTpl loads tplName from tplFS, executes it with data, and writes to outPath
func writeTpl(tplName, outPath string, data any) error {
	t, err := template.ParseFS(tplFS, tplName)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return fmt.Errorf("render %s: %w", tplName, err)
	}
	return nil
}
