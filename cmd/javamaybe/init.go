package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"javamaybe/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a javamaybe.toml manifest",
	Long: `Init writes a javamaybe.toml manifest with src/ as input and out/ as output
directory, and creates both directories. Without [path] the current directory
is initialized; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	manifestPath, err := project.Init(target)
	if err != nil {
		return err
	}
	rel := manifestPath
	if r, rerr := filepath.Rel(wd, manifestPath); rerr == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized javamaybe project: %s\n", rel)
	fmt.Fprintf(out, "  - src/\n  - out/\n")
	return nil
}
