package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"javamaybe/internal/diagfmt"
	"javamaybe/internal/driver"
	"javamaybe/internal/observ"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Specialize Any parameters in the input sources",
	Long: `Run reads every .java file under --input, replaces each method that declares
Any parameters with one overload per combination of call-site argument types,
and writes the result under --output-dir mirroring the input layout.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := readRunSettings(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var res *driver.Result
	if s.ui.active(s.quiet) {
		res, err = runWithUI(ctx, "javamaybe", s.opts)
	} else {
		res, err = driver.Run(ctx, s.opts)
	}
	if err != nil {
		return err
	}
	return finishRun(cmd.OutOrStdout(), s, res)
}

// finishRun prints diagnostics, the report and timings for one run.
func finishRun(out io.Writer, s *runSettings, res *driver.Result) error {
	bag := res.Bag()
	switch s.diagFormat {
	case "json":
		if err := diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(os.Stderr, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       s.color,
			PathMode:    diagfmt.PathModeAuto,
			ShowNotes:   true,
			MinSeverity: s.minSev,
		})
	}

	if s.report != "" {
		if err := driver.WriteReport(driver.BuildReport(res, s.timings), s.report); err != nil {
			return err
		}
	}
	if !s.quiet && s.diagFormat == "pretty" {
		printSummary(out, res)
	}
	if s.timings && s.diagFormat == "pretty" {
		fmt.Fprint(out, observ.FormatReport(res.Timings))
	}
	if res.HasErrors() {
		return errFailed
	}
	return nil
}

func printSummary(out io.Writer, res *driver.Result) {
	var forked, overloads, failed, skipped int
	for i := range res.Units {
		u := &res.Units[i]
		switch {
		case u.Err != nil:
			failed++
		case u.Skipped:
			skipped++
		}
		forked += len(u.Methods)
		overloads += u.Overloads
	}
	fmt.Fprintf(out, "%d file(s): %d method(s) specialized into %d overload(s)", len(res.Units), forked, overloads)
	if skipped > 0 {
		fmt.Fprintf(out, ", %d unchanged", skipped)
	}
	if failed > 0 {
		fmt.Fprintf(out, ", %d failed", failed)
	}
	fmt.Fprintf(out, " in %.1f ms\n", float64(res.Duration.Microseconds())/1000)
}
