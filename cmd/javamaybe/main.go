package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"javamaybe/internal/driver"
	"javamaybe/internal/prof"
	"javamaybe/internal/version"
)

// errFailed is returned after diagnostics were already printed.
var errFailed = errors.New("specialization failed")

var (
	traceCleanup func(failed bool)
	profSession  *prof.Session
)

var rootCmd = &cobra.Command{
	Use:   "javamaybe",
	Short: "Specialize Java methods with Any parameters into concrete overloads",
	Long: `javamaybe rewrites Java sources: every method parameter declared with the
Any marker type is replaced by the concrete argument types observed at its call
sites, producing one overload per combination.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		profSession, err = setupProfiling(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown(false)
	},
}

// shutdown stops profilers and flushes the tracer; safe to call twice.
func shutdown(failed bool) {
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "javamaybe: %v\n", err)
	}
	if traceCleanup != nil {
		traceCleanup(failed)
		traceCleanup = nil
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "list the overloads of every specialized method")

	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug); error keeps unit events in memory and writes them only if the run fails")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	cfg.CPU, _ = pf.GetString("cpu-profile")
	cfg.Mem, _ = pf.GetString("mem-profile")
	cfg.RuntimeTrace, _ = pf.GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "javamaybe: %v\n", err)
		}
		shutdown(true)
		if errors.Is(err, driver.ErrConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) // #nosec G115 -- fd fits int
}

func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}
