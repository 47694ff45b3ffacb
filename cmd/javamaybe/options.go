package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"javamaybe/internal/diag"
	"javamaybe/internal/driver"
	"javamaybe/internal/indexcache"
	"javamaybe/internal/project"
)

const (
	defaultInput  = "."
	defaultOutput = "./out"
)

// addRunFlags registers the flags shared by run and watch.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", defaultInput, "input .java file or directory")
	f.StringP("output-dir", "o", defaultOutput, "output directory (must exist)")
	f.String("sourcepath", "", "directories with .java sources used for type lookup, "+listSepHint())
	f.String("classpath", "", "jar/zip archives used for type lookup, "+listSepHint())
	f.IntP("jobs", "j", 0, "parallel units (0 = GOMAXPROCS)")
	f.String("report", "", "write a YAML fork report to this file (\"-\" for stdout)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("diag-format", "pretty", "diagnostics format (pretty|json)")
	f.String("min-severity", "info", "lowest severity printed by the pretty format (info|warning|error)")
	f.Bool("dry-run", false, "do not write outputs")
	f.Bool("no-cache", false, "do not use the on-disk class path index cache")
	f.Bool("tabs", false, "indent output with tabs")
	f.String("manifest", "", "path to javamaybe.toml (default: search upwards)")
}

func listSepHint() string {
	return fmt.Sprintf("separated by %q", string(os.PathListSeparator))
}

// runSettings is everything run and watch need besides driver.Options.
type runSettings struct {
	opts       driver.Options
	report     string
	ui         uiMode
	diagFormat string
	minSev     diag.Severity
	quiet      bool
	timings    bool
	color      bool
	manifest   *project.Manifest
}

func loadManifest(f *pflag.FlagSet) (*project.Manifest, error) {
	path, err := f.GetString("manifest")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return project.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, _, err := project.Load(wd)
	return m, err
}

// readRunSettings merges flags over the manifest. Explicit flags win;
// manifest paths are relative to the manifest directory.
func readRunSettings(cmd *cobra.Command) (*runSettings, error) {
	f := cmd.Flags()
	m, err := loadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", driver.ErrConfig, err)
	}
	s := &runSettings{manifest: m}
	var cfg project.Config
	if m != nil {
		cfg = m.Config
	}

	str := func(name, fromManifest string) string {
		v, _ := f.GetString(name)
		if f.Changed(name) || fromManifest == "" {
			return v
		}
		return m.Abs(fromManifest)
	}
	list := func(name string, fromManifest []string) []string {
		if v, _ := f.GetString(name); f.Changed(name) || len(fromManifest) == 0 {
			return splitPathList(v)
		}
		return m.AbsList(fromManifest)
	}

	s.opts.Input = str("input", cfg.Paths.Input)
	s.opts.OutputDir = str("output-dir", cfg.Paths.Output)
	s.opts.SourcePath = list("sourcepath", cfg.Paths.Sourcepath)
	s.opts.ClassPath = list("classpath", cfg.Paths.Classpath)
	s.report = str("report", cfg.Run.Report)

	s.opts.Jobs, _ = f.GetInt("jobs")
	if !f.Changed("jobs") && cfg.Run.Jobs > 0 {
		s.opts.Jobs = cfg.Run.Jobs
	}
	s.opts.DryRun, _ = f.GetBool("dry-run")
	s.opts.Format.UseTabs, _ = f.GetBool("tabs")

	pf := cmd.Root().PersistentFlags()
	s.opts.Verbose, _ = pf.GetBool("verbose")
	if !pf.Changed("verbose") && cfg.Run.Verbose {
		s.opts.Verbose = true
	}
	s.opts.MaxDiagnostics, _ = pf.GetInt("max-diagnostics")
	s.quiet, _ = pf.GetBool("quiet")
	s.timings, _ = pf.GetBool("timings")
	if s.color, err = useColor(cmd); err != nil {
		return nil, err
	}

	uiValue, _ := f.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	s.diagFormat, _ = f.GetString("diag-format")
	if s.diagFormat != "pretty" && s.diagFormat != "json" {
		return nil, fmt.Errorf("invalid --diag-format value %q (expected pretty|json)", s.diagFormat)
	}
	sevValue, _ := f.GetString("min-severity")
	if s.minSev, err = diag.ParseSeverity(sevValue); err != nil {
		return nil, fmt.Errorf("--min-severity: %w", err)
	}
	if s.quiet {
		s.minSev = diag.SevError
	}

	if noCache, _ := f.GetBool("no-cache"); !noCache {
		// кеш необязателен: без него индексы просто строятся заново
		if cache, cerr := indexcache.Open("javamaybe"); cerr == nil {
			s.opts.Cache = cache
		}
	}
	return s, nil
}

func splitPathList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}
