package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"duckcheck/internal/diag"
	"duckcheck/internal/diagfmt"
	"duckcheck/internal/driver"
	"duckcheck/internal/prof"
	"duckcheck/internal/project"
	"duckcheck/internal/source"
	"duckcheck/internal/symbols"
	"duckcheck/internal/trace"
	"duckcheck/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [document|directory]...",
		Short: "Infer types for AST documents and report conflicts",
		Long: `Infer types for every AST document (*.ast.json, *.ast.msgpack, *.ast.yaml)
named on the command line or found under the given directories. Without
arguments the paths from duckcheck.toml are checked. The exit status is 1
when any type error is reported.`,
		RunE: runCheck,
	}
	f := cmd.Flags()
	f.String("format", "", "output format (pretty|short|json|sarif)")
	f.Int("max-diagnostics", 0, "maximum number of diagnostics to report (0 = no limit)")
	f.Int("jobs", 0, "max parallel workers (0 = auto)")
	f.String("reassign", "", "reassignment policy (unify|rebind)")
	f.Bool("cache", false, "reuse results from the on-disk cache")
	f.Bool("clear-cache", false, "drop every cached result before checking")
	f.Bool("timings", false, "report phase timings")
	f.Bool("notes", false, "include diagnostic notes in output")
	f.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	f.String("ui", "off", "progress UI (auto|on|off)")
	f.String("cpu-profile", "", "write a CPU profile to this file")
	f.String("mem-profile", "", "write a heap profile to this file")
	f.String("exec-trace", "", "write a Go execution trace to this file")
	return cmd
}

// checkSettings is the merged view of duckcheck.toml and the check flags.
type checkSettings struct {
	format   string
	opts     driver.Options
	notes    bool
	pathMode diagfmt.PathMode
	ui       uiMode
	// clearCache is set by --clear-cache and may be used without --cache.
	clearCache *driver.DiskCache
}

// readCheckSettings applies flags that were set on top of the manifest.
func readCheckSettings(cmd *cobra.Command, m *project.Manifest) (checkSettings, error) {
	cfg := m.Config
	f := cmd.Flags()
	s := checkSettings{
		format: cfg.Check.Format,
		opts: driver.Options{
			MaxDiagnostics: cfg.Check.MaxDiagnostics,
			Jobs:           cfg.Check.Jobs,
			Policy:         cfg.Policy(),
			BaseDir:        m.Root,
		},
	}

	if f.Changed("format") {
		s.format, _ = f.GetString("format")
	}
	s.format = strings.ToLower(strings.TrimSpace(s.format))
	if !slices.Contains(project.Formats, s.format) {
		return s, fmt.Errorf("unknown format %q (expected %s)", s.format, strings.Join(project.Formats, "|"))
	}
	if f.Changed("max-diagnostics") {
		s.opts.MaxDiagnostics, _ = f.GetInt("max-diagnostics")
		if s.opts.MaxDiagnostics < 0 {
			return s, fmt.Errorf("--max-diagnostics must be >= 0")
		}
	}
	if f.Changed("jobs") {
		s.opts.Jobs, _ = f.GetInt("jobs")
	}
	if f.Changed("reassign") {
		value, _ := f.GetString("reassign")
		policy, err := symbols.ParseReassignPolicy(value)
		if err != nil {
			return s, err
		}
		s.opts.Policy = policy
	}
	s.opts.Timings, _ = f.GetBool("timings")
	s.notes, _ = f.GetBool("notes")
	clearCache, _ := f.GetBool("clear-cache")

	pathMode, _ := f.GetString("path-mode")
	s.pathMode = diagfmt.ParsePathMode(pathMode)

	useCache := cfg.Cache.Enabled
	if f.Changed("cache") {
		useCache, _ = f.GetBool("cache")
	}
	if useCache || clearCache {
		cache, err := driver.OpenDiskCache(m.CacheDir())
		if err != nil {
			return s, err
		}
		if useCache {
			s.opts.Cache = cache
		}
		if clearCache {
			s.clearCache = cache
		}
	}

	uiValue, _ := f.GetString("ui")
	ui, err := readUIMode("ui", uiValue)
	if err != nil {
		return s, err
	}
	s.ui = ui
	return s, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		var ce *configError
		if errors.As(err, &ce) {
			return reportConfigError(cmd, ce)
		}
		return err
	}
	cleanup, err := setupTracing(cmd, m.Config.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	defer dumpTraceOnPanic(trace.FromContext(ctx), cmd.ErrOrStderr())

	s, err := readCheckSettings(cmd, m)
	if err != nil {
		return err
	}
	if s.clearCache != nil {
		if err := s.clearCache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	session, err := prof.Start(profileOptions(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", stopErr)
		}
	}()

	targets := args
	if len(targets) == 0 {
		targets = m.Targets()
	}

	var res *driver.Result
	if s.ui.enabled(os.Stdout) && s.format == "pretty" {
		files, err := driver.ListDocuments(targets)
		if err != nil {
			return err
		}
		res, err = runCheckWithUI(ctx, "duckcheck", files, targets, s.opts)
		if err != nil {
			return err
		}
	} else {
		res, err = driver.Check(ctx, targets, s.opts)
		if err != nil {
			return err
		}
	}

	if len(res.Files) == 0 {
		return fmt.Errorf("%w in %s", driver.ErrNoDocuments, strings.Join(targets, ", "))
	}

	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, res.Bag, res.FileSet, s, useColor, os.Args); err != nil {
		return err
	}
	if s.format == "pretty" {
		if err := printSummary(out, res); err != nil {
			return err
		}
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func profileOptions(cmd *cobra.Command) prof.Options {
	var o prof.Options
	o.CPU, _ = cmd.Flags().GetString("cpu-profile")
	o.Mem, _ = cmd.Flags().GetString("mem-profile")
	o.Trace, _ = cmd.Flags().GetString("exec-trace")
	return o
}

func writeDiagnostics(out io.Writer, bag *diag.Bag, fs *source.FileSet, s checkSettings, useColor bool, argv []string) error {
	switch s.format {
	case "short":
		return diagfmt.Short(out, bag, fs)
	case "json":
		return diagfmt.JSON(out, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     s.notes,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "duckcheck",
			ToolVersion:    version.Version,
			InvocationArgs: argv,
			RunGUID:        uuid.NewString(),
		})
	default:
		return diagfmt.Pretty(out, bag, fs, diagfmt.PrettyOpts{
			Color:      useColor,
			PathMode:   s.pathMode,
			ShowNotes:  s.notes,
			ShowSource: true,
		})
	}
}

// reportConfigError prints a broken duckcheck.toml as a PRJ5001
// diagnostic in the format requested on the command line.
func reportConfigError(cmd *cobra.Command, ce *configError) error {
	s := checkSettings{format: "pretty"}
	if cmd.Flags().Changed("format") {
		s.format, _ = cmd.Flags().GetString("format")
	}
	if !slices.Contains(project.Formats, s.format) {
		return ce
	}
	fs := source.NewFileSet()
	if wd, err := os.Getwd(); err == nil {
		fs.SetBaseDir(wd)
	}
	at := source.At(fs.AddVirtual(ce.path, nil), 1, 0)
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.ProjConfigError, at, ce.err.Error()))

	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), bag, fs, s, useColor, os.Args); err != nil {
		return err
	}
	return errDiagnostics
}

// printSummary closes pretty output with a one-line tally.
func printSummary(out io.Writer, res *driver.Result) error {
	var errs, cached int
	for _, d := range res.Bag.Items() {
		if d.Severity >= diag.SevError {
			errs++
		}
	}
	for _, f := range res.Files {
		if f.Cached {
			cached++
		}
	}
	msg := fmt.Sprintf("%d documents checked, %d errors", len(res.Files), errs)
	if cached > 0 {
		msg += fmt.Sprintf(" (%d cached)", cached)
	}
	_, err := fmt.Fprintln(out, msg)
	return err
}
