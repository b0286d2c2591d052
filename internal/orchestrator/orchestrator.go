// Package orchestrator wires discovery, target resolution, execution
// and progress reporting into one sequential run.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/embedx/targetman/internal/config"
	"github.com/embedx/targetman/internal/discovery"
	"github.com/embedx/targetman/internal/log"
	"github.com/embedx/targetman/internal/proc"
	"github.com/embedx/targetman/internal/report"
	"github.com/embedx/targetman/internal/runner"
	"github.com/embedx/targetman/internal/table"
	"github.com/embedx/targetman/internal/targetset"
	"github.com/embedx/targetman/internal/term"
)

// Options are the run parameters collected from the CLI.
type Options struct {
	ConfigPath  string
	Reconfigure bool
	KeepGoing   bool
	Verbose     bool
	// Modules restricts the run to the named modules, in the given order.
	Modules []string
	// Targets restricts every module's list to the named targets.
	Targets []string
	// Capability of the stdout stream, probed once by the caller.
	Capability term.Capability
	// ReportRoot overrides the report tree location; empty uses the default.
	ReportRoot string
}

// Orchestrator drives one full run. Module and target iteration are
// strictly sequential; exactly one build-tool invocation is in flight
// at any time.
type Orchestrator struct {
	opts   Options
	stdout io.Writer
	proc   proc.Runner
	logger *log.Logger
	runID  string
}

// New creates an Orchestrator.
func New(opts Options, stdout io.Writer, procRunner proc.Runner, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Global()
	}
	return &Orchestrator{
		opts:   opts,
		stdout: stdout,
		proc:   procRunner,
		logger: logger,
		runID:  uuid.NewString(),
	}
}

// Run executes the whole flow: configuration, discovery, resolution,
// builds, reports. The returned error decides the process exit code;
// a completed keep-going run with recorded failures is still an error.
func (o *Orchestrator) Run(ctx context.Context) error {
	logger := o.logger.With("run_id", o.runID)

	cfg, err := config.Load(o.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobs := cfg.Build.Jobs
	if cfg.Build.System == config.BuildSystemMake && jobs == 0 {
		jobs = runtime.NumCPU()
		logger.Debug("auto-selected make jobs", "jobs", jobs)
	}

	build := &runner.BuildRunner{
		Proc:        o.proc,
		System:      cfg.Build.System,
		Jobs:        jobs,
		Reconfigure: o.opts.Reconfigure,
		KeepGoing:   o.opts.KeepGoing,
		Logger:      logger,
	}

	modules, err := o.assembleModules(ctx, cfg, build, logger)
	if err != nil {
		return err
	}

	reports := &report.Generator{Root: o.opts.ReportRoot, RunID: o.runID, Logger: logger}
	if err := reports.EnsureDirs(moduleNames(modules)); err != nil {
		return err
	}

	toRun, missingModules := o.filterModules(modules)
	missingTargets := o.filterTargets(modules, toRun)

	var progress table.Renderer
	if !o.opts.Verbose {
		progress = o.buildRenderer(toRun)
		progress.Draw()
		build.Progress = func(module, target string, state runner.State) {
			progress.Update(module, target, cellState(state))
		}
	}

	var failures []runner.FailureRecord
	for _, m := range toRun {
		if _, err := os.Stat(m.Path); err != nil {
			logger.Debug("module directory not found", "path", m.Path)
			continue
		}
		if len(m.Available) == 0 {
			continue
		}

		logger.Debug("running module targets", "module", m.Name, "targets", m.Available)

		if _, err := build.Configure(ctx, m.Path); err != nil {
			return err
		}

		failed, err := build.Run(ctx, m.Name, m.Path, m.Available)
		failures = append(failures, failed...)
		if err != nil {
			if execErr, ok := err.(*runner.ExecutionError); ok {
				o.printAbort(execErr)
			}
			return err
		}
	}

	if err := reports.WriteMissingPage(o.opts.ConfigPath); err != nil {
		return err
	}
	if err := reports.WriteIndex(moduleNames(modules), o.opts.ConfigPath); err != nil {
		return err
	}
	if len(o.opts.Modules) == 0 {
		reports.OpenPages(reports.ResolvePages(cfg.ReportsToShow))
	}

	for _, name := range missingModules {
		logger.Warn("module not found in configuration", "module", name, "config", o.opts.ConfigPath)
	}
	for _, target := range missingTargets {
		logger.Warn("target not found in configuration", "target", target, "config", o.opts.ConfigPath)
	}

	if len(failures) > 0 {
		o.printFailureSummary(failures)
		return fmt.Errorf("run completed with %d failed target(s)", len(failures))
	}

	return nil
}

// assembleModules produces the canonical module list with resolved and
// available targets, regardless of which configuration schema was used.
func (o *Orchestrator) assembleModules(ctx context.Context, cfg *config.Config, build *runner.BuildRunner, logger *log.Logger) ([]*discovery.Module, error) {
	if cfg.Schema() == config.SchemaLegacy {
		// Legacy entries carry explicit targets and live next to the
		// configuration file's parent directory.
		baseDir := filepath.Join(filepath.Dir(o.opts.ConfigPath), "..")
		modules := make([]*discovery.Module, 0, len(cfg.Modules))
		for _, m := range cfg.Modules {
			modules = append(modules, &discovery.Module{
				Name:      m.Name,
				Path:      filepath.Join(baseDir, m.Name),
				Targets:   m.Targets,
				Available: m.Targets,
			})
		}
		return modules, nil
	}

	roots, err := discovery.ResolvePaths(cfg.ModulePaths, o.opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	modules, err := discovery.Discover(roots, cfg.ExcludeModules)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered modules", "count", len(modules))

	resolved, warnings, err := targetset.Resolve(moduleNames(modules), targetset.Spec{
		Common:     cfg.CommonTargets,
		Additional: cfg.AdditionalTargets,
		Excluded:   cfg.ExcludedTargets,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	for i, m := range modules {
		outPath, err := build.Configure(ctx, m.Path)
		if err != nil {
			return nil, err
		}

		available, err := discovery.ProbeTargets(ctx, o.proc, m, outPath)
		if err != nil {
			return nil, err
		}

		m.Targets = resolved[i].Targets
		m.Available = intersectOrdered(m.Targets, available)
	}

	return modules, nil
}

// filterModules applies the --modules subset, preserving the requested
// order, and reports names the configuration does not know.
func (o *Orchestrator) filterModules(modules []*discovery.Module) ([]*discovery.Module, []string) {
	if len(o.opts.Modules) == 0 {
		return modules, nil
	}

	byName := make(map[string]*discovery.Module, len(modules))
	for _, m := range modules {
		byName[m.Name] = m
	}

	var toRun []*discovery.Module
	var missing []string
	for _, name := range o.opts.Modules {
		if m, ok := byName[name]; ok {
			toRun = append(toRun, m)
		} else {
			missing = append(missing, name)
		}
	}
	return toRun, missing
}

// filterTargets applies the --targets subset to the modules being run
// and reports targets no module resolves.
func (o *Orchestrator) filterTargets(all []*discovery.Module, toRun []*discovery.Module) []string {
	if len(o.opts.Targets) == 0 {
		return nil
	}

	known := make(map[string]struct{})
	for _, m := range all {
		for _, t := range m.Targets {
			known[t] = struct{}{}
		}
	}

	requested := make(map[string]struct{})
	var missing []string
	for _, t := range o.opts.Targets {
		if _, ok := known[t]; ok {
			requested[t] = struct{}{}
		} else {
			missing = append(missing, t)
		}
	}

	for _, m := range toRun {
		m.Targets = keepRequested(m.Targets, requested)
		m.Available = keepRequested(m.Available, requested)
	}
	return missing
}

func (o *Orchestrator) buildRenderer(toRun []*discovery.Module) table.Renderer {
	// Union of resolved targets across modules, first-seen order.
	var allTargets []string
	seen := make(map[string]struct{})
	for _, m := range toRun {
		for _, t := range m.Targets {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			allTargets = append(allTargets, t)
		}
	}

	renderer := table.NewRenderer(o.stdout, o.opts.Capability, moduleNames(toRun), allTargets, o.opts.ConfigPath)
	if grid, ok := renderer.(*table.Table); ok {
		for _, m := range toRun {
			grid.MarkApplicable(m.Name, m.Available)
		}
	}
	return renderer
}

func (o *Orchestrator) printAbort(execErr *runner.ExecutionError) {
	fmt.Fprintf(o.stdout,
		"\nExecution stopped because a target failed and '--keep-going' was not set.\n"+
			"Failed target:\n  module : %s\n  target : %s\n  exit   : %d\n",
		filepath.Base(execErr.Record.ModulePath), execErr.Record.Target, execErr.Record.ExitCode)
}

func (o *Orchestrator) printFailureSummary(failures []runner.FailureRecord) {
	fmt.Fprintf(o.stdout, "\n========== SUMMARY: FAILED TARGETS (%d) ==========\n", len(failures))
	for i, f := range failures {
		fmt.Fprintf(o.stdout, "%3d. module: %s | target: %s | exit: %d\n",
			i+1, f.ModulePath, f.Target, f.ExitCode)
	}
	fmt.Fprintln(o.stdout, "==================================================")
}

func cellState(state runner.State) table.CellState {
	switch state {
	case runner.StateRunning:
		return table.StateRunning
	case runner.StateOK:
		return table.StateOK
	case runner.StateFail:
		return table.StateFail
	default:
		return table.StateEmpty
	}
}

func moduleNames(modules []*discovery.Module) []string {
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	return names
}

func intersectOrdered(expected, available []string) []string {
	set := make(map[string]struct{}, len(available))
	for _, t := range available {
		set[t] = struct{}{}
	}
	var out []string
	for _, t := range expected {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func keepRequested(targets []string, requested map[string]struct{}) []string {
	var out []string
	for _, t := range targets {
		if _, ok := requested[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
