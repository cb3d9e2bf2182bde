// Package pipeline drives a single rpminspect run end to end and releases
// its workdir on every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"rpminspect/internal/arches"
	"rpminspect/internal/config"
	"rpminspect/internal/failure"
	"rpminspect/internal/format"
	"rpminspect/internal/inspect"
	"rpminspect/internal/logging"
	"rpminspect/internal/release"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
	"rpminspect/internal/workdir"
)

const component = "pipeline"

var (
	ErrInvalidBuildSpecification    = errors.New("invalid build specification")
	ErrFetchOnlyRequiresSingleBuild = errors.New("fetch only mode takes a single build specification")
	ErrBuildGatherFailed            = errors.New("unable to gather builds")
	ErrInspectionsFailed            = errors.New("one or more inspections failed")
	ErrFormatFailed                 = errors.New("unable to format results")
)

// Gatherer stages builds into the run's work subdirectory.
type Gatherer interface {
	Architectures(ctx context.Context, ri *inspect.RunContext) ([]string, error)
	Gather(ctx context.Context, ri *inspect.RunContext, fetchOnly bool) error
}

// Options configures one run.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *inspect.Registry
	Gatherer Gatherer

	// Includes and Excludes are the raw -T and -E values.
	Includes []string
	Excludes []string

	// Format defaults to format.Default() when its Driver is nil.
	Format format.Descriptor
	Output string

	// Release overrides product release resolution when set.
	Release string
	// Arches is the raw -a value; empty disables the filter.
	Arches string
	// Workdir overrides common.workdir when set.
	Workdir string

	Keep      bool
	FetchOnly bool
	Verbose   bool

	// Stdout receives results and the kept-workdir notice.
	Stdout io.Writer
}

// Outcome summarizes a finished run.
type Outcome struct {
	State   State
	RunID   string
	Ran     []string
	Failed  []string
	Skipped []string
	// Worksubdir is the per-run directory, empty if gathering never started.
	Worksubdir string
	// Kept is the retained directory when the workdir was kept.
	Kept string
}

type runner struct {
	opts    Options
	logger  *slog.Logger
	ri      *inspect.RunContext
	outcome Outcome
}

// Run validates args against opts and drives the run to a terminal state.
// The workdir, once acquired, is released on every return path.
func Run(ctx context.Context, opts Options, args []string) (Outcome, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Format.Driver == nil {
		opts.Format = format.Default()
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	r := &runner{
		opts:    opts,
		logger:  logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, component)),
		outcome: Outcome{State: StateConfigured, RunID: runID},
	}

	if err := r.configure(runID, args); err != nil {
		return r.abort(err)
	}
	if err := r.resolveRelease(); err != nil {
		return r.abort(err)
	}
	if err := r.validateArches(ctx); err != nil {
		return r.abort(err)
	}

	lease, err := workdir.Acquire(ctx, r.ri.Workdir, workdir.DefaultMode, opts.Logger)
	if err != nil {
		return r.abort(failure.Wrap(failure.ErrResource, component, "acquire workdir", "", err))
	}
	r.enter(StateWorkdirReady)

	runErr := r.execute(ctx)
	r.cleanup(lease)
	if runErr != nil {
		return r.outcome, runErr
	}
	if len(r.outcome.Failed) > 0 {
		return r.outcome, failure.Wrap(failure.ErrInspection, component, "run inspections", "",
			fmt.Errorf("%w: %s", ErrInspectionsFailed, strings.Join(r.outcome.Failed, ", ")))
	}
	return r.outcome, nil
}

func (r *runner) enter(s State) {
	r.outcome.State = s
	r.logger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String(logging.FieldStage, s.String()),
	)
}

func (r *runner) abort(err error) (Outcome, error) {
	r.logger.Debug("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String(logging.FieldStage, r.outcome.State.String()),
		logging.Error(err),
	)
	r.outcome.State = StateAborted
	return r.outcome, err
}

func (r *runner) configure(runID string, args []string) error {
	opts := r.opts
	if opts.Config == nil {
		return failure.Wrap(failure.ErrConfiguration, component, "configure", "no configuration loaded", nil)
	}
	if opts.Registry == nil {
		return failure.Wrap(failure.ErrConfiguration, component, "configure", "no inspections registered", nil)
	}
	if opts.Gatherer == nil {
		return failure.Wrap(failure.ErrConfiguration, component, "configure", "no build gatherer", nil)
	}

	sel, err := inspect.ParseSelection(opts.Registry, opts.Includes, opts.Excludes)
	if err != nil {
		return failure.Wrap(failure.ErrUsage, component, "select inspections", "", err)
	}

	threshold, err := results.ParseSeverity(opts.Config.Common.Threshold)
	if err != nil {
		return failure.Wrap(failure.ErrConfiguration, component, "parse threshold", "", err)
	}

	root := opts.Config.Common.Workdir
	if strings.TrimSpace(opts.Workdir) != "" {
		root, err = config.ExpandPath(opts.Workdir)
		if err != nil {
			return failure.Wrap(failure.ErrConfiguration, component, "expand workdir", "", err)
		}
	}

	r.ri = &inspect.RunContext{
		Config:    opts.Config,
		Logger:    r.logger,
		RunID:     runID,
		Tests:     sel.Mask(),
		Workdir:   root,
		Keep:      opts.Keep || opts.FetchOnly,
		Verbose:   opts.Verbose,
		FetchOnly: opts.FetchOnly,
		Threshold: threshold,
		Peers:     rpmpkg.NewPeers(),
	}

	switch len(args) {
	case 1:
		r.ri.After = args[0]
	case 2:
		r.ri.Before, r.ri.After = args[0], args[1]
	default:
		return failure.Wrap(failure.ErrUsage, component, "parse builds", "",
			fmt.Errorf("%w: expected [before] after, got %d build(s)", ErrInvalidBuildSpecification, len(args)))
	}
	if opts.FetchOnly && r.ri.Before != "" {
		return failure.Wrap(failure.ErrUsage, component, "parse builds", "", ErrFetchOnlyRequiresSingleBuild)
	}
	r.enter(StateBuildsSpecified)
	return nil
}

func (r *runner) resolveRelease() error {
	pr := strings.TrimSpace(r.opts.Release)
	if pr == "" {
		var err error
		pr, err = release.Resolve(r.ri.Before, r.ri.After)
		if err != nil {
			return failure.Wrap(failure.ErrConfiguration, component, "resolve product release", "", err)
		}
	}
	r.ri.ProductRelease = pr
	r.logger.Debug("product release", logging.String("product_release", pr))
	r.enter(StateProductReleaseResolved)
	return nil
}

func (r *runner) validateArches(ctx context.Context) error {
	requested := arches.Split(r.opts.Arches)
	if len(requested) > 0 {
		supported, err := r.opts.Gatherer.Architectures(ctx, r.ri)
		if err != nil {
			return failure.Wrap(failure.ErrAcquisition, component, "discover architectures", "", err)
		}
		valid, err := arches.Validate(requested, supported)
		if err != nil {
			return failure.Wrap(failure.ErrConfiguration, component, "validate architectures", "", err)
		}
		r.ri.Arches = valid
	}
	r.enter(StateArchesValidated)
	return nil
}

func (r *runner) execute(ctx context.Context) error {
	r.ri.Results = results.New(results.Meta{
		RunID:          r.ri.RunID,
		ProductRelease: r.ri.ProductRelease,
		Before:         r.ri.Before,
		After:          r.ri.After,
		Started:        time.Now(),
	})

	err := r.opts.Gatherer.Gather(ctx, r.ri, r.ri.FetchOnly)
	r.outcome.Worksubdir = r.ri.Worksubdir
	if err != nil {
		return failure.Wrap(failure.ErrAcquisition, component, "gather builds", "",
			fmt.Errorf("%w: %w", ErrBuildGatherFailed, err))
	}
	r.enter(StateBuildsGathered)

	if r.ri.FetchOnly {
		return nil
	}

	r.runInspections(ctx)
	r.enter(StateInspectionsRun)

	if r.ri.Results.Len() == 0 {
		r.logger.Debug("no results to format")
		return nil
	}
	dest := format.Destination{Path: r.opts.Output, Stdout: r.opts.Stdout}
	if err := r.opts.Format.Driver(r.ri.Results, dest); err != nil {
		return failure.Wrap(failure.ErrFormat, component, "format results", "",
			fmt.Errorf("%w as %s: %w", ErrFormatFailed, r.opts.Format.Name, err))
	}
	r.enter(StateResultsFormatted)
	return nil
}

func (r *runner) runInspections(ctx context.Context) {
	single := r.ri.SingleBuild()
	for _, d := range r.opts.Registry.All() {
		if !r.ri.Tests.Has(d.Bit) {
			continue
		}
		if single && !d.SingleBuild {
			r.outcome.Skipped = append(r.outcome.Skipped, d.Name)
			continue
		}
		logger := r.logger.With(logging.String(logging.FieldInspection, d.Name))
		logger.Debug("inspection started", logging.String(logging.FieldEventType, "inspection_start"))
		start := time.Now()
		ok := d.Driver(ctx, r.ri)
		r.outcome.Ran = append(r.outcome.Ran, d.Name)
		if !ok {
			r.outcome.Failed = append(r.outcome.Failed, d.Name)
			logger.Info("inspection failed",
				logging.String(logging.FieldEventType, "inspection_failed"),
				logging.Duration("duration", time.Since(start)),
			)
			continue
		}
		logger.Debug("inspection passed",
			logging.String(logging.FieldEventType, "inspection_passed"),
			logging.Duration("duration", time.Since(start)),
		)
	}
}

func (r *runner) cleanup(lease *workdir.Lease) {
	res := lease.Release(r.ri.Keep, r.ri.Worksubdir)
	if res.Kept != "" {
		r.outcome.Kept = res.Kept
		fmt.Fprintf(r.opts.Stdout, "Keeping working directory: %s\n", res.Kept)
	}
	r.outcome.State = StateCleaned
	r.logger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String(logging.FieldStage, StateCleaned.String()),
		logging.Int("cleanup_errors", len(res.Errors)),
	)
}
