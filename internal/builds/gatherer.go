package builds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"rpminspect/internal/config"
	"rpminspect/internal/inspect"
	"rpminspect/internal/koji"
	"rpminspect/internal/logging"
	"rpminspect/internal/rpmpkg"
)

// Subdirectories of the work subdirectory holding each build.
const (
	BeforeDir = "before"
	AfterDir  = "after"
)

// BuildTypeLocal marks runs whose after build came from the filesystem.
const BuildTypeLocal = "local"

var (
	ErrFetchLocal = errors.New("unable to fetch local build trees or RPMs")
	ErrNotRPM     = errors.New("not an RPM package")
)

// Resolver looks builds up in the build system.
type Resolver interface {
	Resolve(ctx context.Context, spec string) (*koji.Resolved, error)
}

// Fetcher downloads one artifact.
type Fetcher interface {
	Fetch(ctx context.Context, url, dst string) (int64, error)
}

// Gatherer stages the before and after builds of a run below the workdir and
// records their packages as peers.
type Gatherer struct {
	cfg        *config.Config
	logger     *slog.Logger
	readHeader rpmpkg.Reader
	fetcher    Fetcher

	mu       sync.Mutex
	resolver Resolver
	resolved map[string]*koji.Resolved
}

// Option customises a Gatherer.
type Option func(*Gatherer)

// WithHeaderReader replaces the RPM header reader.
func WithHeaderReader(r rpmpkg.Reader) Option {
	return func(g *Gatherer) { g.readHeader = r }
}

// WithResolver replaces the Koji hub client.
func WithResolver(r Resolver) Option {
	return func(g *Gatherer) { g.resolver = r }
}

// WithFetcher replaces the artifact downloader.
func WithFetcher(f Fetcher) Option {
	return func(g *Gatherer) { g.fetcher = f }
}

// New returns a Gatherer using cfg's Koji settings.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Gatherer {
	g := &Gatherer{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "builds"),
		readHeader: rpmpkg.ReadFile,
		fetcher:    koji.Downloader{},
		resolved:   map[string]*koji.Resolved{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type specKind int

const (
	kindKoji specKind = iota
	kindLocalTree
	kindLocalRPM
)

func classify(spec string) specKind {
	info, err := os.Stat(spec)
	switch {
	case err != nil:
		return kindKoji
	case info.IsDir():
		return kindLocalTree
	case info.Mode().IsRegular() && rpmpkg.IsRPMPath(spec):
		return kindLocalRPM
	default:
		return kindKoji
	}
}

func (g *Gatherer) resolve(ctx context.Context, spec string) (*koji.Resolved, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if res, ok := g.resolved[spec]; ok {
		return res, nil
	}
	if g.resolver == nil {
		client, err := koji.NewClient(g.cfg.Koji.Hub, nil)
		if err != nil {
			return nil, err
		}
		g.resolver = client
	}
	res, err := g.resolver.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	g.resolved[spec] = res
	return res, nil
}

// Architectures returns the architectures present across the run's builds,
// after build first, in first-seen order. Source packages report "src".
func (g *Gatherer) Architectures(ctx context.Context, ri *inspect.RunContext) ([]string, error) {
	var out []string
	seen := map[string]struct{}{}
	add := func(arch string) {
		if _, ok := seen[arch]; !ok {
			seen[arch] = struct{}{}
			out = append(out, arch)
		}
	}

	for _, spec := range []string{ri.After, ri.Before} {
		if spec == "" {
			continue
		}
		switch classify(spec) {
		case kindLocalTree:
			paths, err := rpmFiles(spec)
			if err != nil {
				return nil, err
			}
			for _, p := range paths {
				h, err := g.readHeader(p)
				if err != nil {
					return nil, err
				}
				add(h.Arch)
			}
		case kindLocalRPM:
			h, err := g.readHeader(spec)
			if err != nil {
				return nil, err
			}
			add(h.Arch)
		default:
			res, err := g.resolve(ctx, spec)
			if err != nil {
				return nil, err
			}
			for _, arch := range res.Arches() {
				add(arch)
			}
		}
	}
	return out, nil
}

// Gather stages the after build and then the before build. In fetch-only
// mode the after build is downloaded to <workdir>/<nvr> and kept as is.
func (g *Gatherer) Gather(ctx context.Context, ri *inspect.RunContext, fetchOnly bool) error {
	if ri.Peers == nil {
		ri.Peers = rpmpkg.NewPeers()
	}

	kind := classify(ri.After)
	if fetchOnly && kind != kindKoji {
		return fmt.Errorf("%w: %s", ErrFetchLocal, ri.After)
	}

	if err := g.makeWorksubdir(ctx, ri, kind, fetchOnly); err != nil {
		return err
	}

	afterDest := filepath.Join(ri.Worksubdir, AfterDir)
	if fetchOnly {
		afterDest = ri.Worksubdir
	}
	buildType, err := g.gatherOne(ctx, ri, ri.After, kind, afterDest, ri.Peers.AddAfter)
	if err != nil {
		return fmt.Errorf("after build %s: %w", ri.After, err)
	}
	ri.BuildType = buildType

	if ri.Before == "" {
		return nil
	}
	beforeDest := filepath.Join(ri.Worksubdir, BeforeDir)
	if _, err := g.gatherOne(ctx, ri, ri.Before, classify(ri.Before), beforeDest, ri.Peers.AddBefore); err != nil {
		return fmt.Errorf("before build %s: %w", ri.Before, err)
	}
	return nil
}

func (g *Gatherer) makeWorksubdir(ctx context.Context, ri *inspect.RunContext, kind specKind, fetchOnly bool) error {
	if kind != kindKoji {
		dir, err := os.MkdirTemp(ri.Workdir, "local.")
		if err != nil {
			return fmt.Errorf("create work subdirectory: %w", err)
		}
		ri.Worksubdir = dir
		return nil
	}

	res, err := g.resolve(ctx, ri.After)
	if err != nil {
		return err
	}
	if fetchOnly {
		dir := filepath.Join(ri.Workdir, res.Build.NVR)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create work subdirectory: %w", err)
		}
		ri.Worksubdir = dir
		return nil
	}
	dir, err := os.MkdirTemp(ri.Workdir, res.Build.Name+"-"+res.Build.Version+".")
	if err != nil {
		return fmt.Errorf("create work subdirectory: %w", err)
	}
	ri.Worksubdir = dir
	return nil
}

func (g *Gatherer) gatherOne(ctx context.Context, ri *inspect.RunContext, spec string, kind specKind, dest string, add func(*rpmpkg.Package)) (string, error) {
	logger := g.logger.With(logging.String(logging.FieldBuild, spec))
	switch kind {
	case kindLocalTree:
		logger.Debug("copying local build tree", logging.String("dest", dest))
		return BuildTypeLocal, g.copyTree(ri, spec, dest, add)
	case kindLocalRPM:
		logger.Debug("copying local package", logging.String("dest", dest))
		return BuildTypeLocal, g.copyPackage(ri, spec, dest, add)
	default:
		res, err := g.resolve(ctx, spec)
		if err != nil {
			return "", err
		}
		logger.Info("downloading build",
			logging.String("nvr", res.Build.NVR),
			logging.String("type", res.Type),
			logging.String(logging.FieldEventType, "build_download"),
		)
		return res.Type, g.download(ctx, ri, res, dest, add)
	}
}
