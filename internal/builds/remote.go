package builds

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"rpminspect/internal/inspect"
	"rpminspect/internal/koji"
	"rpminspect/internal/logging"
	"rpminspect/internal/rpmpkg"
)

type downloadJob struct {
	url string
	dst string
}

// download fetches the packages of res into dest/<arch>/ with at most
// koji.downloads transfers in flight, then records them in job order.
func (g *Gatherer) download(ctx context.Context, ri *inspect.RunContext, res *koji.Resolved, dest string, add func(*rpmpkg.Package)) error {
	base := g.cfg.Koji.DownloadUrsine
	var filter map[string]struct{}
	if res.Type == koji.TypeModule {
		base = g.cfg.Koji.DownloadMBS
		filter = g.moduleFilter(ctx, res, dest)
	}

	var jobs []downloadJob
	for _, comp := range res.Components {
		for _, rpm := range comp.RPMs {
			if !ri.ArchAllowed(rpm.Arch) {
				continue
			}
			if _, skip := filter[rpm.Name]; skip {
				g.logger.Debug("skipping filtered module package", logging.String("package", rpm.Name))
				continue
			}
			jobs = append(jobs, downloadJob{
				url: koji.PackageURL(base, res.Build, comp.PackageName, rpm),
				dst: filepath.Join(dest, rpm.Arch, rpm.FileName()),
			})
		}
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.cfg.Koji.Downloads)
	for _, job := range jobs {
		group.Go(func() error {
			n, err := g.fetcher.Fetch(gctx, job.url, job.dst)
			if err != nil {
				return err
			}
			g.logger.Debug("downloaded", logging.String("url", job.url), logging.Int64("bytes", n))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for _, job := range jobs {
		h, err := g.readHeader(job.dst)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNotRPM, job.dst, err)
		}
		add(&rpmpkg.Package{Path: job.dst, Header: h})
	}
	return nil
}

// moduleFilter downloads the module's modulemd document next to the packages
// and returns its filter list. Problems only cost the filtering.
func (g *Gatherer) moduleFilter(ctx context.Context, res *koji.Resolved, dest string) map[string]struct{} {
	dst := filepath.Join(dest, "modulemd.txt")
	url := koji.ModuleMetadataURL(g.cfg.Koji.DownloadMBS, res.Build, "")
	if _, err := g.fetcher.Fetch(ctx, url, dst); err != nil {
		logging.WarnWithContext(g.logger, "module metadata unavailable", "modulemd_fetch_failed",
			logging.String("url", url),
			logging.Error(err),
			logging.String(logging.FieldImpact, "filtered module packages will be inspected"),
		)
		return nil
	}
	filter, err := koji.LoadModuleFilter(dst)
	if err != nil {
		logging.WarnWithContext(g.logger, "module metadata unreadable", "modulemd_parse_failed",
			logging.String("path", dst),
			logging.Error(err),
			logging.String(logging.FieldImpact, "filtered module packages will be inspected"),
		)
		return nil
	}
	return filter
}
