package builds

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"rpminspect/internal/fileutil"
	"rpminspect/internal/inspect"
	"rpminspect/internal/logging"
	"rpminspect/internal/rpmpkg"
)

// rpmFiles lists the regular .rpm files below root in lexical order.
func rpmFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && rpmpkg.IsRPMPath(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (g *Gatherer) copyTree(ri *inspect.RunContext, root, dest string, add func(*rpmpkg.Package)) error {
	paths, err := rpmFiles(root)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := g.copyPackage(ri, path, dest, add); err != nil {
			return err
		}
	}
	fileutil.PruneEmptyDirs(dest)
	return nil
}

// copyPackage copies one RPM into dest/<arch>/ when its arch passes the
// filter.
func (g *Gatherer) copyPackage(ri *inspect.RunContext, path, dest string, add func(*rpmpkg.Package)) error {
	h, err := g.readHeader(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotRPM, path, err)
	}
	if !ri.ArchAllowed(h.Arch) {
		g.logger.Debug("skipping package outside arch filter",
			logging.String("path", path),
			logging.String("arch", h.Arch),
		)
		return nil
	}
	dst := filepath.Join(dest, h.Arch, filepath.Base(path))
	if err := fileutil.CopyFile(path, dst, 0o644); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	add(&rpmpkg.Package{Path: dst, Header: h})
	return nil
}
