package koji

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"rpminspect/internal/fileutil"
)

// PackageURL returns the package server location of rpm from the component
// pkgName of build. Builds on a non-default volume live below the volume name.
func PackageURL(base string, build Build, pkgName string, rpm RPM) string {
	base = strings.TrimRight(base, "/")
	if build.VolumeName != "" && build.VolumeName != "DEFAULT" {
		base = base + "/" + build.VolumeName
	}
	return fmt.Sprintf("%s/packages/%s/%s/%s/%s/%s", base, pkgName, rpm.Version, rpm.Release, rpm.Arch, rpm.FileName())
}

// ModuleMetadataURL returns the location of the module's modulemd document.
// An empty arch selects the combined document.
func ModuleMetadataURL(base string, build Build, arch string) string {
	name := "modulemd.txt"
	if arch != "" {
		name = "modulemd." + arch + ".txt"
	}
	return fmt.Sprintf("%s/packages/%s/%s/%s/files/module/%s", strings.TrimRight(base, "/"), build.PackageName, build.Version, build.Release, name)
}

// Downloader fetches artifacts from the package server.
type Downloader struct {
	HTTP *http.Client
}

// Fetch downloads url into dst and returns the bytes written.
func (d Downloader) Fetch(ctx context.Context, url, dst string) (int64, error) {
	client := d.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}
	n, err := fileutil.WriteAtomic(dst, resp.Body, 0o644)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", url, err)
	}
	return n, nil
}
