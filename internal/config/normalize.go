package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCommon(); err != nil {
		return err
	}
	c.normalizeKoji()
	if err := c.normalizeVendorData(); err != nil {
		return err
	}
	c.normalizeTests()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCommon() error {
	if strings.TrimSpace(c.Common.Workdir) == "" {
		c.Common.Workdir = defaultWorkdir
	}
	var err error
	if c.Common.Workdir, err = expandPath(strings.TrimSpace(c.Common.Workdir)); err != nil {
		return fmt.Errorf("common.workdir: %w", err)
	}
	c.Common.Threshold = strings.ToLower(strings.TrimSpace(c.Common.Threshold))
	if c.Common.Threshold == "" {
		c.Common.Threshold = defaultThreshold
	}
	return nil
}

func (c *Config) normalizeKoji() {
	c.Koji.Hub = strings.TrimSpace(c.Koji.Hub)
	c.Koji.DownloadUrsine = strings.TrimRight(strings.TrimSpace(c.Koji.DownloadUrsine), "/")
	c.Koji.DownloadMBS = strings.TrimRight(strings.TrimSpace(c.Koji.DownloadMBS), "/")
	if c.Koji.DownloadMBS == "" {
		c.Koji.DownloadMBS = c.Koji.DownloadUrsine
	}
	if c.Koji.Downloads <= 0 {
		c.Koji.Downloads = defaultKojiDownloads
	}
}

func (c *Config) normalizeVendorData() error {
	var err error
	if c.VendorData.LicenseDB, err = expandPath(strings.TrimSpace(c.VendorData.LicenseDB)); err != nil {
		return fmt.Errorf("vendor_data.licensedb: %w", err)
	}
	return nil
}

func (c *Config) normalizeTests() {
	t := &c.Tests
	t.Vendor = strings.TrimSpace(t.Vendor)
	t.BinOwner = strings.TrimSpace(t.BinOwner)
	t.BinGroup = strings.TrimSpace(t.BinGroup)
	t.BadWords = normalizeList(t.BadWords, strings.ToLower)
	t.BuildHostSubdomain = normalizeList(t.BuildHostSubdomain, strings.ToLower)
	t.SecurityPathPrefix = normalizeList(t.SecurityPathPrefix, nil)
	t.ForbiddenPathPrefixes = normalizeList(t.ForbiddenPathPrefixes, nil)
	t.ForbiddenPathSuffixes = normalizeList(t.ForbiddenPathSuffixes, nil)
	t.BinPaths = normalizeList(t.BinPaths, func(s string) string {
		if s != "/" {
			s = strings.TrimRight(s, "/")
		}
		return s
	})
	t.ForbiddenOwners = normalizeList(t.ForbiddenOwners, nil)
	t.ForbiddenGroups = normalizeList(t.ForbiddenGroups, nil)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeList trims entries, applies transform, and drops blanks and
// duplicates while keeping first-seen order.
func normalizeList(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		v := strings.TrimSpace(value)
		if transform != nil {
			v = transform(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
