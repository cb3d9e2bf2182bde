package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
)

// ThresholdNames lists the accepted common.threshold values, lowest first.
var ThresholdNames = []string{"info", "waived", "verify", "bad"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if err := c.validateKoji(); err != nil {
		return err
	}
	if err := c.validateTests(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCommon() error {
	if c.Common.Workdir == "" {
		return errors.New("common.workdir must be set")
	}
	if !slices.Contains(ThresholdNames, c.Common.Threshold) {
		return fmt.Errorf("common.threshold: unsupported value %q (want one of %v)", c.Common.Threshold, ThresholdNames)
	}
	return nil
}

func (c *Config) validateKoji() error {
	for key, raw := range map[string]string{
		"koji.hub":             c.Koji.Hub,
		"koji.download_ursine": c.Koji.DownloadUrsine,
		"koji.download_mbs":    c.Koji.DownloadMBS,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute URL", key, raw)
		}
	}
	if c.Koji.Downloads <= 0 {
		return errors.New("koji.downloads must be positive")
	}
	return nil
}

func (c *Config) validateTests() error {
	for _, dir := range c.Tests.BinPaths {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("tests.bin_paths: %q is not an absolute path", dir)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
