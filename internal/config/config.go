package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sys/unix"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultConfigPath is read when no -c option is given.
const DefaultConfigPath = "/etc/rpminspect/rpminspect.toml"

var (
	// ErrUnreadable reports an explicitly named config file that cannot be read.
	ErrUnreadable = errors.New("unable to read config")
	// ErrDefaultMissing reports that the default config file is absent or unreadable.
	ErrDefaultMissing = errors.New("missing default config")
)

// Common holds settings shared by every run.
type Common struct {
	Workdir   string `toml:"workdir"`
	Threshold string `toml:"threshold"`
}

// Koji describes the build system builds are fetched from.
type Koji struct {
	Hub            string `toml:"hub"`
	DownloadUrsine string `toml:"download_ursine"`
	DownloadMBS    string `toml:"download_mbs"`
	Downloads      int    `toml:"downloads"`
}

// VendorData locates policy data shipped by the vendor data package.
type VendorData struct {
	LicenseDB string `toml:"licensedb"`
}

// Tests carries the policy knobs individual inspections consult.
type Tests struct {
	Vendor                string   `toml:"vendor"`
	BadWords              []string `toml:"badwords"`
	BuildHostSubdomain    []string `toml:"buildhost_subdomain"`
	SecurityPathPrefix    []string `toml:"security_path_prefix"`
	ForbiddenPathPrefixes []string `toml:"forbidden_path_prefixes"`
	ForbiddenPathSuffixes []string `toml:"forbidden_path_suffixes"`
	BinPaths              []string `toml:"bin_paths"`
	BinOwner              string   `toml:"bin_owner"`
	BinGroup              string   `toml:"bin_group"`
	ForbiddenOwners       []string `toml:"forbidden_owners"`
	ForbiddenGroups       []string `toml:"forbidden_groups"`
}

// Logging contains configuration for diagnostic output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rpminspect.
//
// Sections:
//   - Common: workdir and the failure threshold
//   - Koji: hub and package download endpoints
//   - VendorData: license database location
//   - Tests: inspection policy
//   - Logging: diagnostic format and level
type Config struct {
	Common     Common     `toml:"common"`
	Koji       Koji       `toml:"koji"`
	VendorData VendorData `toml:"vendor_data"`
	Tests      Tests      `toml:"tests"`
	Logging    Logging    `toml:"logging"`
}

// Load reads, normalizes, and validates the configuration at path, or at
// DefaultConfigPath when path is empty. The resolved path is returned.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, resolved, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, resolved, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, err
	}
	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", err
		}
		if !readableFile(expanded) {
			return "", fmt.Errorf("%w: specified config file (%s) is unreadable", ErrUnreadable, expanded)
		}
		return expanded, nil
	}
	if !readableFile(DefaultConfigPath) {
		return "", fmt.Errorf("%w: unable to read the default config file (%s); have you installed an rpminspect-data package for your distro?", ErrDefaultMissing, DefaultConfigPath)
	}
	return DefaultConfigPath, nil
}

func readableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(path, unix.R_OK) == nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		name, rest, _ := strings.Cut(pathValue[1:], "/")
		var home string
		if name == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory: %w", err)
			}
			home = h
		} else {
			u, err := user.Lookup(name)
			if err != nil {
				return "", fmt.Errorf("resolve home directory for %q: %w", name, err)
			}
			home = u.HomeDir
		}
		pathValue = filepath.Join(home, rest)
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the ~ and ~user expansion rules used for config paths.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
