package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rpminspect/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose workdir and license database live in a
// per-test temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Common.Workdir = filepath.Join(base, "work")
	cfgVal.VendorData.LicenseDB = filepath.Join(base, "licenses.json")
	cfgVal.Koji.Hub = ""

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithLicenseDB writes body as the license database.
func WithLicenseDB(body string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.VendorData.LicenseDB, []byte(body), 0o644); err != nil {
			b.t.Fatalf("write license db: %v", err)
		}
	}
}

// WithThreshold overrides common.threshold.
func WithThreshold(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Common.Threshold = name
	}
}

// WriteConfigFile serializes cfg to a TOML file in a temp directory and
// returns its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "rpminspect.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Common.Workdir)
}
