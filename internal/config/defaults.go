package config

const (
	defaultWorkdir        = "/var/tmp/rpminspect"
	defaultThreshold      = "verify"
	defaultKojiHub        = "https://koji.fedoraproject.org/kojihub"
	defaultKojiPackages   = "https://kojipkgs.fedoraproject.org"
	defaultKojiDownloads  = 4
	defaultLicenseDB      = "/usr/share/rpminspect/licenses/generic.json"
	defaultVendor         = "Fedora Project"
	defaultBinOwner       = "root"
	defaultBinGroup       = "root"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultBuildHostPart  = ".fedoraproject.org"
	defaultSecurityPrefix = "/etc/sudoers.d/"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Common: Common{
			Workdir:   defaultWorkdir,
			Threshold: defaultThreshold,
		},
		Koji: Koji{
			Hub:            defaultKojiHub,
			DownloadUrsine: defaultKojiPackages,
			DownloadMBS:    defaultKojiPackages,
			Downloads:      defaultKojiDownloads,
		},
		VendorData: VendorData{
			LicenseDB: defaultLicenseDB,
		},
		Tests: Tests{
			Vendor:                defaultVendor,
			BuildHostSubdomain:    []string{defaultBuildHostPart},
			SecurityPathPrefix:    []string{defaultSecurityPrefix, "/etc/pam.d/", "/etc/security/"},
			ForbiddenPathPrefixes: []string{"/usr/local/", "/home/"},
			ForbiddenPathSuffixes: []string{"~", ".orig", ".rej"},
			BinPaths:              []string{"/bin", "/sbin", "/usr/bin", "/usr/sbin"},
			BinOwner:              defaultBinOwner,
			BinGroup:              defaultBinGroup,
			ForbiddenOwners:       []string{"mockbuild"},
			ForbiddenGroups:       []string{"mockbuild"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
