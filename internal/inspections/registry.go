// Package inspections holds the bundled inspection drivers and the ordered
// registry the CLI selects from.
package inspections

import "rpminspect/internal/inspect"

var registry = inspect.MustRegistry(
	inspect.Spec{
		Name:        "license",
		SingleBuild: true,
		Driver:      inspectLicense,
		Description: "Verify the string specified in the License tag of the RPM metadata describes permissible software licenses as defined by the license database. Also checks to see if the License tag contains any unprofessional words as defined in the configuration file.",
	},
	inspect.Spec{
		Name:        "emptyrpm",
		SingleBuild: true,
		Driver:      inspectEmptyRPM,
		Description: "Check all binary RPMs in the before and after builds for any empty payloads. Packages that lost payload data from the before build to the after build are reported, as are packages in the after build that are empty.",
	},
	inspect.Spec{
		Name:        "metadata",
		SingleBuild: true,
		Driver:      inspectMetadata,
		Description: "Perform some RPM header checks. First, check that the Vendor contains the expected string as defined in the configuration file. Second, check that the build host is in the expected subdomain. Third, check the Summary and Description for forbidden words. When comparing two builds, also report changes in Vendor and Summary.",
	},
	inspect.Spec{
		Name:        "disttag",
		SingleBuild: true,
		Driver:      inspectDistTag,
		Description: "Check that the Release tag of the source package carries the dist tag of the product release.",
	},
	inspect.Spec{
		Name:        "specname",
		SingleBuild: true,
		Driver:      inspectSpecName,
		Description: "Ensure the spec file name conforms to the NAME.spec naming format.",
	},
	inspect.Spec{
		Name:        "removedfiles",
		Driver:      inspectRemovedFiles,
		Description: "Report files and subpackages removed between the before and after builds. Removals below security paths need a security review.",
	},
	inspect.Spec{
		Name:        "addedfiles",
		Driver:      inspectAddedFiles,
		Description: "Report files added between the before and after builds. Files in forbidden locations fail; additions below security paths need a security review.",
	},
	inspect.Spec{
		Name:        "ownership",
		SingleBuild: true,
		Driver:      inspectOwnership,
		Description: "Report files and directories owned by unexpected users and groups. Executables in the configured binary directories must be owned by the configured owner and group, and no file may be owned by a forbidden user or group. When comparing two builds, ownership changes are reported.",
	},
)

// Registry returns the process-wide inspection registry.
func Registry() *inspect.Registry {
	return registry
}
