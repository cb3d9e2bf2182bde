package results

// Headers used by the bundled inspections.
const (
	HeaderLicense      = "license"
	HeaderEmptyRPM     = "emptyrpm"
	HeaderMetadata     = "header-metadata"
	HeaderDistTag      = "dist-tag"
	HeaderSpecName     = "spec-file-name"
	HeaderRemovedFiles = "removed-files"
	HeaderAddedFiles   = "added-files"
	HeaderOwnership    = "ownership"
)

// Suggested remedies attached to findings.
const (
	RemedyLicenseDB        = "Make sure the license database configured in vendor_data.licensedb exists and is readable."
	RemedyLicense          = "The License tag must contain an approved license or a combination of approved licenses joined with 'and' or 'or'. Consult the license database for valid abbreviations."
	RemedyEmptyRPM         = "Make sure the %files section of the spec file lists every file that should be packaged. An intentionally empty package can be waived."
	RemedyVendor           = "Change the Vendor tag or correct vendor in the [tests] section of the configuration."
	RemedyBuildHost        = "Make sure the package was built in the official build system."
	RemedyBadWords         = "Remove the offending word from the Summary or Description."
	RemedyDistTag          = "The Release tag in the spec file should end with %{?dist} so it carries the product release."
	RemedySpecName         = "The spec file must be named after the package: rename it to %{name}.spec."
	RemedyRemovedFiles     = "Check that removing the file is intended and that nothing else depends on it."
	RemedyAddedFiles       = "Files must not be installed below forbidden locations; move the file or drop it from %files."
	RemedyBinOwnership     = "Executables in system binary directories must be owned by the configured owner and group; fix the %attr or %defattr in the spec file."
	RemedyForbiddenOwner   = "Files must not be owned by build-time accounts; fix the %attr or %defattr in the spec file."
	RemedyOwnershipChanged = "File ownership changed between builds; make sure this is intended."
)
