// Package config loads, normalizes, and validates rpminspect configuration.
//
// It supplies vendor-neutral defaults, expands user paths (including ~ and
// ~user shortcuts), reads the TOML file, and rejects values the inspections
// cannot work with. The Config type holds the workdir location, the Koji
// endpoints used to fetch builds, vendor data such as the license database,
// and the per-inspection policy knobs under [tests].
//
// A configuration file is mandatory: an explicitly named file must be
// readable, and a missing default file usually means the vendor data package
// is not installed.
package config
