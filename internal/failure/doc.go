// Package failure classifies the errors rpminspect can exit with.
//
// Components return plain sentinel-wrapped errors; the CLI and pipeline tag
// them with a class marker (usage, configuration, resource, acquisition,
// inspection, format) through Wrap so the exit path can pick the exit status
// and decide whether to print the --help hint.
package failure
