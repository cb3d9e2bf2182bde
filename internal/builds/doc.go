// Package builds stages the before and after builds of a run.
//
// A build specification is a local directory tree of RPMs, a single local
// RPM file, or a Koji build (NVR or numeric id). Packages are copied or
// downloaded into <worksubdir>/{after,before}/<arch>/, filtered by the -a
// architecture list, and paired into peers by name and architecture so the
// comparison inspections can walk them together.
package builds
