// Package workdir manages the scratch directory rpminspect downloads and
// unpacks builds into.
//
// Acquire creates the directory on demand and takes a shared flock on it, so
// several runs may use the same root while each owns its own work
// subdirectory. Release removes the run's subdirectory (unless the user asked
// to keep it) and removes the root once the last run has left and nothing
// else remains. Cleanup problems are logged as warnings and never change the
// outcome of a run.
package workdir
