// Package main hosts the rpminspect CLI entrypoint.
//
// The command parses the option set, loads the TOML configuration, and hands
// a single run to the pipeline package. Fatal errors are printed with a
// "***" prefix; usage errors add a pointer to --help. Exit status is 0 on
// success and 1 on any failure, including failed inspections.
package main
