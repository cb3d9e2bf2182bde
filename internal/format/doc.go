// Package format holds the output format registry and its renderers.
//
// The first registered format (text) is the default. Renderers write to the
// file named with -o, or to stdout when no file is given; sqlite always
// needs a file because it appends to a database.
package format
