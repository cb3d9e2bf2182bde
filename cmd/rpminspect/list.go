package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/sys/unix"

	"rpminspect/internal/format"
	"rpminspect/internal/inspect"
)

const (
	defaultWidth = 80
	listIndent   = 8
)

// printList writes the output formats and then the inspections. Descriptions
// are printed when verbose is set.
func printList(w io.Writer, reg *inspect.Registry, verbose bool) {
	width := terminalWidth(w)

	fmt.Fprintln(w, "Available output formats:")
	for i, f := range format.All() {
		name := f.Name
		if i == 0 {
			name += " (default)"
		}
		fmt.Fprintf(w, "    %s\n", name)
		if verbose {
			describe(w, f.Description, width)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available inspections:")
	for _, d := range reg.All() {
		fmt.Fprintf(w, "    %s\n", d.Name)
		if verbose {
			describe(w, d.Description, width)
		}
	}
}

func describe(w io.Writer, desc string, width int) {
	if strings.TrimSpace(desc) == "" {
		return
	}
	wrap := width - listIndent
	if wrap < 20 {
		wrap = 20
	}
	pad := strings.Repeat(" ", listIndent)
	for _, line := range strings.Split(text.WrapSoft(desc, wrap), "\n") {
		fmt.Fprintf(w, "%s%s\n", pad, strings.TrimRight(line, " "))
	}
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return defaultWidth
	}
	return int(ws.Col)
}
