package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"rpminspect/internal/results"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderText(res *results.Results, dest Destination) error {
	out, err := dest.Open()
	if err != nil {
		return err
	}
	colorize := shouldColorize(dest.Writer())
	w := bufio.NewWriter(out)
	writeText(w, res, colorize)
	if err := w.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeText(w io.Writer, res *results.Results, colorize bool) {
	first := true
	for _, group := range res.ByHeader() {
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "%s:\n%s\n", group.Header, strings.Repeat("-", len(group.Header)+1))
		for i, e := range group.Entries {
			msg := e.Message
			if msg == "" {
				msg = "(no message)"
			}
			fmt.Fprintf(w, "%d) %s\n\n", i+1, msg)
			fmt.Fprintf(w, "Result: %s\n", paint(e.Severity.String(), severityColor(e.Severity), colorize))
			fmt.Fprintf(w, "Waiver Authorization: %s\n", e.WaiverAuth)
			if e.Screendump != "" {
				fmt.Fprintf(w, "\nDetails:\n%s\n", strings.TrimRight(e.Screendump, "\n"))
			}
			if e.Remedy != "" {
				fmt.Fprintf(w, "\nSuggested Remedy:\n%s\n", e.Remedy)
			}
			fmt.Fprintln(w)
		}
	}
}

func severityColor(s results.Severity) string {
	switch s {
	case results.SeverityOK:
		return ansiGreen
	case results.SeverityInfo, results.SeverityWaived:
		return ansiBlue
	case results.SeverityVerify:
		return ansiYellow
	default:
		return ansiRed
	}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
