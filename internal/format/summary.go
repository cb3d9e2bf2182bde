package format

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rpminspect/internal/results"
)

var severities = []results.Severity{
	results.SeverityOK,
	results.SeverityInfo,
	results.SeverityWaived,
	results.SeverityVerify,
	results.SeverityBad,
}

func severityLabel(s results.Severity) string {
	return cases.Title(language.Und).String(s.String())
}

func renderSummary(res *results.Results, dest Destination) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"Inspection"}
	for _, s := range severities {
		header = append(header, severityLabel(s))
	}
	header = append(header, "Result")
	tw.AppendHeader(header)

	for _, group := range res.ByHeader() {
		counts := make(map[results.Severity]int, len(severities))
		worst := results.SeverityOK
		for _, e := range group.Entries {
			counts[e.Severity]++
			if e.Severity > worst {
				worst = e.Severity
			}
		}
		row := table.Row{group.Header}
		for _, s := range severities {
			row = append(row, strconv.Itoa(counts[s]))
		}
		row = append(row, severityLabel(worst))
		tw.AppendRow(row)
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := range severities {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	out, err := dest.Open()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%s\nWorst result: %s\n", tw.Render(), severityLabel(res.Worst())); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
