package format

import (
	"encoding/json"

	"rpminspect/internal/results"
)

type jsonEntry struct {
	Result     string `json:"result"`
	Waiver     string `json:"waiver authorization"`
	Message    string `json:"message,omitempty"`
	Screendump string `json:"screendump,omitempty"`
	Remedy     string `json:"remedy,omitempty"`
}

func renderJSON(res *results.Results, dest Destination) error {
	doc := map[string][]jsonEntry{}
	for _, group := range res.ByHeader() {
		entries := make([]jsonEntry, 0, len(group.Entries))
		for _, e := range group.Entries {
			entries = append(entries, jsonEntry{
				Result:     e.Severity.String(),
				Waiver:     e.WaiverAuth.String(),
				Message:    e.Message,
				Screendump: e.Screendump,
				Remedy:     e.Remedy,
			})
		}
		doc[group.Header] = entries
	}

	out, err := dest.Open()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
