package inspections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"rpminspect/internal/inspect"
	"rpminspect/internal/logging"
	"rpminspect/internal/results"
)

type licenseEntry struct {
	FedoraAbbrev string `json:"fedora_abbrev"`
	SPDXAbbrev   string `json:"spdx_abbrev"`
	Approved     string `json:"approved"`
}

// licenseDB maps every known identifier to whether it is approved.
type licenseDB map[string]bool

var licenseSeparator = regexp.MustCompile(`\s+(?i:and|or)\s+`)

func loadLicenseDB(path string) (licenseDB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]licenseEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse license database %s: %w", path, err)
	}
	db := make(licenseDB, len(raw)*2)
	for key, entry := range raw {
		approved := strings.EqualFold(entry.Approved, "yes") || strings.EqualFold(entry.Approved, "true")
		for _, name := range []string{key, entry.FedoraAbbrev, entry.SPDXAbbrev} {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			db[name] = db[name] || approved
		}
	}
	return db, nil
}

// unapproved returns the license expression terms not approved in db.
func (db licenseDB) unapproved(tag string) []string {
	tag = strings.TrimSpace(tag)
	if db[tag] {
		return nil
	}
	cleaned := strings.NewReplacer("(", " ", ")", " ").Replace(tag)
	var bad []string
	for _, term := range licenseSeparator.Split(cleaned, -1) {
		term = strings.TrimSpace(term)
		if term == "" || db[term] {
			continue
		}
		bad = append(bad, term)
	}
	return bad
}

func inspectLicense(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderLicense)

	db, err := loadLicenseDB(ri.Config.VendorData.LicenseDB)
	if err != nil {
		ri.Logger.Warn("license database unavailable",
			logging.String(logging.FieldInspection, "license"),
			logging.String("path", ri.Config.VendorData.LicenseDB),
			logging.Error(err))
		rec.add(results.Entry{
			Severity: results.SeverityBad,
			Message:  fmt.Sprintf("unable to read license database %s", ri.Config.VendorData.LicenseDB),
			Remedy:   results.RemedyLicenseDB,
		})
		return rec.done()
	}

	for _, pkg := range afterPackages(ri) {
		h := pkg.Header
		if strings.TrimSpace(h.License) == "" {
			rec.add(results.Entry{
				Severity: results.SeverityBad,
				Message:  fmt.Sprintf("%s has an empty License tag", h.NEVRA()),
				Remedy:   results.RemedyLicense,
			})
			continue
		}
		if bad := db.unapproved(h.License); len(bad) > 0 {
			rec.add(results.Entry{
				Severity:   results.SeverityBad,
				Message:    fmt.Sprintf("%s has unapproved license %q", h.NEVRA(), h.License),
				Screendump: strings.Join(bad, "\n"),
				Remedy:     results.RemedyLicense,
			})
		}
	}
	return rec.done()
}
