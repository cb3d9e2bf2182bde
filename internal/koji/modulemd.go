package koji

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type moduleDocument struct {
	Document string `yaml:"document"`
	Data     struct {
		Filter struct {
			RPMs []string `yaml:"rpms"`
		} `yaml:"filter"`
	} `yaml:"data"`
}

// ParseModuleFilter returns the package names a modulemd document filters
// out of the module. The document may be a multi-document stream; only
// modulemd documents contribute.
func ParseModuleFilter(r io.Reader) (map[string]struct{}, error) {
	filter := map[string]struct{}{}
	dec := yaml.NewDecoder(r)
	for {
		var doc moduleDocument
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return filter, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse module metadata: %w", err)
		}
		if doc.Document != "" && doc.Document != "modulemd" {
			continue
		}
		for _, name := range doc.Data.Filter.RPMs {
			filter[name] = struct{}{}
		}
	}
}

// LoadModuleFilter reads ParseModuleFilter input from path.
func LoadModuleFilter(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseModuleFilter(f)
}
