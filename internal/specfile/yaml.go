package specfile

import (
	"gopkg.in/yaml.v3"

	"fmdgen/internal/spec"
)

// loadYAML decodes a YAML spec file. Syntax errors and shape errors get
// distinct codes so callers can tell a broken file from a mismatched one.
func loadYAML(path string, data []byte) (*spec.LevelSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}

	out := spec.New()
	if doc.Kind == 0 {
		// Empty document: an empty GATHERING spec is a valid seed.
		return out, nil
	}
	if err := doc.Decode(out); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Path: path, Message: err.Error()}
	}

	if out.Status == "" {
		out.Status = spec.StatusGathering
	}
	return out, nil
}
