// Package render turns a completed level specification into fmdtools
// Python source artifacts. Rendering is a pure function of the spec: the
// input is never mutated, output ordering is fixed, and every identifier
// is routed through the sanitizers in internal/spec so names agree
// across files. Free-text fields are escaped before they reach any
// generated string literal.
package render

import (
	"fmt"

	"fmdgen/internal/spec"
)

// Artifact is one generated file, addressed relative to the output
// directory returned by OutputDir.
type Artifact struct {
	Path    string
	Content string
}

// OutputDir returns the directory name all artifacts are written under,
// derived from the sanitized level name.
func OutputDir(s *spec.LevelSpec) string {
	return spec.Identifier(s.Name)
}

// Paths lists the relative paths Render would produce, in render order.
func Paths(arts []Artifact) []string {
	out := make([]string, len(arts))
	for i, a := range arts {
		out[i] = a.Path
	}
	return out
}

// Render produces the full artifact set for a validated spec:
// one file per component, flows.py, architecture.py, level_<name>.py
// and __init__.py, in that order. It fails without partial output when
// the spec does not validate.
func Render(s *spec.LevelSpec) ([]Artifact, error) {
	if errs := spec.Validate(s); len(errs) > 0 {
		return nil, errs
	}

	v, err := newView(s)
	if err != nil {
		return nil, err
	}

	arts := make([]Artifact, 0, len(s.Components)+4)
	for _, c := range v.Components {
		arts = append(arts, Artifact{Path: c.SafeName + ".py", Content: componentFile(c)})
	}
	arts = append(arts,
		Artifact{Path: "flows.py", Content: flowsFile(v)},
		Artifact{Path: "architecture.py", Content: architectureFile(v)},
		Artifact{Path: fmt.Sprintf("level_%s.py", v.SpecName), Content: levelFile(v)},
		Artifact{Path: "__init__.py", Content: initFile(v)},
	)
	return arts, nil
}
