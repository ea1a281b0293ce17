// Package specfile loads a LevelSpec from a file, for batch generation
// without a conversation. YAML is the primary format; CUE is accepted
// for specs that want constraints and composition.
package specfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fmdgen/internal/spec"
)

// Error code constants, unified across load failures.
const (
	ErrCodeGeneric     = "E001" // unknown error
	ErrCodeUnsupported = "E002" // unsupported file extension
	ErrCodeNotFound    = "E003" // file not found
	ErrCodeParse       = "E004" // YAML parse failed
	ErrCodeBuild       = "E005" // CUE build failed
	ErrCodeSchema      = "E006" // file parsed but does not match the schema
)

// LoadError is a coded error from spec file loading.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a spec file, dispatching on the extension. The returned
// spec has been shape-checked but not validated; callers run
// spec.Validate before rendering.
func Load(path string) (*spec.LevelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "spec file not found"}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path, data)
	case ".cue":
		return loadCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported spec format %q (want .yaml, .yml or .cue)", filepath.Ext(path)),
		}
	}
}
