// Package writer persists rendered artifacts to disk. It owns the
// overwrite policy the renderer stays out of: without force, all
// colliding paths are collected and reported in one error so the user
// sees the full picture before anything is written.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fmdgen/internal/render"
)

// CollisionError lists every artifact path that already exists.
type CollisionError struct {
	Dir   string
	Paths []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("files already exist in %s: %s (use --force to overwrite or --dry-run to preview)",
		e.Dir, strings.Join(e.Paths, ", "))
}

// Write creates dir and writes every artifact under it. Without force
// it fails before writing anything if any target path exists. It
// returns the absolute paths written.
func Write(dir string, artifacts []render.Artifact, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if !force {
		var existing []string
		for _, a := range artifacts {
			if _, err := os.Stat(filepath.Join(dir, a.Path)); err == nil {
				existing = append(existing, a.Path)
			}
		}
		if len(existing) > 0 {
			return nil, &CollisionError{Dir: dir, Paths: existing}
		}
	}

	var written []string
	for _, a := range artifacts {
		target := filepath.Join(dir, a.Path)
		if err := os.WriteFile(target, []byte(a.Content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", a.Path, err)
		}
		written = append(written, target)
	}
	return written, nil
}
