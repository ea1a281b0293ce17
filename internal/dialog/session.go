// Package dialog runs the turn loop that grows a LevelSpec from freeform
// utterances. Each turn extracts proposals, merges them under
// first-writer-wins rules, recomputes readiness and answers with a diff
// of what changed plus up to a few targeted follow-up questions.
package dialog

import (
	"github.com/google/uuid"

	"fmdgen/internal/spec"
)

// Session owns one LevelSpec for the duration of one conversation.
// Sessions are single-threaded: a turn completes before the next begins.
type Session struct {
	ID   string
	Spec *spec.LevelSpec

	// lastComponent is the most recently added component, used both to
	// attach owner-less proposals and to target follow-up questions.
	lastComponent string

	// Turns counts completed advance calls.
	Turns int
}

// NewSession starts a conversation with an empty spec.
func NewSession() *Session {
	return &Session{
		ID:   uuid.Must(uuid.NewV7()).String(),
		Spec: spec.New(),
	}
}

// NewSessionFromPartial starts a conversation pre-filled from an existing
// spec, for example one loaded from a spec file. The input is cloned so
// the caller's copy stays untouched, the architecture component list is
// synced, and status is recomputed from the actual content.
func NewSessionFromPartial(partial *spec.LevelSpec) *Session {
	s := &Session{
		ID:   uuid.Must(uuid.NewV7()).String(),
		Spec: partial.Clone(),
	}
	syncArchitecture(s.Spec)
	if len(s.Spec.Components) > 0 {
		s.lastComponent = s.Spec.Components[len(s.Spec.Components)-1].Name
	}
	s.Spec.Status = statusOf(s.Spec, DefaultPolicy())
	return s
}

// LastComponent returns the name of the most recently added component.
func (s *Session) LastComponent() string {
	return s.lastComponent
}

// syncArchitecture makes the architecture's component list mirror the
// declared components, preserving declaration order.
func syncArchitecture(sp *spec.LevelSpec) {
	listed := map[string]bool{}
	for _, name := range sp.Architecture.Components {
		listed[name] = true
	}
	for _, c := range sp.Components {
		if !listed[c.Name] {
			sp.Architecture.Components = append(sp.Architecture.Components, c.Name)
		}
	}
}
