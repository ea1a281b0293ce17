package dialog

import (
	"fmt"
	"strings"

	"fmdgen/internal/extract"
	"fmdgen/internal/render"
	"fmdgen/internal/spec"
)

// Policy tunes the controller: how many follow-up questions a turn may
// carry and what "complete" means. The default policy requires a system
// name, at least one component, and at least one state or fault per
// component.
type Policy struct {
	MaxQuestions int
	Missing      func(*spec.LevelSpec) []string
}

// DefaultPolicy returns the standard completeness policy.
func DefaultPolicy() Policy {
	return Policy{MaxQuestions: 3, Missing: missingContent}
}

func missingContent(sp *spec.LevelSpec) []string {
	var missing []string
	if sp.Name == "" {
		missing = append(missing, "a system name")
	}
	if len(sp.Components) == 0 {
		missing = append(missing, "at least one component")
	}
	for _, c := range sp.Components {
		if len(c.States) == 0 && len(c.Faults) == 0 {
			missing = append(missing, fmt.Sprintf("states or faults for %s", c.Name))
		}
	}
	return missing
}

func statusOf(sp *spec.LevelSpec, p Policy) spec.Status {
	if len(p.Missing(sp)) == 0 {
		return spec.StatusReady
	}
	return spec.StatusGathering
}

// TurnResult is the controller's answer to one utterance.
type TurnResult struct {
	Acknowledgment string
	Questions      []string
	Status         spec.Status

	// Changes lists exactly what this turn added, one entry per entity.
	Changes   []string
	Conflicts []Conflict
	Notes     []extract.Note

	// GenerateRequested is set when the utterance asked for generation
	// instead of describing content.
	GenerateRequested bool
}

// Controller drives the gathering state machine for one or more sessions.
type Controller struct {
	policy Policy
}

// NewController returns a controller with the default policy.
func NewController() *Controller {
	return &Controller{policy: DefaultPolicy()}
}

// NewControllerWith returns a controller with a custom policy. Zero
// fields fall back to the defaults.
func NewControllerWith(p Policy) *Controller {
	d := DefaultPolicy()
	if p.MaxQuestions <= 0 {
		p.MaxQuestions = d.MaxQuestions
	}
	if p.Missing == nil {
		p.Missing = d.Missing
	}
	return &Controller{policy: p}
}

// Advance runs one turn: extract proposals from the utterance, merge
// them into the session's spec, recompute status and answer with a diff
// of this turn's changes plus follow-up questions while gathering.
func (c *Controller) Advance(sess *Session, utterance string) TurnResult {
	res := extract.Extract(utterance, sess.Spec)
	sess.Turns++

	if res.Intent == extract.IntentGenerate {
		tr := TurnResult{GenerateRequested: true, Status: sess.Spec.Status}
		if sess.Spec.Status == spec.StatusReady {
			tr.Acknowledgment = "Generating artifacts."
		} else {
			tr.Acknowledgment = "Not ready to generate yet; still missing: " +
				strings.Join(c.policy.Missing(sess.Spec), "; ") + "."
			tr.Questions = questionSet(sess.Spec, sess.lastComponent, c.policy.MaxQuestions)
		}
		return tr
	}

	next := sess.Spec.Clone()
	cs := applyProposals(next, res.Proposals, sess.lastComponent)
	next.Status = statusOf(next, c.policy)
	sess.Spec = next
	sess.lastComponent = cs.last

	tr := TurnResult{
		Status:    next.Status,
		Changes:   cs.added,
		Conflicts: cs.conflicts,
		Notes:     res.Notes,
	}
	tr.Acknowledgment = acknowledgment(cs, res.Notes, next.Status)
	if next.Status == spec.StatusGathering {
		tr.Questions = questionSet(next, sess.lastComponent, c.policy.MaxQuestions)
	}
	return tr
}

// acknowledgment summarizes exactly what changed this turn, never the
// whole specification.
func acknowledgment(cs changeSet, notes []extract.Note, status spec.Status) string {
	var parts []string
	if len(cs.added) > 0 {
		parts = append(parts, "Added "+strings.Join(cs.added, ", ")+".")
	}
	for _, c := range cs.conflicts {
		parts = append(parts, "Conflict on "+c.String()+".")
	}
	if len(parts) == 0 {
		msg := "Nothing new captured from that."
		for _, n := range notes {
			if n.Code == extract.NoteUnrecognized {
				msg += " Try naming components, states or faults directly."
				break
			}
		}
		parts = append(parts, msg)
	}
	if status == spec.StatusReady {
		parts = append(parts, `The specification is complete; say "generate" to produce the files.`)
	}
	return strings.Join(parts, " ")
}

// IncompleteError reports a generate request against an incomplete spec.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "specification incomplete: missing " + strings.Join(e.Missing, "; ")
}

// Generate gates rendering on readiness. It is the only path from a
// session to artifacts; while gathering it fails with the missing items
// and produces nothing.
func (c *Controller) Generate(sess *Session) ([]render.Artifact, error) {
	if missing := c.policy.Missing(sess.Spec); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}
	return render.Render(sess.Spec)
}

// Summary is a one-line status of the session, used by the wizard's
// status command.
func Summary(sess *Session) string {
	sp := sess.Spec
	name := sp.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("%s: %d components, %d flows, %d connections [%s]",
		name, len(sp.Components), len(sp.Flows), len(sp.Architecture.Connections), sp.Status)
}
