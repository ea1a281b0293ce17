package dialog

import (
	"fmt"

	"fmdgen/internal/extract"
	"fmdgen/internal/spec"
)

// Conflict records a proposal rejected because it contradicted content
// already in the spec. The first recorded value always wins; a conflict
// is surfaced, never silently overwritten.
type Conflict struct {
	Field    string
	Kept     string
	Rejected string
	Reason   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s: kept %s, rejected %s (%s)", c.Field, c.Kept, c.Rejected, c.Reason)
}

// changeSet is the outcome of merging one turn's proposals.
type changeSet struct {
	added     []string
	conflicts []Conflict
	last      string
}

func (cs *changeSet) addf(format string, args ...interface{}) {
	cs.added = append(cs.added, fmt.Sprintf(format, args...))
}

func (cs *changeSet) conflict(field, kept, rejected, reason string) {
	cs.conflicts = append(cs.conflicts, Conflict{Field: field, Kept: kept, Rejected: rejected, Reason: reason})
}

// applyProposals merges one turn's proposals into the spec in order.
// Additions append, identical re-declarations are no-ops, and
// contradictions become conflicts without touching the stored value.
// Entities referenced before their own proposal (a state naming a new
// component, a connection naming a new flow) are introduced on the spot
// so the outcome does not depend on proposal order.
func applyProposals(sp *spec.LevelSpec, proposals []extract.Proposal, last string) changeSet {
	cs := changeSet{last: last}
	for _, p := range proposals {
		switch p.Kind {
		case extract.KindSystemName:
			cs.mergeName(sp, p.Name)
		case extract.KindComponent:
			cs.mergeComponent(sp, p.Name)
		case extract.KindState:
			cs.mergeState(sp, p)
		case extract.KindFault:
			cs.mergeFault(sp, p)
		case extract.KindFlow:
			cs.mergeFlow(sp, p.Name)
		case extract.KindConnection:
			cs.mergeConnection(sp, p)
		}
	}
	return cs
}

func (cs *changeSet) mergeName(sp *spec.LevelSpec, name string) {
	switch {
	case name == "" || sp.Name == name:
	case sp.Name == "":
		sp.Name = name
		cs.addf("system name %q", name)
	default:
		cs.conflict("name", sp.Name, name, "name already set")
	}
}

func (cs *changeSet) mergeComponent(sp *spec.LevelSpec, name string) *spec.ComponentSpec {
	if name == "" {
		return nil
	}
	if c := sp.Component(name); c != nil {
		return c
	}
	sp.Components = append(sp.Components, spec.ComponentSpec{Name: name})
	sp.Architecture.Components = append(sp.Architecture.Components, name)
	cs.addf("component %s", name)
	cs.last = name
	return sp.Component(name)
}

func (cs *changeSet) mergeState(sp *spec.LevelSpec, p extract.Proposal) {
	if p.Value == nil {
		return
	}
	owner := p.Component
	if owner == "" {
		owner = cs.last
	}
	if owner == "" {
		cs.conflict("state "+p.Name, "", p.Value.String(), "no component to attach to")
		return
	}
	c := cs.mergeComponent(sp, owner)

	v := c.State(p.Name)
	if v == nil {
		c.States = append(c.States, spec.StateVar{Name: p.Name, Default: *p.Value})
		cs.addf("state %s.%s = %s", owner, p.Name, p.Value)
		return
	}
	if v.Default.Equal(*p.Value) {
		return
	}
	field := fmt.Sprintf("state %s.%s", owner, p.Name)
	if v.Default.Kind != p.Value.Kind {
		reason := fmt.Sprintf("type conflict: %s vs %s", v.Default.Kind, p.Value.Kind)
		cs.conflict(field, v.Default.String(), p.Value.String(), reason)
		return
	}
	cs.conflict(field, v.Default.String(), p.Value.String(), "default already set")
}

func (cs *changeSet) mergeFault(sp *spec.LevelSpec, p extract.Proposal) {
	owner := p.Component
	if owner == "" {
		owner = cs.last
	}
	if owner == "" {
		cs.conflict("fault "+p.Name, "", p.Name, "no component to attach to")
		return
	}
	c := cs.mergeComponent(sp, owner)

	f := c.Fault(p.Name)
	if f == nil {
		mode := spec.FaultMode{Name: p.Name}
		if p.Rate != nil {
			rate := *p.Rate
			mode.Rate = &rate
		}
		c.Faults = append(c.Faults, mode)
		cs.addf("fault %s.%s", owner, p.Name)
		return
	}
	if p.Rate == nil || (f.Rate != nil && *f.Rate == *p.Rate) {
		return
	}
	field := fmt.Sprintf("fault %s.%s", owner, p.Name)
	if f.Rate == nil {
		rate := *p.Rate
		f.Rate = &rate
		cs.addf("rate %s.%s = %g", owner, p.Name, rate)
		return
	}
	cs.conflict(field, fmt.Sprintf("%g", *f.Rate), fmt.Sprintf("%g", *p.Rate), "rate already set")
}

func (cs *changeSet) mergeFlow(sp *spec.LevelSpec, name string) {
	if name == "" || sp.Flow(name) != nil {
		return
	}
	sp.Flows = append(sp.Flows, spec.FlowSpec{Name: name})
	cs.addf("flow %s", name)
}

func (cs *changeSet) mergeConnection(sp *spec.LevelSpec, p extract.Proposal) {
	if p.Connection == nil {
		return
	}
	conn := *p.Connection
	cs.mergeComponent(sp, conn.From)
	cs.mergeComponent(sp, conn.To)
	cs.mergeFlow(sp, conn.Flow)

	if sp.Architecture.HasConnection(conn) {
		return
	}
	sp.Architecture.Connections = append(sp.Architecture.Connections, conn)
	cs.addf("connection %s -> %s via %s", conn.From, conn.To, conn.Flow)
}
