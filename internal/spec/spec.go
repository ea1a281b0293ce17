package spec

// Status tracks the conversation lifecycle of a LevelSpec.
type Status string

const (
	// StatusGathering means the spec is still missing required content.
	StatusGathering Status = "GATHERING"

	// StatusReady means the completeness predicate holds and the spec
	// can be rendered.
	StatusReady Status = "READY"
)

// FaultMode is a named abnormal condition a component can exhibit.
// Rate is an occurrence rate per hour; nil defers to the framework default.
type FaultMode struct {
	Name string   `json:"name" yaml:"name"`
	Rate *float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
}

// StateVar is a named state variable with a typed default value.
// The value's kind is fixed once first declared.
type StateVar struct {
	Name    string `json:"name" yaml:"name"`
	Default Value  `json:"default" yaml:"default"`
}

// ComponentSpec describes one functional unit of the modeled system
// (a "function" in fmdtools terms). The name is the join key used by
// connections and by the architecture.
type ComponentSpec struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	States      []StateVar  `json:"states,omitempty" yaml:"states,omitempty"`
	Faults      []FaultMode `json:"faults,omitempty" yaml:"faults,omitempty"`
}

// State returns the state variable with the given name, or nil.
func (c *ComponentSpec) State(name string) *StateVar {
	for i := range c.States {
		if c.States[i].Name == name {
			return &c.States[i]
		}
	}
	return nil
}

// Fault returns the fault mode with the given name, or nil.
func (c *ComponentSpec) Fault(name string) *FaultMode {
	for i := range c.Faults {
		if c.Faults[i].Name == name {
			return &c.Faults[i]
		}
	}
	return nil
}

// FlowSpec describes a named interface value exchanged between components.
type FlowSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Vars        []StateVar `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Var returns the flow variable with the given name, or nil.
func (f *FlowSpec) Var(name string) *StateVar {
	for i := range f.Vars {
		if f.Vars[i].Name == name {
			return &f.Vars[i]
		}
	}
	return nil
}

// ConnectionSpec wires two components together through a flow.
// Adding the same triple twice is a no-op.
type ConnectionSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Flow string `json:"flow" yaml:"flow"`
}

// ArchitectureSpec enumerates the components and connections of the model.
type ArchitectureSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Components  []string         `json:"components" yaml:"components"`
	Connections []ConnectionSpec `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// HasConnection reports whether the architecture already contains the triple.
func (a *ArchitectureSpec) HasConnection(conn ConnectionSpec) bool {
	for _, c := range a.Connections {
		if c == conn {
			return true
		}
	}
	return false
}

// SimulationSpec holds the boolean toggles controlling which optional
// blocks the level artifact includes.
type SimulationSpec struct {
	SampleRun      bool    `json:"sample_run" yaml:"sample_run"`
	FaultAnalysis  bool    `json:"fault_analysis" yaml:"fault_analysis"`
	ParameterStudy bool    `json:"parameter_study" yaml:"parameter_study"`
	EndTime        float64 `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	TimeStep       float64 `json:"time_step,omitempty" yaml:"time_step,omitempty"`
}

// LevelSpec is the complete description of one modeled system and the
// root of the data model. One LevelSpec is exclusively owned by one
// conversation session; the renderer borrows it read-only.
type LevelSpec struct {
	Name         string           `json:"name" yaml:"name"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	Components   []ComponentSpec  `json:"components" yaml:"components"`
	Flows        []FlowSpec       `json:"flows,omitempty" yaml:"flows,omitempty"`
	Architecture ArchitectureSpec `json:"architecture" yaml:"architecture"`
	Simulation   SimulationSpec   `json:"simulation" yaml:"simulation"`

	// Status is conversation-only bookkeeping; it is not rendered.
	Status Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// New returns an empty LevelSpec in the GATHERING state.
func New() *LevelSpec {
	return &LevelSpec{Status: StatusGathering}
}

// Component returns the component with the given name, or nil.
func (s *LevelSpec) Component(name string) *ComponentSpec {
	for i := range s.Components {
		if s.Components[i].Name == name {
			return &s.Components[i]
		}
	}
	return nil
}

// Flow returns the flow with the given name, or nil.
func (s *LevelSpec) Flow(name string) *FlowSpec {
	for i := range s.Flows {
		if s.Flows[i].Name == name {
			return &s.Flows[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the spec. Sessions snapshot through Clone
// so a failed operation can never leave a valid spec half-updated.
func (s *LevelSpec) Clone() *LevelSpec {
	if s == nil {
		return nil
	}
	out := *s

	out.Components = append([]ComponentSpec(nil), s.Components...)
	for i := range out.Components {
		c := &out.Components[i]
		c.States = append([]StateVar(nil), c.States...)
		c.Faults = append([]FaultMode(nil), c.Faults...)
		for j := range c.Faults {
			if c.Faults[j].Rate != nil {
				rate := *c.Faults[j].Rate
				c.Faults[j].Rate = &rate
			}
		}
	}

	out.Flows = append([]FlowSpec(nil), s.Flows...)
	for i := range out.Flows {
		out.Flows[i].Vars = append([]StateVar(nil), out.Flows[i].Vars...)
	}

	out.Architecture.Components = append([]string(nil), s.Architecture.Components...)
	out.Architecture.Connections = append([]ConnectionSpec(nil), s.Architecture.Connections...)

	return &out
}
