package render

import (
	"strconv"

	"fmdgen/internal/spec"
)

// view is the fully resolved, render-ready form of a LevelSpec. All
// sanitization and escaping happens while building it so the file
// builders only concatenate trusted strings.
type view struct {
	SpecName   string // sanitized module name of the level
	LevelClass string
	LevelDoc   string
	ArchClass  string
	Components []componentView
	Flows      []flowView
	Sim        spec.SimulationSpec
}

type componentView struct {
	SafeName string
	Class    string
	Doc      string
	States   []varView
	Faults   []faultView
	// FlowArgs are the sanitized names of flows this component touches
	// through architecture connections, in flow declaration order.
	FlowArgs []string
}

type flowView struct {
	SafeName string
	Class    string
	Doc      string
	Vars     []varView
}

type varView struct {
	Name    string
	PyType  string
	Literal string
}

type faultView struct {
	Name string
	Args string // python tuple literal, "()" when the rate is unset
}

func newView(s *spec.LevelSpec) (*view, error) {
	names := spec.SanitizeNames(s)

	v := &view{
		SpecName:   names.SpecName,
		LevelClass: spec.ClassName(s.Name),
		LevelDoc:   spec.EscapePyString(s.Description),
		Sim:        s.Simulation,
	}

	v.ArchClass = spec.ClassName(s.Architecture.Name)
	if v.ArchClass == "" {
		v.ArchClass = v.LevelClass + "Architecture"
	}

	for _, c := range s.Components {
		m := names.Components[c.Name]
		cv := componentView{
			SafeName: m.SafeName,
			Class:    m.ClassName,
			Doc:      spec.EscapePyString(c.Description),
			FlowArgs: componentFlows(s, names, c.Name),
		}
		if cv.Doc == "" {
			cv.Doc = cv.Class + " function."
		}
		for _, st := range c.States {
			cv.States = append(cv.States, newVarView(st))
		}
		for _, f := range c.Faults {
			cv.Faults = append(cv.Faults, faultView{
				Name: spec.Identifier(f.Name),
				Args: rateArgs(f.Rate),
			})
		}
		v.Components = append(v.Components, cv)
	}

	for _, f := range s.Flows {
		m := names.Flows[f.Name]
		fv := flowView{
			SafeName: m.SafeName,
			Class:    m.ClassName,
			Doc:      spec.EscapePyString(f.Description),
		}
		if fv.Doc == "" {
			fv.Doc = fv.Class + " flow."
		}
		for _, vr := range f.Vars {
			fv.Vars = append(fv.Vars, newVarView(vr))
		}
		v.Flows = append(v.Flows, fv)
	}

	return v, nil
}

// componentFlows resolves which flows a component is attached to, in the
// spec's flow declaration order. The same list feeds add_fxn in the
// architecture file, keeping wiring consistent with flows.py.
func componentFlows(s *spec.LevelSpec, names spec.SanitizedNames, comp string) []string {
	touched := map[string]bool{}
	for _, c := range s.Architecture.Connections {
		if c.From == comp || c.To == comp {
			touched[c.Flow] = true
		}
	}
	var out []string
	for _, f := range s.Flows {
		if touched[f.Name] {
			out = append(out, names.Flows[f.Name].SafeName)
		}
	}
	return out
}

func newVarView(v spec.StateVar) varView {
	return varView{
		Name:    spec.Identifier(v.Name),
		PyType:  pyType(v.Default),
		Literal: v.Default.PyLiteral(),
	}
}

func pyType(v spec.Value) string {
	switch v.Kind {
	case spec.KindBool:
		return "bool"
	case spec.KindString:
		return "str"
	default:
		if v.Int {
			return "int"
		}
		return "float"
	}
}

func rateArgs(rate *float64) string {
	if rate == nil {
		return "()"
	}
	return "(" + strconv.FormatFloat(*rate, 'g', -1, 64) + ",)"
}
