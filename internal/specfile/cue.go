package specfile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"fmdgen/internal/spec"
)

// loadCUE parses a CUE spec file. The expected shape is a top-level
// "level" struct with component, flow, connection and simulation fields:
//
//	level: {
//		name: "pump system"
//		component: Pump: {
//			state: pressure: 100
//			fault: cavitation: {rate: 1e-5}
//		}
//		flow: WaterFlow: var: flow_rate: 10.0
//		connection: [{from: "Pump", to: "Motor", flow: "WaterFlow"}]
//	}
func loadCUE(path string, data []byte) (*spec.LevelSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuild, Path: path, Message: cueerrors.Details(err, nil)}
	}

	level := v.LookupPath(cue.ParsePath("level"))
	if !level.Exists() {
		return nil, &LoadError{Code: ErrCodeSchema, Path: path, Message: `missing top-level "level" struct`}
	}

	out := spec.New()
	var err error
	if out.Name, err = optString(level, "name"); err != nil {
		return nil, schemaErr(path, err)
	}
	if out.Description, err = optString(level, "description"); err != nil {
		return nil, schemaErr(path, err)
	}

	if comps := level.LookupPath(cue.ParsePath("component")); comps.Exists() {
		iter, iterErr := comps.Fields()
		if iterErr != nil {
			return nil, schemaErr(path, iterErr)
		}
		for iter.Next() {
			c, cErr := parseComponent(iter.Label(), iter.Value())
			if cErr != nil {
				return nil, schemaErr(path, cErr)
			}
			out.Components = append(out.Components, c)
			out.Architecture.Components = append(out.Architecture.Components, c.Name)
		}
	}

	if flows := level.LookupPath(cue.ParsePath("flow")); flows.Exists() {
		iter, iterErr := flows.Fields()
		if iterErr != nil {
			return nil, schemaErr(path, iterErr)
		}
		for iter.Next() {
			f, fErr := parseFlow(iter.Label(), iter.Value())
			if fErr != nil {
				return nil, schemaErr(path, fErr)
			}
			out.Flows = append(out.Flows, f)
		}
	}

	if conns := level.LookupPath(cue.ParsePath("connection")); conns.Exists() {
		iter, iterErr := conns.List()
		if iterErr != nil {
			return nil, schemaErr(path, iterErr)
		}
		for iter.Next() {
			conn, cErr := parseConnection(iter.Value())
			if cErr != nil {
				return nil, schemaErr(path, cErr)
			}
			out.Architecture.Connections = append(out.Architecture.Connections, conn)
		}
	}

	if out.Architecture.Name, err = optString(level, "architecture"); err != nil {
		return nil, schemaErr(path, err)
	}

	if sim := level.LookupPath(cue.ParsePath("simulation")); sim.Exists() {
		if err = parseSimulation(sim, &out.Simulation); err != nil {
			return nil, schemaErr(path, err)
		}
	}

	return out, nil
}

func schemaErr(path string, err error) *LoadError {
	return &LoadError{Code: ErrCodeSchema, Path: path, Message: err.Error()}
}

func optString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", fmt.Errorf("%s: %v", field, err)
	}
	return s, nil
}

func parseComponent(name string, v cue.Value) (spec.ComponentSpec, error) {
	c := spec.ComponentSpec{Name: name}
	var err error
	if c.Description, err = optString(v, "description"); err != nil {
		return c, fmt.Errorf("component %s: %v", name, err)
	}

	if states := v.LookupPath(cue.ParsePath("state")); states.Exists() {
		iter, iterErr := states.Fields()
		if iterErr != nil {
			return c, fmt.Errorf("component %s: %v", name, iterErr)
		}
		for iter.Next() {
			val, vErr := parseScalar(iter.Value())
			if vErr != nil {
				return c, fmt.Errorf("component %s, state %s: %v", name, iter.Label(), vErr)
			}
			c.States = append(c.States, spec.StateVar{Name: iter.Label(), Default: val})
		}
	}

	if faults := v.LookupPath(cue.ParsePath("fault")); faults.Exists() {
		iter, iterErr := faults.Fields()
		if iterErr != nil {
			return c, fmt.Errorf("component %s: %v", name, iterErr)
		}
		for iter.Next() {
			mode := spec.FaultMode{Name: iter.Label()}
			if rv := iter.Value().LookupPath(cue.ParsePath("rate")); rv.Exists() {
				rate, rErr := rv.Float64()
				if rErr != nil {
					return c, fmt.Errorf("component %s, fault %s: %v", name, iter.Label(), rErr)
				}
				mode.Rate = &rate
			}
			c.Faults = append(c.Faults, mode)
		}
	}

	return c, nil
}

func parseFlow(name string, v cue.Value) (spec.FlowSpec, error) {
	f := spec.FlowSpec{Name: name}
	var err error
	if f.Description, err = optString(v, "description"); err != nil {
		return f, fmt.Errorf("flow %s: %v", name, err)
	}

	if vars := v.LookupPath(cue.ParsePath("var")); vars.Exists() {
		iter, iterErr := vars.Fields()
		if iterErr != nil {
			return f, fmt.Errorf("flow %s: %v", name, iterErr)
		}
		for iter.Next() {
			val, vErr := parseScalar(iter.Value())
			if vErr != nil {
				return f, fmt.Errorf("flow %s, var %s: %v", name, iter.Label(), vErr)
			}
			f.Vars = append(f.Vars, spec.StateVar{Name: iter.Label(), Default: val})
		}
	}
	return f, nil
}

func parseConnection(v cue.Value) (spec.ConnectionSpec, error) {
	var conn spec.ConnectionSpec
	var err error
	if conn.From, err = optString(v, "from"); err != nil {
		return conn, err
	}
	if conn.To, err = optString(v, "to"); err != nil {
		return conn, err
	}
	if conn.Flow, err = optString(v, "flow"); err != nil {
		return conn, err
	}
	if conn.From == "" || conn.To == "" || conn.Flow == "" {
		return conn, fmt.Errorf("connection needs from, to and flow")
	}
	return conn, nil
}

func parseSimulation(v cue.Value, sim *spec.SimulationSpec) error {
	bools := []struct {
		field string
		dst   *bool
	}{
		{"sample_run", &sim.SampleRun},
		{"fault_analysis", &sim.FaultAnalysis},
		{"parameter_study", &sim.ParameterStudy},
	}
	for _, b := range bools {
		fv := v.LookupPath(cue.ParsePath(b.field))
		if !fv.Exists() {
			continue
		}
		val, err := fv.Bool()
		if err != nil {
			return fmt.Errorf("simulation.%s: %v", b.field, err)
		}
		*b.dst = val
	}

	nums := []struct {
		field string
		dst   *float64
	}{
		{"end_time", &sim.EndTime},
		{"time_step", &sim.TimeStep},
	}
	for _, n := range nums {
		fv := v.LookupPath(cue.ParsePath(n.field))
		if !fv.Exists() {
			continue
		}
		val, err := fv.Float64()
		if err != nil {
			return fmt.Errorf("simulation.%s: %v", n.field, err)
		}
		*n.dst = val
	}
	return nil
}

// parseScalar converts a concrete CUE scalar into a typed Value,
// preserving whether a number was written as an integer.
func parseScalar(v cue.Value) (spec.Value, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Float64()
		if err != nil {
			return spec.Value{}, err
		}
		return spec.Number(n), nil
	case cue.FloatKind, cue.NumberKind:
		n, err := v.Float64()
		if err != nil {
			return spec.Value{}, err
		}
		return spec.Float(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return spec.Value{}, err
		}
		return spec.BoolValue(b), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return spec.Value{}, err
		}
		return spec.StringValue(s), nil
	default:
		return spec.Value{}, fmt.Errorf("unsupported value kind %s (want number, bool or string)", v.Kind())
	}
}
