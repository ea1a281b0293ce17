package dialog

import (
	"fmt"
	"strings"

	"fmdgen/internal/spec"
)

// questionPair carries the state and fault prompts for one component
// family. Prompts suggest concrete vocabulary so answers land in the
// extractor's patterns.
type questionPair struct {
	states string
	faults string
}

var expertQuestions = []struct {
	keywords []string
	q        questionPair
}{
	{[]string{"engine", "motor", "turbine"}, questionPair{
		states: "What operating states does %s have? Typical ones: rpm, temperature, efficiency.",
		faults: "How can %s fail? Typical modes: overheating, bearing_wear, seizure.",
	}},
	{[]string{"pump", "compressor"}, questionPair{
		states: "What states does %s track? Typical ones: pressure, flow_rate, vibration.",
		faults: "How can %s fail? Typical modes: cavitation, seal_leak, blockage.",
	}},
	{[]string{"battery"}, questionPair{
		states: "What states does %s have? Typical ones: charge, voltage, temperature.",
		faults: "How can %s fail? Typical modes: short_circuit, dropout, corrosion.",
	}},
	{[]string{"valve", "actuator"}, questionPair{
		states: "What states does %s have? Typical ones: position, flow_rate.",
		faults: "How can %s fail? Typical modes: stuck, leak.",
	}},
	{[]string{"sensor", "controller"}, questionPair{
		states: "What states does %s have? Typical ones: accuracy, voltage.",
		faults: "How can %s fail? Typical modes: dropout, malfunction.",
	}},
	{[]string{"tank"}, questionPair{
		states: "What states does %s have? Typical ones: capacity, pressure.",
		faults: "How can %s fail? Typical modes: leak, corrosion.",
	}},
	{[]string{"ac", "hvac", "cooler", "radiator", "fan", "heater"}, questionPair{
		states: "What states does %s have? Typical ones: temperature, power.",
		faults: "How can %s fail? Typical modes: leak, blockage, overheating.",
	}},
}

var genericQuestions = questionPair{
	states: "What state variables should %s track? You can give defaults, like temperature: 90.",
	faults: "What fault modes can %s have?",
}

func questionsFor(component string) questionPair {
	lower := strings.ToLower(component)
	for _, e := range expertQuestions {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				return e.q
			}
		}
	}
	return genericQuestions
}

// questionSet selects up to max follow-up questions in fixed priority
// order: system name and component existence first, then states for the
// most recently added component, then faults for it, then architecture
// and flows. Questions whose answers are already known are skipped.
func questionSet(sp *spec.LevelSpec, last string, max int) []string {
	var qs []string

	if sp.Name == "" {
		qs = append(qs, "What system are you modeling? Give it a short name.")
	}
	if len(sp.Components) == 0 {
		qs = append(qs, "What are the main components of the system? List them separated by commas.")
		return clipQuestions(qs, max)
	}

	order := prioritized(sp, last)
	for _, c := range order {
		if len(c.States) == 0 {
			qs = append(qs, fmt.Sprintf(questionsFor(c.Name).states, c.Name))
			break
		}
	}
	for _, c := range order {
		if len(c.Faults) == 0 {
			qs = append(qs, fmt.Sprintf(questionsFor(c.Name).faults, c.Name))
			break
		}
	}

	if len(sp.Components) > 1 && len(sp.Flows) == 0 {
		qs = append(qs, "How do the components connect? For example: connect Pump to Motor via WaterFlow.")
	}
	return clipQuestions(qs, max)
}

// prioritized orders components most-recently-added first, then in
// declaration order.
func prioritized(sp *spec.LevelSpec, last string) []*spec.ComponentSpec {
	var out []*spec.ComponentSpec
	if c := sp.Component(last); c != nil {
		out = append(out, c)
	}
	for i := range sp.Components {
		if sp.Components[i].Name != last {
			out = append(out, &sp.Components[i])
		}
	}
	return out
}

func clipQuestions(qs []string, max int) []string {
	if len(qs) > max {
		return qs[:max]
	}
	return qs
}
