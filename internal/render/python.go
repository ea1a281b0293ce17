package render

import (
	"fmt"
	"strings"
)

const header = "# -*- coding: utf-8 -*-\n"

// componentFile renders one fmdtools Function block with its optional
// State and Mode containers.
func componentFile(c componentView) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "\"\"\"Function block for %s.\"\"\"\n", c.Class)
	b.WriteString("from fmdtools.define.block.function import Function\n")
	if len(c.Faults) > 0 {
		b.WriteString("from fmdtools.define.container.mode import Mode\n")
	}
	if len(c.States) > 0 {
		b.WriteString("from fmdtools.define.container.state import State\n")
	}

	if len(c.States) > 0 {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "class %sState(State):\n", c.Class)
		fmt.Fprintf(&b, "    \"\"\"State variables for %s.\"\"\"\n\n", c.Class)
		for _, s := range c.States {
			fmt.Fprintf(&b, "    %s: %s = %s\n", s.Name, s.PyType, s.Literal)
		}
	}

	if len(c.Faults) > 0 {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "class %sMode(Mode):\n", c.Class)
		fmt.Fprintf(&b, "    \"\"\"Fault modes for %s.\"\"\"\n\n", c.Class)
		b.WriteString("    faultparams = {\n")
		for _, f := range c.Faults {
			fmt.Fprintf(&b, "        \"%s\": %s,\n", f.Name, f.Args)
		}
		b.WriteString("    }\n")
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "class %s(Function):\n", c.Class)
	fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n\n", c.Doc)
	b.WriteString("    __slots__ = ()\n")
	if len(c.States) > 0 {
		fmt.Fprintf(&b, "    container_s = %sState\n", c.Class)
	}
	if len(c.Faults) > 0 {
		fmt.Fprintf(&b, "    container_m = %sMode\n", c.Class)
	}
	b.WriteString("\n    def static_behavior(self, time):\n")
	if len(c.Faults) > 0 {
		var names []string
		for _, f := range c.Faults {
			names = append(names, f.Name)
		}
		fmt.Fprintf(&b, "        # TODO: implement fault behavior for: %s.\n", strings.Join(names, ", "))
	} else {
		b.WriteString("        # TODO: implement nominal behavior.\n")
	}
	b.WriteString("        pass\n")
	return b.String()
}

// flowsFile renders every flow in declaration order. The file is always
// produced so the package shape is stable whether or not flows exist.
func flowsFile(v *view) string {
	var b strings.Builder
	b.WriteString(header)
	if len(v.Flows) == 0 {
		fmt.Fprintf(&b, "\"\"\"Flow definitions for %s. No flows declared.\"\"\"\n", v.LevelClass)
		return b.String()
	}

	fmt.Fprintf(&b, "\"\"\"Flow definitions for %s.\"\"\"\n", v.LevelClass)
	if flowsHaveVars(v) {
		b.WriteString("from fmdtools.define.container.state import State\n")
	}
	b.WriteString("from fmdtools.define.flow.base import Flow\n")

	for _, f := range v.Flows {
		if len(f.Vars) > 0 {
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "class %sState(State):\n", f.Class)
			fmt.Fprintf(&b, "    \"\"\"Variables carried on %s.\"\"\"\n\n", f.Class)
			for _, vr := range f.Vars {
				fmt.Fprintf(&b, "    %s: %s = %s\n", vr.Name, vr.PyType, vr.Literal)
			}
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "class %s(Flow):\n", f.Class)
		fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n\n", f.Doc)
		b.WriteString("    __slots__ = ()\n")
		if len(f.Vars) > 0 {
			fmt.Fprintf(&b, "    container_s = %sState\n", f.Class)
		}
	}
	return b.String()
}

func flowsHaveVars(v *view) bool {
	for _, f := range v.Flows {
		if len(f.Vars) > 0 {
			return true
		}
	}
	return false
}

// architectureFile wires every component to its flows. Identifiers here
// must match the ones emitted in the per-component and flows files.
func architectureFile(v *view) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "\"\"\"Function architecture for %s.\"\"\"\n", v.LevelClass)
	b.WriteString("from fmdtools.define.architecture.function import FunctionArchitecture\n\n")
	for _, c := range v.Components {
		fmt.Fprintf(&b, "from .%s import %s\n", c.SafeName, c.Class)
	}
	if len(v.Flows) > 0 {
		var classes []string
		for _, f := range v.Flows {
			classes = append(classes, f.Class)
		}
		fmt.Fprintf(&b, "from .flows import %s\n", strings.Join(classes, ", "))
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "class %s(FunctionArchitecture):\n", v.ArchClass)
	fmt.Fprintf(&b, "    \"\"\"Wires the functions of %s together through its flows.\"\"\"\n\n", v.LevelClass)
	b.WriteString("    def init_architecture(self, **kwargs):\n")
	if len(v.Flows) == 0 && len(v.Components) == 0 {
		b.WriteString("        pass\n")
		return b.String()
	}
	for _, f := range v.Flows {
		fmt.Fprintf(&b, "        self.add_flow(\"%s\", fclass=%s)\n", f.SafeName, f.Class)
	}
	for _, c := range v.Components {
		args := ""
		for _, fa := range c.FlowArgs {
			args += fmt.Sprintf(", \"%s\"", fa)
		}
		fmt.Fprintf(&b, "        self.add_fxn(\"%s\", %s%s)\n", c.SafeName, c.Class, args)
	}
	return b.String()
}

// levelFile renders the top-level model with its classification hook and
// the simulation entry points the spec asked for.
func levelFile(v *view) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "\"\"\"Top-level model for %s.\"\"\"\n", v.LevelClass)
	if v.Sim.SampleRun || v.Sim.FaultAnalysis {
		b.WriteString("from fmdtools.sim import propagate\n\n")
	}
	fmt.Fprintf(&b, "from .architecture import %s\n", v.ArchClass)

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "class %s(%s):\n", v.LevelClass, v.ArchClass)
	doc := v.LevelDoc
	if doc == "" {
		doc = v.LevelClass + " model."
	}
	fmt.Fprintf(&b, "    \"\"\"%s\"\"\"\n\n", doc)
	b.WriteString("    def find_classification(self, scen, mdlhists):\n")
	b.WriteString("        # TODO: replace with domain-specific classification.\n")
	b.WriteString("        return {\"rate\": scen.rate, \"cost\": 0, \"expected_cost\": 0}\n")

	b.WriteString("\n\nif __name__ == \"__main__\":\n")
	fmt.Fprintf(&b, "    mdl = %s()\n", v.LevelClass)
	if v.Sim.SampleRun {
		b.WriteString("\n    result, mdlhist = propagate.nominal(mdl)\n")
		b.WriteString("    print(result)\n")
	}
	if v.Sim.FaultAnalysis {
		b.WriteString("\n    results, mdlhists = propagate.single_faults(mdl)\n")
		b.WriteString("    print(results)\n")
	}
	if v.Sim.ParameterStudy {
		b.WriteString("\n    # TODO: define a ParameterSample once study ranges are known.\n")
	}
	return b.String()
}

// initFile re-exports every generated class so the package imports
// cleanly as a unit.
func initFile(v *view) string {
	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "\"\"\"Generated fmdtools package %s.\"\"\"\n", v.SpecName)

	var all []string
	for _, c := range v.Components {
		fmt.Fprintf(&b, "from .%s import %s\n", c.SafeName, c.Class)
		all = append(all, c.Class)
	}
	for _, f := range v.Flows {
		fmt.Fprintf(&b, "from .flows import %s\n", f.Class)
		all = append(all, f.Class)
	}
	fmt.Fprintf(&b, "from .architecture import %s\n", v.ArchClass)
	all = append(all, v.ArchClass)
	fmt.Fprintf(&b, "from .level_%s import %s\n", v.SpecName, v.LevelClass)
	all = append(all, v.LevelClass)

	b.WriteString("\n__all__ = [\n")
	for _, name := range all {
		fmt.Fprintf(&b, "    \"%s\",\n", name)
	}
	b.WriteString("]\n")
	return b.String()
}
