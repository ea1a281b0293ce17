package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmdgen/internal/spec"
)

func names(ps []Proposal, kind Kind) []string {
	var out []string
	for _, p := range ps {
		if p.Kind == kind {
			out = append(out, p.Name)
		}
	}
	return out
}

func find(ps []Proposal, kind Kind, name string) *Proposal {
	for i := range ps {
		if ps[i].Kind == kind && ps[i].Name == name {
			return &ps[i]
		}
	}
	return nil
}

func TestExtractGenerateIntent(t *testing.T) {
	res := Extract("generate", spec.New())
	assert.Equal(t, IntentGenerate, res.Intent)
	assert.Empty(t, res.Proposals)

	res = Extract("please build the files now", spec.New())
	assert.Equal(t, IntentGenerate, res.Intent)
}

func TestExtractGeneratorIsNotGenerate(t *testing.T) {
	res := Extract("I want to model a generator system", spec.New())
	assert.Equal(t, IntentDescribe, res.Intent)
	assert.Equal(t, []string{"Generator"}, names(res.Proposals, KindComponent))
}

// The central disambiguation rule: multiple items in one clause become
// independent proposals, never one concatenated name.
func TestExtractMultiItemSplitting(t *testing.T) {
	res := Extract("components: AcSystem, Engine", spec.New())
	assert.Equal(t, []string{"AcSystem", "Engine"}, names(res.Proposals, KindComponent))

	split := false
	for _, n := range res.Notes {
		if n.Code == NoteSplit {
			split = true
		}
	}
	assert.True(t, split, "expected a split note")
}

func TestExtractSplitOnAnd(t *testing.T) {
	res := Extract("components: Pump and Motor and Tank", spec.New())
	assert.Equal(t, []string{"Pump", "Motor", "Tank"}, names(res.Proposals, KindComponent))
}

func TestExtractStatePairs(t *testing.T) {
	res := Extract("rpm: 1800, temperature: 25, efficiency: 0.95", spec.New())

	rpm := find(res.Proposals, KindState, "rpm")
	require.NotNil(t, rpm)
	assert.Equal(t, spec.KindNumber, rpm.Value.Kind)
	assert.Equal(t, 1800.0, rpm.Value.Num)
	assert.True(t, rpm.Value.Int)

	eff := find(res.Proposals, KindState, "efficiency")
	require.NotNil(t, eff)
	assert.Equal(t, 0.95, eff.Value.Num)
	assert.False(t, eff.Value.Int)
}

func TestExtractStringStatePair(t *testing.T) {
	res := Extract(`temperature: "hot"`, spec.New())
	p := find(res.Proposals, KindState, "temperature")
	require.NotNil(t, p)
	assert.Equal(t, spec.KindString, p.Value.Kind)
	assert.Equal(t, "hot", p.Value.Str)
}

func TestExtractBoolStatePair(t *testing.T) {
	res := Extract("enabled: true", spec.New())
	p := find(res.Proposals, KindState, "enabled")
	require.NotNil(t, p)
	assert.Equal(t, spec.KindBool, p.Value.Kind)
	assert.True(t, p.Value.Bool)
}

func TestExtractFaultVerbs(t *testing.T) {
	res := Extract("The engine can overheat and leak", spec.New())
	faults := names(res.Proposals, KindFault)
	assert.Contains(t, faults, "overheating")
	assert.Contains(t, faults, "leak")
	assert.Equal(t, []string{"Engine"}, names(res.Proposals, KindComponent))
}

func TestExtractCanFailDueTo(t *testing.T) {
	res := Extract("the pump can fail due to cavitation, seal leak and motor failure", spec.New())
	faults := names(res.Proposals, KindFault)
	assert.Contains(t, faults, "cavitation")
	assert.Contains(t, faults, "seal_leak")
	assert.Contains(t, faults, "motor_failure")
	// "fail" itself must not leak through as a fault.
	assert.NotContains(t, faults, "mechanical_failure")
}

func TestExtractFaultsCue(t *testing.T) {
	res := Extract("faults: bearing_wear, overheating", spec.New())
	assert.ElementsMatch(t, []string{"bearing_wear", "overheating"}, names(res.Proposals, KindFault))
}

func TestExtractStatesCueWithValues(t *testing.T) {
	res := Extract("Motor has states rpm: 1800 and temperature: 25", spec.New())
	require.NotNil(t, find(res.Proposals, KindState, "rpm"))
	require.NotNil(t, find(res.Proposals, KindState, "temperature"))
}

func TestExtractBareStateNounsGetDefaults(t *testing.T) {
	res := Extract("the pump has pressure and vibration", spec.New())
	p := find(res.Proposals, KindState, "pressure")
	require.NotNil(t, p)
	assert.Equal(t, 100.0, p.Value.Num)
	v := find(res.Proposals, KindState, "vibration")
	require.NotNil(t, v)
	assert.Equal(t, 0.1, v.Value.Num)
}

func TestExtractOwnerResolutionSingleNewComponent(t *testing.T) {
	res := Extract("the battery has voltage: 12.6 and can leak", spec.New())
	require.Equal(t, []string{"Battery"}, names(res.Proposals, KindComponent))
	v := find(res.Proposals, KindState, "voltage")
	require.NotNil(t, v)
	assert.Equal(t, "Battery", v.Component)
	f := find(res.Proposals, KindFault, "leak")
	require.NotNil(t, f)
	assert.Equal(t, "Battery", f.Component)
}

func TestExtractOwnerResolutionKnownComponent(t *testing.T) {
	cur := spec.New()
	cur.Components = []spec.ComponentSpec{{Name: "Motor", States: []spec.StateVar{{Name: "rpm", Default: spec.Number(1800)}}}}

	res := Extract("Motor can overheat", cur)
	f := find(res.Proposals, KindFault, "overheating")
	require.NotNil(t, f)
	assert.Equal(t, "Motor", f.Component)
	// Mentioning a known component is not a new-component proposal.
	assert.Empty(t, names(res.Proposals, KindComponent))
}

func TestExtractOwnerAmbiguousStaysOpen(t *testing.T) {
	res := Extract("components: Pump, Motor. pressure: 100", spec.New())
	p := find(res.Proposals, KindState, "pressure")
	require.NotNil(t, p)
	assert.Equal(t, "", p.Component)
}

func TestExtractComponentAliases(t *testing.T) {
	res := Extract("model the AC for a G37", spec.New())
	assert.Contains(t, names(res.Proposals, KindComponent), "AcSystem")
}

func TestExtractSystemName(t *testing.T) {
	res := Extract("I'd like to model a pump station system", spec.New())
	p := find(res.Proposals, KindSystemName, "pump station")
	require.NotNil(t, p)
}

func TestExtractSystemNameSkippedWhenKnown(t *testing.T) {
	cur := spec.New()
	cur.Name = "existing"
	res := Extract("model a pump station system", cur)
	assert.Empty(t, names(res.Proposals, KindSystemName))
}

func TestExtractConnections(t *testing.T) {
	res := Extract("connect Pump to Motor via WaterFlow", spec.New())
	p := find(res.Proposals, KindConnection, "WaterFlow")
	require.NotNil(t, p)
	require.NotNil(t, p.Connection)
	assert.Equal(t, spec.ConnectionSpec{From: "Pump", To: "Motor", Flow: "WaterFlow"}, *p.Connection)
}

func TestExtractFlowsCue(t *testing.T) {
	res := Extract("flows: FuelFlow, CoolantFlow", spec.New())
	assert.Equal(t, []string{"FuelFlow", "CoolantFlow"}, names(res.Proposals, KindFlow))
}

func TestExtractDuplicateComponentNoted(t *testing.T) {
	cur := spec.New()
	cur.Components = []spec.ComponentSpec{{Name: "Pump"}}
	res := Extract("components: Pump", cur)
	assert.Empty(t, names(res.Proposals, KindComponent))
	require.NotEmpty(t, res.Notes)
	assert.Equal(t, NoteDuplicate, res.Notes[0].Code)
}

func TestExtractUnrecognizedNoted(t *testing.T) {
	res := Extract("the weather is nice today", spec.New())
	assert.Empty(t, res.Proposals)
	require.NotEmpty(t, res.Notes)
	assert.Equal(t, NoteUnrecognized, res.Notes[len(res.Notes)-1].Code)
}

// Never fabricate an entity from noise: sanitization rejects are dropped
// with a note, not renamed.
func TestExtractSanitizeRejection(t *testing.T) {
	res := Extract("components: $$$, Pump", spec.New())
	assert.Equal(t, []string{"Pump"}, names(res.Proposals, KindComponent))
	found := false
	for _, n := range res.Notes {
		if n.Code == NoteSanitizeRejected {
			found = true
		}
	}
	assert.True(t, found)
}

// Extraction is a pure function: identical input gives identical output.
func TestExtractDeterministic(t *testing.T) {
	utterance := "the engine has rpm, temperature and pressure and can overheat or leak"
	first := Extract(utterance, spec.New())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Extract(utterance, spec.New()))
	}
}

func TestExtractEmptyUtterance(t *testing.T) {
	res := Extract("   ", spec.New())
	assert.Empty(t, res.Proposals)
	assert.Empty(t, res.Notes)
}

func TestSplitItems(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitItems("a, b and c"))
	assert.Equal(t, []string{"one"}, SplitItems("  one  "))
	assert.Nil(t, SplitItems("  "))
	assert.Equal(t, []string{"x", "y"}, SplitItems("x; y"))
}

func TestTrailingClause(t *testing.T) {
	assert.Equal(t, "rpm: 1800, efficiency: 0.95", trailingClause("rpm: 1800, efficiency: 0.95. And more"))
	assert.Equal(t, "a, b", trailingClause("a, b! rest"))
	assert.Equal(t, "no punctuation", trailingClause("no punctuation"))
}
