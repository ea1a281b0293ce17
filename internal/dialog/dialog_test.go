package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmdgen/internal/spec"
)

func TestAdvanceGathersToReady(t *testing.T) {
	c := NewController()
	sess := NewSession()

	tr := c.Advance(sess, "I want to model a motor rig system")
	assert.Equal(t, spec.StatusGathering, tr.Status)
	assert.Equal(t, "motor rig", sess.Spec.Name)
	require.Len(t, sess.Spec.Components, 1)
	assert.Equal(t, "Motor", sess.Spec.Components[0].Name)
	assert.NotEmpty(t, tr.Questions)
	assert.LessOrEqual(t, len(tr.Questions), 3)

	tr = c.Advance(sess, "it has rpm: 1800 and can overheat")
	assert.Equal(t, spec.StatusReady, tr.Status)
	assert.Empty(t, tr.Questions)
	assert.Contains(t, tr.Acknowledgment, "complete")

	motor := sess.Spec.Component("Motor")
	require.NotNil(t, motor)
	require.NotNil(t, motor.State("rpm"))
	require.NotNil(t, motor.Fault("overheating"))

	arts, err := c.Generate(sess)
	require.NoError(t, err)
	assert.Len(t, arts, 5)
}

func TestAdvanceAcknowledgesOnlyThisTurn(t *testing.T) {
	c := NewController()
	sess := NewSession()

	c.Advance(sess, "components: Pump, Motor")
	tr := c.Advance(sess, "the pump has pressure: 100")

	assert.Equal(t, []string{"state Pump.pressure = 100"}, tr.Changes)
	assert.NotContains(t, tr.Acknowledgment, "Motor")
}

// First writer wins: a later value of a different kind is reported as a
// conflict and never overwrites the stored default.
func TestMergeTypeConflictKeepsFirstValue(t *testing.T) {
	c := NewController()
	sess := NewSession()

	c.Advance(sess, "the motor has temperature: 25")
	tr := c.Advance(sess, `motor temperature: "hot"`)

	require.Len(t, tr.Conflicts, 1)
	assert.Contains(t, tr.Conflicts[0].Reason, "type conflict")
	assert.Equal(t, "25", tr.Conflicts[0].Kept)

	v := sess.Spec.Component("Motor").State("temperature")
	require.NotNil(t, v)
	assert.Equal(t, spec.KindNumber, v.Default.Kind)
	assert.Equal(t, 25.0, v.Default.Num)
}

func TestMergeValueConflictKeepsFirstValue(t *testing.T) {
	c := NewController()
	sess := NewSession()

	c.Advance(sess, "the motor has rpm: 1800")
	tr := c.Advance(sess, "motor rpm: 2400")

	require.Len(t, tr.Conflicts, 1)
	assert.Equal(t, 1800.0, sess.Spec.Component("Motor").State("rpm").Default.Num)
}

func TestAdvanceIdempotentTurn(t *testing.T) {
	c := NewController()
	sess := NewSession()

	c.Advance(sess, "components: Pump")
	before := sess.Spec.Clone()

	tr := c.Advance(sess, "components: Pump")
	assert.Empty(t, tr.Changes)
	assert.Empty(t, tr.Conflicts)
	assert.Equal(t, before, sess.Spec)
}

func TestConnectionIntroducesEndpoints(t *testing.T) {
	c := NewController()
	sess := NewSession()

	tr := c.Advance(sess, "connect Pump to Motor via WaterFlow")
	assert.NotNil(t, sess.Spec.Component("Pump"))
	assert.NotNil(t, sess.Spec.Component("Motor"))
	assert.NotNil(t, sess.Spec.Flow("WaterFlow"))
	require.Len(t, sess.Spec.Architecture.Connections, 1)
	assert.Len(t, tr.Changes, 4)

	// Re-adding the same triple is a no-op.
	tr = c.Advance(sess, "connect Pump to Motor via WaterFlow")
	assert.Empty(t, tr.Changes)
	assert.Len(t, sess.Spec.Architecture.Connections, 1)
}

func TestReadyRegressesWhenIncompleteContentArrives(t *testing.T) {
	c := NewController()
	sess := NewSession()

	c.Advance(sess, "model a pump station system")
	c.Advance(sess, "the pump has pressure: 100")
	require.Equal(t, spec.StatusReady, sess.Spec.Status)

	tr := c.Advance(sess, "components: Tank")
	assert.Equal(t, spec.StatusGathering, tr.Status)
	assert.NotEmpty(t, tr.Questions)
}

func TestGenerateRejectedWhileGathering(t *testing.T) {
	c := NewController()
	sess := NewSession()
	c.Advance(sess, "components: Pump")

	arts, err := c.Generate(sess)
	assert.Nil(t, arts)

	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Contains(t, incomplete.Missing, "a system name")
	assert.Contains(t, incomplete.Missing, "states or faults for Pump")
}

func TestGenerateIntentWhileGathering(t *testing.T) {
	c := NewController()
	sess := NewSession()

	tr := c.Advance(sess, "generate")
	assert.True(t, tr.GenerateRequested)
	assert.Equal(t, spec.StatusGathering, tr.Status)
	assert.Contains(t, tr.Acknowledgment, "Not ready")
}

func TestUnrecognizedUtterance(t *testing.T) {
	c := NewController()
	sess := NewSession()

	tr := c.Advance(sess, "the weather is nice today")
	assert.Empty(t, tr.Changes)
	assert.Contains(t, tr.Acknowledgment, "Nothing new")
}

// Completeness is a property of the accumulated content, not of the
// order turns arrived in.
func TestCompletenessOrderIndependent(t *testing.T) {
	turns := []string{
		"model a motor rig system",
		"components: Motor",
		"the motor has rpm: 1800",
	}

	c := NewController()
	forward := NewSession()
	for _, u := range turns {
		c.Advance(forward, u)
	}

	backward := NewSession()
	for i := len(turns) - 1; i >= 0; i-- {
		c.Advance(backward, turns[i])
	}

	assert.Equal(t, spec.StatusReady, forward.Spec.Status)
	assert.Equal(t, spec.StatusReady, backward.Spec.Status)
}

func TestNewSessionFromPartial(t *testing.T) {
	partial := spec.New()
	partial.Name = "motor rig"
	partial.Components = []spec.ComponentSpec{{
		Name:   "Motor",
		States: []spec.StateVar{{Name: "rpm", Default: spec.Number(1800)}},
	}}

	sess := NewSessionFromPartial(partial)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, spec.StatusReady, sess.Spec.Status)
	assert.Equal(t, "Motor", sess.LastComponent())
	assert.Equal(t, []string{"Motor"}, sess.Spec.Architecture.Components)

	// The caller's copy is untouched.
	assert.Empty(t, partial.Architecture.Components)
}

func TestQuestionPriorityOrder(t *testing.T) {
	sp := spec.New()
	qs := questionSet(sp, "", 3)
	require.Len(t, qs, 2)
	assert.Contains(t, qs[0], "What system")
	assert.Contains(t, qs[1], "main components")

	sp.Name = "rig"
	sp.Components = []spec.ComponentSpec{
		{Name: "Pump", States: []spec.StateVar{{Name: "pressure", Default: spec.Number(100)}}},
		{Name: "Motor"},
	}
	qs = questionSet(sp, "Motor", 3)
	require.NotEmpty(t, qs)
	// Most recent component first, expert vocabulary for motors.
	assert.Contains(t, qs[0], "Motor")
	assert.Contains(t, qs[0], "rpm")
}

func TestQuestionCap(t *testing.T) {
	sp := spec.New()
	sp.Components = []spec.ComponentSpec{{Name: "Pump"}, {Name: "Motor"}}
	qs := questionSet(sp, "Motor", 3)
	assert.LessOrEqual(t, len(qs), 3)
}

func TestSummary(t *testing.T) {
	sess := NewSession()
	assert.Contains(t, Summary(sess), "(unnamed)")

	sess.Spec.Name = "motor rig"
	sess.Spec.Components = []spec.ComponentSpec{{Name: "Motor"}}
	got := Summary(sess)
	assert.Contains(t, got, "motor rig")
	assert.Contains(t, got, "1 components")
}
