package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmdgen/internal/store"
)

func TestWizardFullConversation(t *testing.T) {
	outDir := t.TempDir()
	script := strings.Join([]string{
		"I want to model a motor rig system",
		"it has rpm: 1800 and can overheat",
		"generate",
	}, "\n") + "\n"

	out, err := execute(t, strings.NewReader(script), "wizard", "--out", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Generated 5 files")

	pkg := filepath.Join(outDir, "motor_rig")
	_, statErr := os.Stat(filepath.Join(pkg, "level_motor_rig.py"))
	assert.NoError(t, statErr)
}

func TestWizardGenerateBeforeReady(t *testing.T) {
	script := "generate\nquit\n"

	out, err := execute(t, strings.NewReader(script), "wizard", "--out", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Not ready")
	assert.Contains(t, out, "Session ended.")
}

func TestWizardStatusAndHelp(t *testing.T) {
	script := strings.Join([]string{
		"components: Pump",
		"status",
		"help",
		"quit",
	}, "\n") + "\n"

	out, err := execute(t, strings.NewReader(script), "wizard", "--out", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "1 components")
	assert.Contains(t, out, "Commands:")
}

func TestWizardEOFEndsSession(t *testing.T) {
	_, err := execute(t, strings.NewReader(""), "wizard", "--out", t.TempDir())
	assert.NoError(t, err)
}

func TestWizardPrefillFromSpec(t *testing.T) {
	outDir := t.TempDir()
	script := "generate\n"

	out, err := execute(t, strings.NewReader(script), "wizard",
		"--out", outDir,
		"--spec", filepath.Join("testdata", "motor.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 5 files")
}

func TestWizardPersistsSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	script := strings.Join([]string{
		"components: Pump",
		"the pump has pressure: 100",
		"quit",
	}, "\n") + "\n"

	_, err := execute(t, strings.NewReader(script), "wizard",
		"--out", t.TempDir(),
		"--session-db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	sessions, err := st.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].Turns)

	sp, seq, err := st.LatestSpec(context.Background(), sessions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
	pump := sp.Component("Pump")
	require.NotNil(t, pump)
	assert.NotNil(t, pump.State("pressure"))
}

func TestWizardResumeRequiresDB(t *testing.T) {
	_, err := execute(t, strings.NewReader(""), "wizard", "--resume", "some-id")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWizardResumeSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	outDir := t.TempDir()

	first := strings.Join([]string{
		"model a motor rig system",
		"quit",
	}, "\n") + "\n"
	_, err := execute(t, strings.NewReader(first), "wizard",
		"--out", outDir, "--session-db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	sessions, err := st.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	id := sessions[0].ID
	require.NoError(t, st.Close())

	second := strings.Join([]string{
		"it has rpm: 1800 and can overheat",
		"generate",
	}, "\n") + "\n"
	out, err := execute(t, strings.NewReader(second), "wizard",
		"--out", outDir, "--session-db", dbPath, "--resume", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 5 files")
}
