package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/keymap"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.EvidenceCount())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.Init()

	assert.Nil(t, cmd)
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	updated, cmd := bar.Update(msg)

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetState(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateAsking)

	assert.Equal(t, StateAsking, bar.State())
}

func TestStatusBar_SetMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("test message")

	assert.Equal(t, "test message", bar.Message())
}

func TestStatusBar_SetEvidenceCount(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetEvidenceCount(42)

	assert.Equal(t, 42, bar.EvidenceCount())
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, 80, bar.Width()) // Default
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetEvidenceCount(10)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.EvidenceCount())
}

func TestStatusBar_View_Ready(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.NotEmpty(t, view)
	assert.Contains(t, view, "Ready")
}

func TestStatusBar_View_Asking(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAsking)

	view := bar.View()

	assert.Contains(t, view, "Thinking")
}

func TestStatusBar_View_Error(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	view := bar.View()

	assert.Contains(t, view, "Error")
}

func TestStatusBar_View_ErrorWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("delegate unreachable")

	view := bar.View()

	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "delegate unreachable")
}

func TestStatusBar_View_Answered(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAnswered)
	bar.SetEvidenceCount(5)

	view := bar.View()

	assert.Contains(t, view, "5 sources")
}

func TestStatusBar_View_AnsweredWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAnswered)
	bar.SetMessage("Confidence: 84%")

	view := bar.View()

	assert.Contains(t, view, "Confidence: 84%")
}

func TestStatusBar_View_AnsweredNoEvidence(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAnswered)

	view := bar.View()

	assert.Contains(t, view, "No sources")
}

func TestStatusBar_View_ShowsKeybindings(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	// Should show quit keybinding
	assert.Contains(t, view, "quit")
}

func TestStatusBar_View_AnsweredShowsClearHint(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateAnswered)
	bar.SetEvidenceCount(2)

	view := bar.View()

	assert.Contains(t, view, "clear")
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("ready"), StateReady)
	assert.Equal(t, State("asking"), StateAsking)
	assert.Equal(t, State("answered"), StateAnswered)
	assert.Equal(t, State("error"), StateError)
}
