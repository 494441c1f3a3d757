// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/styles"
	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// EvidenceList displays answer evidence in a navigable list.
type EvidenceList struct {
	entries  []domain.Evidence
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEvidenceList creates a new evidence list component.
func NewEvidenceList(s *styles.Styles) *EvidenceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &EvidenceList{
		entries:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the evidence list.
func (e *EvidenceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (e *EvidenceList) Update(msg tea.Msg) (*EvidenceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			e.MoveUp()
		case tea.KeyDown:
			e.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			e.MoveUp()
		case "j":
			e.MoveDown()
		}
	}
	return e, nil
}

// View renders the evidence list.
func (e *EvidenceList) View() string {
	if len(e.entries) == 0 {
		return e.styles.Muted.Render("No evidence")
	}

	lines := make([]string, 0, len(e.entries)*2+2)

	// Header
	header := e.styles.Subtitle.Render(fmt.Sprintf("Evidence (%d)", len(e.entries)))
	lines = append(lines, header, "")

	// Each entry takes two lines, a location line and a context line.
	visibleCount := (e.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if e.selected >= visibleCount {
		start = e.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(e.entries) {
		end = len(e.entries)
	}

	for i := start; i < end; i++ {
		line := e.renderEntry(i, &e.entries[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderEntry formats a single evidence entry with its context excerpt.
func (e *EvidenceList) renderEntry(index int, entry *domain.Evidence) string {
	indicator := "  "
	if index == e.selected {
		indicator = "> "
	}

	file := entry.File
	if file == "" {
		file = "(unknown file)"
	}

	maxFileLen := e.width - 20
	if maxFileLen < 10 {
		maxFileLen = 10
	}
	if len(file) > maxFileLen {
		file = "..." + file[len(file)-maxFileLen+3:]
	}

	location := fmt.Sprintf("lines %s", entry.Lines.String())

	var locationLine string
	if index == e.selected {
		locationLine = e.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxFileLen, file, location))
	} else {
		locationLine = e.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxFileLen, file)) +
			e.styles.Muted.Render(location)
	}

	// Context excerpt on its own line, first line only.
	context := entry.Context
	if i := strings.IndexByte(context, '\n'); i >= 0 {
		context = context[:i]
	}

	maxContextLen := e.width - 6
	if maxContextLen < 20 {
		maxContextLen = 20
	}
	if len(context) > maxContextLen {
		context = context[:maxContextLen-3] + "..."
	}

	contextLine := e.styles.Muted.Render("    " + context)

	return locationLine + "\n" + contextLine
}

// SetEntries updates the evidence list.
func (e *EvidenceList) SetEntries(entries []domain.Evidence) {
	e.entries = entries
	e.selected = 0
}

// Entries returns the current entries.
func (e *EvidenceList) Entries() []domain.Evidence {
	return e.entries
}

// Selected returns the index of the selected entry.
func (e *EvidenceList) Selected() int {
	return e.selected
}

// SetSelected sets the selected index.
func (e *EvidenceList) SetSelected(index int) {
	if index >= 0 && index < len(e.entries) {
		e.selected = index
	}
}

// SelectedEvidence returns the currently selected entry, or nil if none.
func (e *EvidenceList) SelectedEvidence() *domain.Evidence {
	if len(e.entries) == 0 || e.selected < 0 || e.selected >= len(e.entries) {
		return nil
	}
	return &e.entries[e.selected]
}

// MoveUp moves selection up.
func (e *EvidenceList) MoveUp() {
	if e.selected > 0 {
		e.selected--
	}
}

// MoveDown moves selection down.
func (e *EvidenceList) MoveDown() {
	if e.selected < len(e.entries)-1 {
		e.selected++
	}
}

// SetDimensions sets the component dimensions.
func (e *EvidenceList) SetDimensions(width, height int) {
	e.width = width
	e.height = height
}

// Width returns the current width.
func (e *EvidenceList) Width() int {
	return e.width
}

// Height returns the current height.
func (e *EvidenceList) Height() int {
	return e.height
}

// Count returns the number of entries.
func (e *EvidenceList) Count() int {
	return len(e.entries)
}

// IsEmpty returns whether the list is empty.
func (e *EvidenceList) IsEmpty() bool {
	return len(e.entries) == 0
}
