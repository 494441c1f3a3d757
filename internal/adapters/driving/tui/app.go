package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/components/input"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/components/list"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/components/status"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/keymap"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/messages"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/tui/styles"
	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// App is the root TUI model following the Elm architecture. It renders
// a single view: a question input, the synthesized answer and the
// evidence behind it.
type App struct {
	// ports provides access to core services via driving ports.
	ports Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// input is the question composer.
	input *input.QuestionInput

	// evidence lists the answer's supporting chunks.
	evidence *list.EvidenceList

	// statusbar shows state and keybinding hints.
	statusbar *status.Bar

	// modes are the registered answer mode keys, cycled with Tab.
	modes     []string
	modeIndex int

	// answer is the displayed answer, nil before the first ask.
	answer *domain.Answer

	// question is the last submitted question, shown above the answer.
	question string

	// documents is the indexed document count, -1 until loaded.
	documents int

	err error

	width  int
	height int
	ready  bool

	// asking is true while an ask command is in flight.
	asking bool

	// focusInput is true while composing, false while reading an answer.
	focusInput bool
}

// NewApp creates the TUI application with the given ports.
func NewApp(ports Ports) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	modes := domain.ModeKeys()
	modeIndex := 0
	for i, m := range modes {
		if m == domain.ModeDeveloper {
			modeIndex = i
			break
		}
	}

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		evidence:   list.NewEvidenceList(s),
		statusbar:  status.NewBar(s, km),
		modes:      modes,
		modeIndex:  modeIndex,
		documents:  -1,
		focusInput: true,
	}
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("src-to-kb"),
		a.loadCorpus(),
	)
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.AnswerReceived:
		a.handleAnswerReceived(msg)
		return a, nil

	case messages.CorpusLoaded:
		if msg.Err == nil {
			a.documents = msg.Documents
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil
	}

	// Everything else (cursor blink and friends) goes to the components.
	var cmds []tea.Cmd

	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var listCmd tea.Cmd
	a.evidence, listCmd = a.evidence.Update(msg)
	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Ctrl+C always quits.
	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	// Tab cycles the answer mode; the next ask uses it.
	if keymap.Matches(keyStr, a.keymap.CycleMode) {
		a.modeIndex = (a.modeIndex + 1) % len(a.modes)
		return a, nil
	}

	// Esc clears back to an empty prompt; with nothing to clear it quits.
	if keymap.Matches(keyStr, a.keymap.Clear) {
		if a.answer != nil || a.err != nil || a.input.Value() != "" {
			a.Reset()
			return a, nil
		}
		return a, tea.Quit
	}

	// Enter submits the question while composing.
	if keymap.Matches(keyStr, a.keymap.Ask) && a.focusInput {
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.asking {
			return a, nil
		}
		a.question = question
		a.asking = true
		a.err = nil
		a.statusbar.SetState(status.StateAsking)
		a.focusInput = false
		a.input.Blur()
		return a, a.ask(question, a.Mode())
	}

	// Composing: every other key goes to the input.
	if a.focusInput {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Reading: navigate the evidence list.
	switch {
	case keymap.Matches(keyStr, a.keymap.Up):
		a.evidence.MoveUp()
	case keymap.Matches(keyStr, a.keymap.Down):
		a.evidence.MoveDown()
	}

	return a, nil
}

// ask calls the answer service off the UI goroutine.
func (a *App) ask(question, mode string) tea.Cmd {
	return func() tea.Msg {
		if a.ports.Answer == nil {
			return messages.ErrorOccurred{Err: errors.New("answer service not configured")}
		}

		answer, err := a.ports.Answer.Ask(a.ctx, question, domain.SearchOptions{Mode: mode})
		if err != nil {
			return messages.AnswerReceived{Err: err}
		}
		return messages.AnswerReceived{Answer: answer}
	}
}

// loadCorpus fetches the indexed document count for the header.
func (a *App) loadCorpus() tea.Cmd {
	if a.ports.Documents == nil {
		return nil
	}
	return func() tea.Msg {
		docs, err := a.ports.Documents.List(a.ctx)
		if err != nil {
			return messages.CorpusLoaded{Err: err}
		}
		return messages.CorpusLoaded{Documents: len(docs)}
	}
}

// handleAnswerReceived processes a completed ask.
func (a *App) handleAnswerReceived(msg messages.AnswerReceived) {
	a.asking = false

	if msg.Err != nil {
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		a.focusInput = true
		a.input.Focus()
		return
	}

	answer := msg.Answer
	a.answer = &answer
	a.err = nil
	a.evidence.SetEntries(answer.Evidence)
	a.statusbar.SetState(status.StateAnswered)
	a.statusbar.SetEvidenceCount(len(answer.Evidence))
	a.statusbar.SetMessage(fmt.Sprintf("Confidence: %.0f%%", answer.Confidence*100))

	// Switch to reading mode so the arrows drive the evidence list.
	a.focusInput = false
	a.input.Blur()
}

// View renders the application.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	sections = append(sections, a.renderHeader(), "")
	sections = append(sections, a.input.View(), "")

	if a.err != nil {
		errView := a.styles.Error.Render("Error: " + a.err.Error())
		sections = append(sections, errView, "")
	}

	if a.answer != nil {
		sections = append(sections, a.renderAnswer(), "")
		sections = append(sections, a.evidence.View())
	}

	sections = append(sections, "", a.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title, active mode and corpus size.
func (a *App) renderHeader() string {
	title := a.styles.Title.Render("src-to-kb")
	badge := a.styles.Badge.Render(a.Mode())

	parts := []string{title, "  ", badge}
	if a.documents >= 0 {
		count := fmt.Sprintf("%d documents indexed", a.documents)
		parts = append(parts, "  ", a.styles.Muted.Render(count))
	}

	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// renderAnswer renders the submitted question and the answer panel.
func (a *App) renderAnswer() string {
	question := a.styles.Subtitle.Render("Q: " + a.question)

	width := a.width - 4
	if width < 20 {
		width = 20
	}
	panel := a.styles.AnswerPanel.Width(width).Render(a.answer.Text)

	return lipgloss.JoinVertical(lipgloss.Left, question, panel)
}

// Reset clears the answer and question and refocuses the input.
func (a *App) Reset() {
	a.answer = nil
	a.question = ""
	a.err = nil
	a.asking = false
	a.evidence.SetEntries(nil)
	a.statusbar.Clear()
	a.input.Reset()
	a.focusInput = true
	a.input.Focus()
}

// SetDimensions updates the layout. Exposed for testing.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)

	// Header, input, question and answer panel take the rest.
	listHeight := height - 12
	if listHeight < 6 {
		listHeight = 6
	}
	a.evidence.SetDimensions(width, listHeight)
}

// Question returns the current input text.
func (a *App) Question() string {
	return a.input.Value()
}

// Answer returns the displayed answer, nil when none.
func (a *App) Answer() *domain.Answer {
	return a.answer
}

// Mode returns the active answer mode key.
func (a *App) Mode() string {
	return a.modes[a.modeIndex]
}

// SelectedIndex returns the selected evidence index.
func (a *App) SelectedIndex() int {
	return a.evidence.Selected()
}

// Err returns the last error, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Asking returns whether an ask is in flight.
func (a *App) Asking() bool {
	return a.asking
}
