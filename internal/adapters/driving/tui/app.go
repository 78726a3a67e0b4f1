package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/courseqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/courseqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/courseqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/courseqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/courseqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// exchange is one question and its answer in the transcript.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the chat application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	prompt    *input.Prompt
	statusbar *status.Bar
	viewport  viewport.Model

	// exchanges is the visible transcript, oldest first.
	exchanges []exchange

	// sessionID threads conversation history through follow-up
	// questions. Empty until the first answer arrives.
	sessionID string

	// thinking is true while a question is in flight.
	thinking bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	vp := viewport.New(80, 20)

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		prompt:    input.NewPrompt(s),
		statusbar: status.NewBar(s, km),
		viewport:  vp,
		width:     80,
		height:    24,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.prompt.Init(), a.loadIndexStatus())
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.AnswerReceived:
		a.handleAnswer(msg)
		return a, nil

	case messages.IndexStatusLoaded:
		if msg.Err == nil {
			a.statusbar.SetCourseCount(msg.Courses)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	if keymap.Matches(keyStr, a.keymap.NewSession) {
		a.exchanges = nil
		a.sessionID = ""
		a.statusbar.Clear()
		a.refreshTranscript()
		return a, func() tea.Msg { return messages.SessionCleared{} }
	}

	if keymap.Matches(keyStr, a.keymap.ScrollUp) {
		a.viewport.ScrollUp(1)
		return a, nil
	}
	if keymap.Matches(keyStr, a.keymap.ScrollDown) {
		a.viewport.ScrollDown(1)
		return a, nil
	}

	if keymap.Matches(keyStr, a.keymap.Send) {
		query := strings.TrimSpace(a.prompt.Value())
		if query == "" || a.thinking {
			return a, nil
		}
		a.exchanges = append(a.exchanges, exchange{question: query})
		a.thinking = true
		a.prompt.Reset()
		a.statusbar.SetState(status.StateThinking)
		a.refreshTranscript()
		return a, a.performAsk(query)
	}

	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return a, cmd
}

// handleAnswer records the assistant's reply for the pending question.
func (a *App) handleAnswer(msg messages.AnswerReceived) {
	a.thinking = false
	if len(a.exchanges) == 0 {
		return
	}

	last := &a.exchanges[len(a.exchanges)-1]
	if msg.Err != nil {
		last.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
	} else {
		last.answer = msg.Answer
		a.sessionID = msg.Answer.SessionID
		a.statusbar.Clear()
		if a.statusbar.CourseCount() == 0 {
			a.statusbar.SetState(status.StateReady)
		}
	}
	a.refreshTranscript()
}

// performAsk sends the question to the assistant asynchronously.
func (a *App) performAsk(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Assistant.ProcessQuery(a.ctx, query, a.sessionID)
		return messages.AnswerReceived{Answer: answer, Err: err}
	}
}

// loadIndexStatus fetches the indexed course count for the status bar.
func (a *App) loadIndexStatus() tea.Cmd {
	if a.ports.Search == nil {
		return nil
	}
	return func() tea.Msg {
		count, err := a.ports.Search.CourseCount(a.ctx)
		return messages.IndexStatusLoaded{Courses: count, Err: err}
	}
}

// refreshTranscript re-renders the conversation into the viewport.
func (a *App) refreshTranscript() {
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

// renderTranscript formats the conversation for display.
func (a *App) renderTranscript() string {
	if len(a.exchanges) == 0 {
		return a.styles.Muted.Render("Ask a question about your indexed courses.")
	}

	wrap := a.styles.Normal.Width(a.viewport.Width)

	var b strings.Builder
	for i, ex := range a.exchanges {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(a.styles.UserLabel.Render("You: "))
		b.WriteString(ex.question)
		b.WriteString("\n")

		b.WriteString(a.styles.AssistantLabel.Render("Assistant: "))
		switch {
		case ex.err != nil:
			b.WriteString(a.styles.Error.Render(ex.err.Error()))
		case ex.answer == nil:
			b.WriteString(a.styles.Muted.Render("Thinking..."))
		default:
			b.WriteString(wrap.Render(ex.answer.Text))
			for _, src := range ex.answer.Sources {
				b.WriteString("\n")
				label := src.Text
				if src.URL != "" {
					label += " (" + src.URL + ")"
				}
				b.WriteString(a.styles.Source.Render("  " + label))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// setDimensions adjusts the layout to the terminal size.
func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height

	a.prompt.SetWidth(width)
	a.statusbar.SetWidth(width)

	// Title, prompt and status bar each take a row plus spacing.
	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	a.viewport.Width = width
	a.viewport.Height = transcriptHeight
	a.refreshTranscript()
}

// View renders the application.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("CourseQA"))
	b.WriteString("\n\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	b.WriteString(a.prompt.View())
	b.WriteString("\n")
	b.WriteString(a.statusbar.View())

	return b.String()
}

// SessionID returns the current conversation session, empty before the
// first answer.
func (a *App) SessionID() string {
	return a.sessionID
}

// Thinking reports whether a question is in flight.
func (a *App) Thinking() bool {
	return a.thinking
}

// Ready reports whether the first window size has been received.
func (a *App) Ready() bool {
	return a.ready
}

// ExchangeCount returns the number of transcript entries.
func (a *App) ExchangeCount() int {
	return len(a.exchanges)
}
