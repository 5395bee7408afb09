// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/supportdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driving"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// Rows taken by everything except the transcript: title, input box, status bar.
const chromeHeight = 6

// exchange is one question and its answer.
type exchange struct {
	seq      int
	question string
	answer   domain.RoutedAnswer
	err      error
	pending  bool
}

// View is the chat view: a scrolling transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar
	viewport  viewport.Model
	help      help.Model

	router driving.Router
	ctx    context.Context

	transcript []exchange
	seq        int // id of the most recent question
	busy       bool
	showHelp   bool

	markdownStyle string
	renderer      *glamour.TermRenderer
	rendererWidth int

	width  int
	height int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, router driving.Router) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		statusbar:     status.NewBar(s, km),
		viewport:      viewport.New(80, 24-chromeHeight),
		help:          help.New(),
		router:        router,
		ctx:           context.Background(),
		markdownStyle: glamourstyles.DarkStyle,
		width:         80,
		height:        24,
	}
	v.refresh()
	return v
}

// WithContext sets the context passed to the router.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithMarkdownStyle selects a glamour standard style ("dark", "light", "notty").
func (v *View) WithMarkdownStyle(style string) *View {
	v.markdownStyle = style
	v.renderer = nil
	v.refresh()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuestionSubmitted:
		return v, v.submit(msg.Question)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case messages.TranscriptCleared:
		v.clear()
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	v.viewport, cmd = v.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Submit):
		question := v.input.Value()
		v.input.Reset()
		return v, v.submit(question)

	case key.Matches(msg, v.keymap.ScrollUp):
		v.viewport.PageUp()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.viewport.PageDown()
		return v, nil

	case key.Matches(msg, v.keymap.Clear):
		return v, func() tea.Msg { return messages.TranscriptCleared{} }

	case key.Matches(msg, v.keymap.Help):
		v.showHelp = !v.showHelp
		v.layout()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit records a pending exchange and asks the router in the background.
// Blank questions and questions sent while an answer is pending are ignored.
func (v *View) submit(question string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" || v.busy {
		return nil
	}

	v.seq++
	seq := v.seq
	v.transcript = append(v.transcript, exchange{seq: seq, question: question, pending: true})
	v.busy = true
	v.statusbar.SetState(status.StateThinking)
	v.refresh()

	router, ctx := v.router, v.ctx
	return func() tea.Msg {
		answer, err := router.RouteAndAnswer(ctx, question)
		return messages.AnswerReceived{Seq: seq, Answer: answer, Err: err}
	}
}

// handleAnswer fills the exchange the answer belongs to. Answers for
// anything but the outstanding question are dropped; an answer whose
// exchange was cleared only releases the view.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if !v.busy || msg.Seq != v.seq {
		return
	}
	v.busy = false
	for i := range v.transcript {
		if e := &v.transcript[i]; e.seq == msg.Seq && e.pending {
			e.pending = false
			e.answer = msg.Answer
			e.err = msg.Err
		}
	}

	if msg.Err != nil {
		logger.Error(msg.Err, "answering question")
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
	v.statusbar.SetAnswered(v.answered())
	v.refresh()
}

// clear drops the transcript. A question still being answered keeps the
// view busy until its answer arrives.
func (v *View) clear() {
	v.transcript = nil
	v.statusbar.Clear()
	if v.busy {
		v.statusbar.SetState(status.StateThinking)
	}
	v.refresh()
}

func (v *View) answered() int {
	n := 0
	for _, e := range v.transcript {
		if !e.pending && e.err == nil {
			n++
		}
	}
	return n
}

// View renders the chat.
func (v *View) View() string {
	parts := []string{
		v.styles.Title.Render("supportdesk") + v.styles.Muted.Render("  policy and customer assistant"),
		v.viewport.View(),
		v.input.View(),
		v.statusbar.View(),
	}
	if v.showHelp {
		parts = append(parts, v.help.FullHelpView(v.keymap.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.help.Width = width
	v.layout()
}

// layout sizes the viewport to the space left by the chrome.
func (v *View) layout() {
	h := v.height - chromeHeight
	if v.showHelp {
		h -= len(v.keymap.FullHelp()[0]) + 1
	}
	if h < 3 {
		h = 3
	}
	v.viewport.Width = v.width
	v.viewport.Height = h
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 {
		return v.styles.Muted.Render("Ask about a policy (\"What is the refund window?\") " +
			"or a customer (\"Show Ema Ali's tickets\").")
	}

	var b strings.Builder
	for i, e := range v.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Question.Render("You: " + e.question))
		b.WriteString("\n")

		switch {
		case e.pending:
			b.WriteString(v.styles.Muted.Render("Thinking..."))
			b.WriteString("\n")
		case e.err != nil:
			b.WriteString(v.styles.Error.Render("Error: " + e.err.Error()))
			b.WriteString("\n")
		default:
			b.WriteString(v.renderMarkdown(e.answer.Answer))
			b.WriteString("\n")
			b.WriteString(v.styles.Route(e.answer.Route.String()).Render(RouteLabel(e.answer.Route)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderMarkdown renders an answer with glamour, falling back to the raw
// text if rendering fails.
func (v *View) renderMarkdown(text string) string {
	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}

	if v.renderer == nil || v.rendererWidth != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(v.markdownStyle),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			logger.Debug("markdown renderer unavailable: %v", err)
			return text
		}
		v.renderer = r
		v.rendererWidth = wrap
	}

	out, err := v.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// RouteLabel returns the label shown under an answer.
func RouteLabel(route domain.Route) string {
	return fmt.Sprintf("Agent used: %s", route.Label())
}

// Busy reports whether an answer is pending.
func (v *View) Busy() bool {
	return v.busy
}

// Transcript returns the questions asked so far, oldest first.
func (v *View) Transcript() []string {
	out := make([]string, len(v.transcript))
	for i, e := range v.transcript {
		out[i] = e.question
	}
	return out
}
