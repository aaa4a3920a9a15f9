// Package tui is the terminal host: a bubbletea program driving the shared
// ui.Controller with a textarea for input and a viewport for results.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
	"github.com/advait-mulye/medner/internal/ui"
)

// terminals cannot report ctrl+enter, so ctrl+j and ctrl+s stand in for it
var keyTriggers = map[string]ui.Trigger{
	"ctrl+j": ui.KeyCtrlEnter,
	"ctrl+s": ui.KeyCtrlEnter,
	"ctrl+k": ui.KeyCtrlK,
	"ctrl+l": ui.KeyCtrlL,
	"ctrl+e": ui.ClickExport,
	"esc":    ui.KeyEscape,
}

const inputHeight = 6

type analysisDoneMsg struct {
	ticket ui.Ticket
	resp   *model.AnalysisResponse
	err    error
}

type deferredMsg struct {
	fn func()
}

type deferredCall struct {
	delay time.Duration
	fn    func()
}

// Model is the bubbletea model. It is also the controller's ui.View.
type Model struct {
	ctx      context.Context
	ctrl     *ui.Controller
	analyzer ui.Analyzer

	input   textarea.Model
	results viewport.Model
	spinner spinner.Model

	inputFocused bool
	busy         bool
	res          *render.Results
	errMsg       string
	status       string

	width    int
	height   int
	deferred []deferredCall
}

var _ ui.View = (*Model)(nil)

// New builds the model and its controller
func New(ctx context.Context, analyzer ui.Analyzer, opts ...ui.Option) *Model {
	ta := textarea.New()
	ta.Placeholder = "Enter clinical notes, e.g. Patient has diabetes and takes metformin 500mg."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := &Model{
		ctx:          ctx,
		analyzer:     analyzer,
		input:        ta,
		results:      viewport.New(80, 10),
		spinner:      sp,
		inputFocused: true,
	}

	opts = append(opts, ui.WithScheduler(m.schedule))
	m.ctrl = ui.New(m, analyzer, opts...)
	return m
}

// Run starts the program on the terminal's alternate screen
func Run(ctx context.Context, analyzer ui.Analyzer, opts ...ui.Option) error {
	p := tea.NewProgram(New(ctx, analyzer, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// ui.View

func (m *Model) InputText() string { return m.input.Value() }

func (m *Model) SetInputText(text string) {
	m.input.SetValue(text)
}

func (m *Model) FocusInput() {
	m.inputFocused = true
	m.input.Focus()
}

func (m *Model) SetBusy(busy bool) { m.busy = busy }

func (m *Model) ShowResults(res render.Results) {
	m.res = &res
	m.results.SetContent(renderResults(res, m.results.Width))
}

func (m *Model) HideResults() {
	m.res = nil
	m.results.SetContent("")
}

func (m *Model) ShowError(message string) { m.errMsg = message }

func (m *Model) HideError() { m.errMsg = "" }

func (m *Model) ScrollToResults() { m.results.GotoTop() }

// schedule queues fn; Update turns the queue into tea.Tick commands
func (m *Model) schedule(d time.Duration, fn func()) {
	m.deferred = append(m.deferred, deferredCall{delay: d, fn: fn})
}

func (m *Model) flushDeferred() tea.Cmd {
	if len(m.deferred) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(m.deferred))
	for i, d := range m.deferred {
		fn := d.fn
		cmds[i] = tea.Tick(d.delay, func(time.Time) tea.Msg { return deferredMsg{fn: fn} })
	}
	m.deferred = nil
	return tea.Batch(cmds...)
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case analysisDoneMsg:
		m.ctrl.Complete(msg.ticket, msg.resp, msg.err)
		return m, m.flushDeferred()

	case deferredMsg:
		msg.fn()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	trigger, bound := keyTriggers[key]
	if !bound && m.errMsg != "" && key == "enter" {
		trigger, bound = ui.ClickModalClose, true
	}

	if bound {
		action, ok := ui.Resolve(ui.Event{Trigger: trigger, InputFocused: m.inputFocused}, m.ctrl.State())
		if ok {
			return m, m.run(action)
		}
	}

	// the error modal swallows other keys
	if m.errMsg != "" {
		return m, nil
	}

	if key == "tab" {
		m.toggleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.inputFocused {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

// run performs action. Analyze goes through Begin/Complete so the network
// call runs as a command instead of blocking Update.
func (m *Model) run(action ui.Action) tea.Cmd {
	m.status = ""

	switch action {
	case ui.ActionAnalyze:
		ticket, err := m.ctrl.Begin()
		if err != nil {
			return nil
		}
		return tea.Batch(m.analyze(ticket), m.spinner.Tick)

	case ui.ActionExport:
		path, err := m.ctrl.ExportLatest()
		if err != nil {
			m.status = "Export failed: " + err.Error()
			return nil
		}
		m.status = "Exported to " + path
		return nil
	}

	if err := m.ctrl.Run(m.ctx, action); err != nil {
		m.status = err.Error()
	}
	return nil
}

func (m *Model) analyze(ticket ui.Ticket) tea.Cmd {
	ctx := m.ctx
	analyzer := m.analyzer
	return func() tea.Msg {
		resp, err := analyzer.Analyze(ctx, ticket.Text)
		return analysisDoneMsg{ticket: ticket, resp: resp, err: err}
	}
}

func (m *Model) toggleFocus() {
	if m.inputFocused {
		m.inputFocused = false
		m.input.Blur()
		return
	}
	m.FocusInput()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	m.input.SetWidth(inner)

	m.results.Width = inner
	m.results.Height = height - inputHeight - 10
	if m.results.Height < 3 {
		m.results.Height = 3
	}
	if m.res != nil {
		m.results.SetContent(renderResults(*m.res, inner))
	}
}

func (m *Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("🏥 Medical NER"))

	inputBox := blurredBorder
	resultsBox := focusedBorder
	if m.inputFocused {
		inputBox, resultsBox = focusedBorder, blurredBorder
	}
	sections = append(sections, inputBox.Render(m.input.View()))

	sections = append(sections, m.statusLine())

	if m.errMsg != "" {
		sections = append(sections, modalStyle.Render(
			modalTitleStyle.Render("Error")+"\n"+m.errMsg+"\n"+hintStyle.Render("enter/esc to close")))
	}

	if m.res != nil {
		sections = append(sections, resultsBox.Render(m.results.View()))
	}

	sections = append(sections, hintStyle.Render(
		"ctrl+j/ctrl+s analyze · ctrl+k clear · ctrl+l sample · ctrl+e export · tab focus · ctrl+c quit"))

	return strings.Join(sections, "\n")
}

func (m *Model) statusLine() string {
	switch {
	case m.busy:
		return fmt.Sprintf("%s %s", m.spinner.View(), statusStyle.Render("Analyzing…"))
	case m.status != "":
		return statusStyle.Render(m.status)
	default:
		return statusStyle.Render(m.ctrl.State().String())
	}
}
