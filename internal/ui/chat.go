package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/datamef/inverchat/internal/agent"
)

// Catppuccin Mocha accents, same palette as the rest of our tooling.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0A1F0"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#89DCEB")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))
	inputStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#595B72")).
			Padding(0, 1)
)

type chatMessage struct {
	user bool
	text string
}

type answerMsg struct {
	text string
	err  error
}

type model struct {
	ctx     context.Context
	session *agent.Session
	label   string

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	messages []chatMessage
	waiting  bool
	ready    bool
	width    int
	height   int
}

// Run starts the chat TUI and blocks until the user quits.
func Run(ctx context.Context, session *agent.Session, label string) error {
	p := tea.NewProgram(newModel(ctx, session, label), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newModel(ctx context.Context, session *agent.Session, label string) model {
	ta := textarea.New()
	ta.Placeholder = "Pregunta sobre las inversiones…"
	ta.Prompt = "> "
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = labelStyle

	return model{
		ctx:     ctx,
		session: session,
		label:   label,
		input:   ta,
		spin:    sp,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)

		vpHeight := msg.Height - 6
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderMessages())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.messages = append(m.messages, chatMessage{user: true, text: question})
			m.waiting = true
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			return m, tea.Batch(m.spin.Tick, m.ask(question))
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.messages = append(m.messages, chatMessage{text: errorStyle.Render(fmt.Sprintf("error: %v", msg.err))})
		} else {
			m.messages = append(m.messages, chatMessage{text: msg.text})
		}
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "loading…"
	}

	header := headerStyle.Render("INVERCHAT") + "  " + labelStyle.Render(strings.ToUpper(m.label))

	status := statusStyle.Render("Enter para preguntar · Esc para salir")
	if m.waiting {
		status = m.spin.View() + statusStyle.Render("consultando…")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		inputStyle.Render(m.input.View()),
		status,
	)
}

func (m model) renderMessages() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		if msg.user {
			sb.WriteString(userStyle.Render("Tú: "))
			sb.WriteString(msg.text)
		} else {
			sb.WriteString(assistantStyle.Render(msg.text))
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ask runs the agent turn off the UI goroutine. The session handles one
// question at a time; input stays disabled while waiting.
func (m model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		text, err := m.session.Ask(m.ctx, question)
		return answerMsg{text: text, err: err}
	}
}
