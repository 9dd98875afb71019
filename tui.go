package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/bookvox/internal/index"
	"github.com/metcalfc/bookvox/internal/session"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)
)

// Reserve 4 lines: status, input, controls and a spacer.
const chromeHeight = 4

type entry struct {
	title string
	body  string
	err   bool
}

type model struct {
	sess      *session.Session
	idx       *index.Index
	readCount int
	language  string

	input    textinput.Model
	viewport viewport.Model
	entries  []entry
	quitting bool
	width    int
	height   int
}

func newModel(sess *session.Session, idx *index.Index, readCount int, language string) model {
	ti := textinput.New()
	ti.Placeholder = "Ask the book a question"
	ti.Prompt = "? "
	ti.CharLimit = 256
	ti.Focus()

	// Letters belong to the input, so only the navigation keys scroll.
	vp := viewport.New(80, 24-chromeHeight)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}

	m := model{
		sess:      sess,
		idx:       idx,
		readCount: max(readCount, 1),
		language:  language,
		input:     ti,
		viewport:  vp,
		width:     80,
		height:    24,
	}
	if cp, ok := sess.Checkpoint(); ok {
		m.add(entry{title: "Welcome back", body: fmt.Sprintf("Last position: sentence %d\n%s", cp.LastIndex+1, sess.Recap())})
	} else {
		m.add(entry{title: "Welcome", body: fmt.Sprintf("%d sentences indexed. Ask a question or press CTRL+N to start reading.", idx.Len())})
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			question := m.input.Value()
			m.input.Reset()
			ans, err := m.sess.Ask(question)
			if err != nil {
				m.add(entry{title: "Answer", body: err.Error(), err: true})
				return m, nil
			}
			m.add(entry{title: "Answer", body: ans.Text})
			return m, nil

		case "ctrl+n":
			passage, err := m.sess.ReadNext(m.readCount)
			if err != nil {
				m.add(entry{title: "Reading", body: err.Error(), err: true})
				return m, nil
			}
			m.add(entry{title: "Reading", body: passage})
			return m, nil

		case "ctrl+r":
			m.add(entry{title: "Recap", body: m.sess.Recap()})
			return m, nil

		case "ctrl+p":
			plan, err := m.sess.Narrate(m.language)
			if err != nil {
				m.add(entry{title: "Narration prompt", body: err.Error(), err: true})
				return m, nil
			}
			m.add(entry{title: "Narration prompt", body: plan.VoicePrompt})
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 1)
		m.refresh()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) add(e entry) {
	m.entries = append(m.entries, e)
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m model) transcript() string {
	wrap := lipgloss.NewStyle().Width(max(m.viewport.Width, 1))
	var sb strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(titleStyle.Render(e.title))
		sb.WriteString("\n")
		body := e.body
		if e.err {
			body = errorStyle.Render(body)
		}
		sb.WriteString(wrap.Render(body))
	}
	return sb.String()
}

func (m model) status() string {
	cp, ok := m.sess.Checkpoint()
	if !ok {
		return fmt.Sprintf("Sentence -/%d", m.idx.Len())
	}
	s := fmt.Sprintf("Sentence %d/%d", cp.LastIndex+1, m.idx.Len())
	if ch, ok := m.idx.ChapterOf(cp.LastIndex); ok {
		s += " | " + ch.Title
	}
	return s
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(statusStyle.Render(m.status()))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("ENTER: ask  CTRL+N: read on  CTRL+R: recap  CTRL+P: narrate  ↑/↓: scroll  ESC: quit"))
	return sb.String()
}
