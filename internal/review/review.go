package review

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/coverletter/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")).
			Width(14).
			PaddingLeft(2)

	activeLabelStyle = labelStyle.
				Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 0, 0, 2)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

var fieldLabels = []string{"Company", "Post title", "Reason"}

type reviewModel struct {
	inputs   []textinput.Model
	focus    int
	err      string
	accepted bool
	aborted  bool
}

func newReviewModel(f model.SummaryFields) reviewModel {
	values := []string{f.CompanyName, f.PostTitle, f.Reason}
	inputs := make([]textinput.Model, len(values))
	for i, v := range values {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 500
		ti.Width = 60
		ti.SetValue(v)
		inputs[i] = ti
	}
	inputs[0].Focus()
	return reviewModel{inputs: inputs}
}

func (m reviewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		case "ctrl+s":
			return m.accept()
		case "enter":
			if m.focus == len(m.inputs)-1 {
				return m.accept()
			}
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case "tab", "down":
			cmd := m.setFocus((m.focus + 1) % len(m.inputs))
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *reviewModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// accept quits only when every field still has a value; an empty field would
// render an empty LaTeX macro argument.
func (m reviewModel) accept() (tea.Model, tea.Cmd) {
	for i, in := range m.inputs {
		if strings.TrimSpace(in.Value()) == "" {
			m.err = fmt.Sprintf("%s must not be empty", fieldLabels[i])
			cmd := m.setFocus(i)
			return m, cmd
		}
	}
	m.err = ""
	m.accepted = true
	return m, tea.Quit
}

func (m reviewModel) fields() model.SummaryFields {
	return model.SummaryFields{
		CompanyName: strings.TrimSpace(m.inputs[0].Value()),
		PostTitle:   strings.TrimSpace(m.inputs[1].Value()),
		Reason:      strings.TrimSpace(m.inputs[2].Value()),
	}
}

func (m reviewModel) View() string {
	if m.accepted || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Review cover letter fields"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = activeLabelStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("tab/↑/↓ move  enter next  ctrl+s accept  esc abort"))
	return b.String()
}

// TUIReviewer lets the user edit the three summary fields in the terminal
// before the document is rendered.
type TUIReviewer struct {
	in  io.Reader
	out io.Writer
}

var _ model.Reviewer = (*TUIReviewer)(nil)

// NewTUIReviewer creates a reviewer reading keys from in and drawing to out.
func NewTUIReviewer(in io.Reader, out io.Writer) *TUIReviewer {
	return &TUIReviewer{in: in, out: out}
}

// Review returns the accepted fields, or model.ErrReviewAborted when the user
// leaves without accepting.
func (r *TUIReviewer) Review(ctx context.Context, f model.SummaryFields) (model.SummaryFields, error) {
	p := tea.NewProgram(newReviewModel(f),
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
	)
	result, err := p.Run()
	if err != nil {
		return f, fmt.Errorf("running review: %w", err)
	}

	final := result.(reviewModel)
	if !final.accepted {
		return f, model.ErrReviewAborted
	}
	return final.fields(), nil
}
