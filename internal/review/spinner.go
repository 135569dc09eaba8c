package review

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/coverletter/internal/model"
)

type summaryDoneMsg struct {
	fields model.SummaryFields
	err    error
}

type loaderModel struct {
	title     string
	summarize func() (model.SummaryFields, error)
	spinner   spinner.Model
	result    model.SummaryFields
	err       error
	done      bool
}

func newLoaderModel(title string, summarize func() (model.SummaryFields, error)) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{title: title, summarize: summarize, spinner: s}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doSummarize(), m.spinner.Tick)
}

func (m loaderModel) doSummarize() tea.Cmd {
	fn := m.summarize
	return func() tea.Msg {
		fields, err := fn()
		return summaryDoneMsg{fields: fields, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryDoneMsg:
		m.result = msg.fields
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("summarizing: %w", context.Canceled)
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Summarizing %q...\n", m.spinner.View(), m.title)
}

// SpinnerSummarizer shows an inline spinner while the wrapped summarizer
// waits on the language model. Used together with the review screen.
type SpinnerSummarizer struct {
	inner model.Summarizer
	in    io.Reader
	out   io.Writer
}

var _ model.Summarizer = (*SpinnerSummarizer)(nil)

// NewSpinnerSummarizer wraps inner, drawing the spinner to out and reading
// ctrl+c from in.
func NewSpinnerSummarizer(inner model.Summarizer, in io.Reader, out io.Writer) *SpinnerSummarizer {
	return &SpinnerSummarizer{inner: inner, in: in, out: out}
}

// Summarize runs the wrapped summarizer behind the spinner. Pressing ctrl+c
// cancels the request and returns an error wrapping context.Canceled.
func (s *SpinnerSummarizer) Summarize(ctx context.Context, article model.ArticleContent) (model.SummaryFields, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newLoaderModel(article.Title, func() (model.SummaryFields, error) {
		return s.inner.Summarize(ctx, article)
	})
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(s.in), tea.WithOutput(s.out))
	result, err := p.Run()
	if err != nil {
		return model.SummaryFields{}, fmt.Errorf("running spinner: %w", err)
	}
	final := result.(loaderModel)
	return final.result, final.err
}
