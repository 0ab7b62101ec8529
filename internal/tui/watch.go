// Package tui implements the interactive watch view: a task table bound
// to the sync engine, refreshed on every poll tick.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todocli/internal/api"
	"todocli/internal/output"
	"todocli/internal/tasksync"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// editColumn identifies which field an inline edit targets.
type editColumn int

const (
	editNone editColumn = iota
	editTitle
	editDescription
)

type (
	tickMsg  time.Time
	pollMsg  tasksync.View
	writeMsg struct{ err error }
)

// Model is the bubbletea model for the watch view.
type Model struct {
	ctx    context.Context
	engine *tasksync.Engine

	view    tasksync.View
	cursor  int
	editing editColumn
	input   textinput.Model
	spin    spinner.Model
	status  string
}

// NewModel creates the watch model around an engine.
func NewModel(ctx context.Context, engine *tasksync.Engine) Model {
	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:    ctx,
		engine: engine,
		view:   tasksync.View{State: tasksync.ViewLoading},
		input:  ti,
		spin:   sp,
	}
}

// Run drives the watch view until the user quits or ctx is cancelled.
// Cancelling ctx tears down both the program and any in-flight poll.
func Run(ctx context.Context, engine *tasksync.Engine, out io.Writer) error {
	p := tea.NewProgram(NewModel(ctx, engine), tea.WithContext(ctx), tea.WithOutput(out))
	_, err := p.Run()
	if err == tea.ErrProgramKilled && ctx.Err() != nil {
		// Interrupt-driven teardown is a normal exit.
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.tickCmd(), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.pollCmd(), m.tickCmd())

	case pollMsg:
		m.view = tasksync.View(msg)
		if m.cursor >= len(m.view.Tasks) {
			m.cursor = max(0, len(m.view.Tasks)-1)
		}
		return m, nil

	case writeMsg:
		if msg.err != nil {
			// Write-through failures surface here without halting the
			// poll loop.
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		return m, m.pollCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.view.Tasks)-1 {
			m.cursor++
		}

	case "r":
		return m, m.pollCmd()

	case " ":
		if task, ok := m.selected(); ok {
			status := !task.Status
			return m, m.updateCmd(task.ID, tasksync.FieldPatch{Status: &status})
		}

	case "d":
		if task, ok := m.selected(); ok {
			return m, m.deleteCmd(task.ID)
		}

	case "e":
		if task, ok := m.selected(); ok {
			m.editing = editTitle
			m.input.SetValue(task.Title)
			m.input.Focus()
		}

	case "E":
		if task, ok := m.selected(); ok {
			m.editing = editDescription
			m.input.SetValue(task.Description)
			m.input.Focus()
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Leaving the field saves the merged full record; the next poll
		// reconciles the view.
		task, ok := m.selected()
		col := m.editing
		value := m.input.Value()
		m.editing = editNone
		m.input.Blur()
		if !ok {
			return m, nil
		}
		patch := tasksync.FieldPatch{}
		if col == editTitle {
			patch.Title = &value
		} else {
			patch.Description = &value
		}
		return m, m.updateCmd(task.ID, patch)

	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("tasks"))
	b.WriteString("\n\n")

	switch m.view.State {
	case tasksync.ViewLoading:
		fmt.Fprintf(&b, "%s %s\n", m.spin.View(), output.StateMessage(m.view))
	case tasksync.ViewLoaded:
		m.renderTable(&b)
	default:
		b.WriteString(output.StateMessage(m.view))
		b.WriteString("\n")
	}

	if m.editing != editNone {
		label := "title"
		if m.editing == editDescription {
			label = "description"
		}
		fmt.Fprintf(&b, "\nedit %s: %s\n", label, m.input.View())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move · space toggle · e/E edit title/desc · d delete · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTable(b *strings.Builder) {
	if len(m.view.Tasks) == 0 {
		b.WriteString("no tasks found\n")
		return
	}
	for i, task := range m.view.Tasks {
		var row strings.Builder
		output.TaskRow(&row, task)
		line := strings.TrimRight(row.String(), "\n")
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case task.Status:
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m Model) selected() (api.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return api.Task{}, false
	}
	return m.view.Tasks[m.cursor], true
}

func (m Model) pollCmd() tea.Cmd {
	return func() tea.Msg {
		return pollMsg(m.engine.Poll(m.ctx))
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(tasksync.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) updateCmd(id string, patch tasksync.FieldPatch) tea.Cmd {
	return func() tea.Msg {
		return writeMsg{err: m.engine.UpdateField(m.ctx, id, patch)}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return writeMsg{err: m.engine.Delete(m.ctx, id)}
	}
}
