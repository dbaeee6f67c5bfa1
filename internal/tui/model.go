// Package tui renders the task list as an interactive terminal view.
//
// The model renders whatever the controller holds and forwards user
// actions to it. Remote calls run as commands off the update loop; their
// completion message only triggers a re-render, since the controller has
// already applied the result by then.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktracker/internal/controller"
	"tasktracker/internal/notify"
	"tasktracker/internal/output"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Options menu entries, in display order.
const (
	menuEdit = iota
	menuDelete
	menuLen
)

// opKind names the remote operation a doneMsg reports on.
type opKind int

const (
	opLoad opKind = iota
	opAdd
	opRename
	opRemove
)

// doneMsg reports that a controller operation finished.
type doneMsg struct {
	op  opKind
	err error
}

// expireMsg re-renders once a notification may have timed out.
type expireMsg struct{}

// Model is the bubbletea model for the task view.
type Model struct {
	ctx   context.Context
	tasks *controller.TaskListController
	notes *notify.Center
	keys  KeyMap
	help  help.Model

	input textinput.Model
	edit  textinput.Model

	focus      focusArea
	cursor     int
	menuCursor int
	loading    bool

	// tick schedules expireMsg; replaced in tests.
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// New creates the view over a controller. ctx bounds every remote call.
func New(ctx context.Context, tasks *controller.TaskListController, notes *notify.Center) Model {
	input := textinput.New()
	input.Placeholder = "Enter a task"
	input.Prompt = "> "
	input.SetValue(tasks.Draft())
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""

	return Model{
		ctx:     ctx,
		tasks:   tasks,
		notes:   notes,
		keys:    DefaultKeyMap,
		help:    help.New(),
		input:   input,
		edit:    edit,
		focus:   focusInput,
		loading: true,
		tick:    tea.Tick,
	}
}

// Init loads the collection once.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(opLoad, m.tasks.Load), textinput.Blink)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-16, 10)
		m.edit.Width = max(msg.Width-24, 10)
		return m, nil

	case doneMsg:
		return m.handleDone(msg)

	case expireMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if _, _, editing := m.tasks.Editing(); editing {
			return m.updateEditing(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		if _, open := m.tasks.OptionsOpen(); open {
			return m.updateMenu(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	if _, _, editing := m.tasks.Editing(); editing {
		m.edit, cmd = m.edit.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleDone(msg doneMsg) (tea.Model, tea.Cmd) {
	switch msg.op {
	case opLoad:
		m.loading = false
	case opAdd:
		if msg.err == nil {
			m.input.Reset()
		}
	case opRename:
		if _, _, editing := m.tasks.Editing(); !editing {
			m.edit.Blur()
		}
	}
	m.clampCursor()

	if len(m.notes.Active()) == 0 {
		return m, nil
	}
	return m, m.tick(m.notes.TTL(), func(time.Time) tea.Msg { return expireMsg{} })
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		if m.tasks.Len() == 0 {
			return m, nil
		}
		m.focus = focusList
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.tasks.SetDraft(m.input.Value())
		if strings.TrimSpace(m.input.Value()) == "" {
			// Rejected locally; no request is sent.
			_, err := m.tasks.SubmitDraft(m.ctx)
			return m.handleDone(doneMsg{op: opAdd, err: err})
		}
		return m, m.run(opAdd, func(ctx context.Context) error {
			_, err := m.tasks.SubmitDraft(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Cancel):
		m.notes.Dismiss()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tasks.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.tasks.Len()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Options), key.Matches(msg, m.keys.Submit):
		if id, ok := m.currentID(); ok {
			m.tasks.ToggleOptions(id)
			m.menuCursor = menuEdit
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Delete):
		return m.remove()

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.run(opLoad, m.tasks.Load)

	case key.Matches(msg, m.keys.Cancel):
		m.notes.Dismiss()
		return m, nil
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = (m.menuCursor + menuLen - 1) % menuLen
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.menuCursor = (m.menuCursor + 1) % menuLen
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.menuCursor == menuDelete {
			return m.remove()
		}
		return m.startEdit()

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Delete):
		return m.remove()

	case key.Matches(msg, m.keys.Options), key.Matches(msg, m.keys.Cancel):
		m.tasks.CloseOptions()
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.tasks.SetEditTitle(m.edit.Value())
		if strings.TrimSpace(m.edit.Value()) == "" {
			err := m.tasks.SaveEdit(m.ctx)
			return m.handleDone(doneMsg{op: opRename, err: err})
		}
		return m, m.run(opRename, m.tasks.SaveEdit)

	case key.Matches(msg, m.keys.Cancel):
		m.tasks.CancelEdit()
		m.edit.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.tasks.SetEditTitle(m.edit.Value())
	return m, cmd
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	id, ok := m.currentID()
	if !ok {
		return m, nil
	}
	if err := m.tasks.StartEdit(id); err != nil {
		return m, nil
	}
	_, title, _ := m.tasks.Editing()
	m.edit.SetValue(title)
	m.edit.CursorEnd()
	return m, m.edit.Focus()
}

func (m Model) remove() (tea.Model, tea.Cmd) {
	id, ok := m.currentID()
	if !ok {
		return m, nil
	}
	return m, m.run(opRemove, func(ctx context.Context) error {
		return m.tasks.Remove(ctx, id)
	})
}

// run wraps a controller call as a command reporting back with doneMsg.
func (m Model) run(op opKind, call func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: op, err: call(ctx)}
	}
}

func (m Model) currentID() (string, bool) {
	tasks := m.tasks.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return "", false
	}
	return tasks[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	n := m.tasks.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n == 0 && m.focus == focusList {
		m.focus = focusInput
		m.input.Focus()
	}
}

// View renders the task view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Tracker"))
	b.WriteString("\n")

	addButton := buttonStyle.Render("Add")
	if strings.TrimSpace(m.input.Value()) == "" {
		addButton = disabledButtonStyle.Render("Add")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", addButton))
	b.WriteString("\n\n")

	tasks := m.tasks.Tasks()
	editID, _, editing := m.tasks.Editing()
	menuID, menuOpen := m.tasks.OptionsOpen()

	switch {
	case len(tasks) == 0 && m.loading:
		b.WriteString(emptyStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(tasks) == 0:
		b.WriteString(emptyStyle.Render("No tasks found"))
		b.WriteString("\n")
	}

	for i, task := range tasks {
		selected := m.focus == focusList && i == m.cursor
		marker := "  "
		if selected {
			marker = "▸ "
		}

		if editing && task.ID == editID {
			b.WriteString(rowStyle.Render(marker + m.edit.View()))
			b.WriteString(" ")
			b.WriteString(saveButtonStyle.Render("Save"))
			b.WriteString(" ")
			b.WriteString(disabledButtonStyle.Render("Cancel"))
			b.WriteString("\n")
			continue
		}

		style := rowStyle
		if selected {
			style = selectedRowStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s  ⋮", marker, output.NormalizeTitle(task.Title))))
		b.WriteString("\n")

		if menuOpen && task.ID == menuID {
			b.WriteString(m.renderMenu())
			b.WriteString("\n")
		}
	}

	if toasts := m.notes.Active(); len(toasts) > 0 {
		b.WriteString("\n")
		for _, n := range toasts {
			style := toastSuccessStyle
			if n.Level == notify.LevelError {
				style = toastErrorStyle
			}
			b.WriteString(style.Render(n.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderMenu() string {
	items := []string{"Edit", "Delete"}
	rendered := make([]string, len(items))
	for i, item := range items {
		style := menuItemStyle
		if i == menuDelete {
			style = deleteItemStyle
		}
		if i == m.menuCursor {
			style = menuSelectedStyle
		}
		rendered[i] = style.Render(item)
	}
	return menuStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rendered...))
}
