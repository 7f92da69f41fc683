package tui

import (
	"fmt"
	"strings"

	"tareas-cli/internal/api"
	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"
	"tareas-cli/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type viewMode int

const (
	modeLogin viewMode = iota
	modeTasks
)

type modalKind int

const (
	modalNone modalKind = iota
	modalDeleteTask
	modalDeleteSubtask
	modalCategorize
)

type editLevel int

const (
	editNone editLevel = iota
	editTask
	editSubtask
	editAddSubtask
	editNewTask
)

// Edit input indexes, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldDueDate
	fieldCount
)

type rowKind int

const (
	rowTask rowKind = iota
	rowSubtask
	rowAddForm
)

// row is one visual line of the task table: a task, one of its subtasks,
// or the inline add-subtask form. Subtasks always render attached to
// their filtered-and-sorted parent, in stored order.
type row struct {
	kind rowKind
	task model.Task
	sub  model.Subtask
}

type appModel struct {
	sessions *session.Store
	client   *api.Client

	col      *collection.Collection
	view     collection.View
	inflight *collection.InFlight

	// One editor per level; the engine rejects a second Start while one
	// is active at the same level.
	taskEd collection.Editor
	subEd  collection.Editor
	addEd  collection.Editor // id is the parent task id
	newEd  collection.Editor // new-task form, id unused

	mode    viewMode
	width   int
	height  int
	loading bool
	spin    spinner.Model

	cursor int

	status    string
	statusErr bool

	modal       modalKind
	modalTaskID int64
	modalSubID  int64
	modalLabel  string
	modalFocus  confirmModalFocus

	searching   bool
	searchInput textinput.Model

	editInputs []textinput.Model
	editFocus  int
	editing    editLevel
	editParent int64 // task id owning the subtask under edit

	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool
	loginErr      string
}

// Run starts the interactive client. With a restored session it goes
// straight to the task table; otherwise it shows the login form first.
func Run(sessions *session.Store, client *api.Client) error {
	detectBackground()
	m := newAppModel(sessions, client)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newAppModel(sessions *session.Store, client *api.Client) appModel {
	m := appModel{
		sessions: sessions,
		client:   client,
		col:      collection.New(),
		inflight: collection.NewInFlight(),
	}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search title or description"
	m.searchInput.Prompt = "/"
	m.searchInput.CharLimit = 120

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "email"
	m.emailInput.CharLimit = 120
	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "password"
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.passwordInput.CharLimit = 120

	if sessions.Current().Authenticated() {
		m.mode = modeTasks
		m.loading = true
	} else {
		m.mode = modeLogin
		m.emailInput.Focus()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.mode == modeTasks {
		return tea.Batch(loadTasksCmd(m.client), loadCategoriesCmd(m.client), m.spin.Tick)
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.loggingIn && !m.inflight.Any() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loginDoneMsg:
		return m.onLoginDone(msg)

	case tasksLoadedMsg:
		m.loading = false
		// Silent degrade: a failed load installs the empty collection and
		// the view stays usable.
		msg.res.Apply(m.col)
		m.clampCursor()
		return m, nil

	case categoriesLoadedMsg:
		msg.res.Apply(m.col)
		return m, nil

	case createTaskDoneMsg:
		m.inflight.End(collection.OpCreateTask, 0)
		if msg.err != nil {
			// The form stays open with the entered values.
			m.newEd.SaveFailed(msg.err.Error())
			return m, nil
		}
		m.newEd.SaveSucceeded()
		m.editing = editNone
		// Creation has no local reconcile step; reload explicitly.
		m.loading = true
		return m, tea.Batch(loadTasksCmd(m.client), m.spin.Tick)

	case toggleTaskDoneMsg:
		m.inflight.End(collection.OpToggleTask, msg.id)
		if msg.err != nil {
			m.setError("toggle failed: " + msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		return m, nil

	case saveTaskDoneMsg:
		m.inflight.End(collection.OpSaveTask, msg.id)
		if msg.err != nil {
			m.taskEd.SaveFailed(msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.taskEd.SaveSucceeded()
		m.editing = editNone
		return m, nil

	case deleteTaskDoneMsg:
		m.inflight.End(collection.OpDeleteTask, msg.id)
		if msg.err != nil {
			m.setError("delete failed: " + msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.clampCursor()
		return m, nil

	case categorizeDoneMsg:
		m.inflight.End(collection.OpCategorize, msg.id)
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.clampCursor()
		m.setStatus(msg.res.Message)
		return m, nil

	case addSubtaskDoneMsg:
		m.inflight.End(collection.OpAddSubtask, msg.taskID)
		if msg.err != nil {
			// Keep the entered draft for a retry.
			m.addEd.SaveFailed(msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.addEd.SaveSucceeded()
		m.editing = editNone
		return m, nil

	case toggleSubtaskDoneMsg:
		m.inflight.End(collection.OpToggleSubtask, msg.id)
		if msg.err != nil {
			m.setError("toggle failed: " + msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		return m, nil

	case saveSubtaskDoneMsg:
		m.inflight.End(collection.OpSaveSubtask, msg.id)
		if msg.err != nil {
			m.subEd.SaveFailed(msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.subEd.SaveSucceeded()
		m.editing = editNone
		return m, nil

	case deleteSubtaskDoneMsg:
		m.inflight.End(collection.OpDeleteSubtask, msg.id)
		if msg.err != nil {
			m.setError("delete failed: " + msg.err.Error())
			return m, nil
		}
		msg.res.Apply(m.col)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeLogin:
		return m.updateLogin(msg)
	case modeTasks:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.editing != editNone {
			return m.updateEdit(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

// rows flattens the displayed projection: each visible task followed by
// its subtasks and, when the add-subtask form targets it, the form row.
func (m *appModel) rows() []row {
	displayed := m.view.Apply(m.col.Tasks())
	out := make([]row, 0, len(displayed))
	for _, t := range displayed {
		out = append(out, row{kind: rowTask, task: t})
		for _, s := range t.Subtasks {
			out = append(out, row{kind: rowSubtask, task: t, sub: s})
		}
		if m.addEd.Active() && m.addEd.ID() == t.ID {
			out = append(out, row{kind: rowAddForm, task: t})
		}
	}
	return out
}

func (m *appModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) currentRow() (row, bool) {
	rows := m.rows()
	if len(rows) == 0 || m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

// activeEditor returns the editor for the current editing level.
func (m *appModel) activeEditor() *collection.Editor {
	switch m.editing {
	case editTask:
		return &m.taskEd
	case editSubtask:
		return &m.subEd
	case editAddSubtask:
		return &m.addEd
	case editNewTask:
		return &m.newEd
	}
	return nil
}

func (m appModel) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		m.loginErr = msg.err.Error()
		return m, nil
	}
	if err := m.sessions.Login(msg.token, msg.email); err != nil {
		m.loginErr = fmt.Sprintf("persist session: %v", err)
		return m, nil
	}
	m.mode = modeTasks
	m.loading = true
	m.loginErr = ""
	m.passwordInput.SetValue("")
	return m, tea.Batch(loadTasksCmd(m.client), loadCategoriesCmd(m.client), m.spin.Tick)
}

func (m appModel) View() string {
	if m.mode == modeLogin {
		return m.viewLogin()
	}
	return m.viewTasks()
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
