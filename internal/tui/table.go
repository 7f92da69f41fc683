package tui

import (
	"fmt"

	"tareas-cli/internal/collection"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil

	case "g":
		return m.startCategorize()

	case " ":
		return m.toggleCurrent()

	case "e":
		return m.startEditCurrent()

	case "a":
		return m.startAddSubtask()

	case "n":
		return m.startNewTask()

	case "d":
		return m.startDelete()

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.view.Search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case "f":
		switch m.view.Completed {
		case collection.FilterAll:
			m.view.Completed = collection.FilterPending
		case collection.FilterPending:
			m.view.Completed = collection.FilterCompleted
		default:
			m.view.Completed = collection.FilterAll
		}
		m.clampCursor()
		return m, nil

	case "c":
		m.cycleCategoryFilter()
		m.clampCursor()
		return m, nil

	case "x":
		m.view.Clear()
		m.searchInput.SetValue("")
		m.clampCursor()
		return m, nil

	case "1", "2", "3", "4", "5":
		i := int(msg.String()[0] - '1')
		if i < len(collection.Columns) {
			m.view.CycleSort(collection.Columns[i])
		}
		return m, nil

	case "r":
		m.loading = true
		m.status = ""
		return m, tea.Batch(loadTasksCmd(m.client), loadCategoriesCmd(m.client), m.spin.Tick)
	}

	return m, nil
}

// cycleCategoryFilter steps nil -> first category -> ... -> last -> nil.
func (m *appModel) cycleCategoryFilter() {
	cats := m.col.Categories()
	if len(cats) == 0 {
		m.view.Category = nil
		return
	}
	if m.view.Category == nil {
		id := cats[0].ID
		m.view.Category = &id
		return
	}
	for i, c := range cats {
		if c.ID == *m.view.Category {
			if i+1 < len(cats) {
				id := cats[i+1].ID
				m.view.Category = &id
			} else {
				m.view.Category = nil
			}
			return
		}
	}
	m.view.Category = nil
}

func (m appModel) toggleCurrent() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowTask:
		if m.inflight.Busy(collection.OpToggleTask, r.task.ID) {
			return m, nil
		}
		m.inflight.Begin(collection.OpToggleTask, r.task.ID)
		return m, tea.Batch(toggleTaskCmd(m.client, r.task), m.spin.Tick)
	case rowSubtask:
		if m.inflight.Busy(collection.OpToggleSubtask, r.sub.ID) {
			return m, nil
		}
		m.inflight.Begin(collection.OpToggleSubtask, r.sub.ID)
		return m, tea.Batch(toggleSubtaskCmd(m.client, r.task.ID, r.sub), m.spin.Tick)
	}
	return m, nil
}

func (m appModel) startEditCurrent() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowTask:
		if err := m.taskEd.Start(r.task.ID, collection.DraftFromTask(r.task)); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.editing = editTask
	case rowSubtask:
		if err := m.subEd.Start(r.sub.ID, collection.DraftFromSubtask(r.sub)); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.editing = editSubtask
		m.editParent = r.task.ID
	default:
		return m, nil
	}
	m.setEditInputs(m.activeEditor().Draft())
	return m, textinput.Blink
}

func (m appModel) startAddSubtask() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok || r.kind == rowAddForm {
		return m, nil
	}
	if err := m.addEd.Start(r.task.ID, collection.Draft{}); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.editing = editAddSubtask
	m.setEditInputs(collection.Draft{})
	// Park the cursor on the form row, which renders after the parent's
	// existing subtasks.
	rows := m.rows()
	for i, rr := range rows {
		if rr.kind == rowAddForm && rr.task.ID == r.task.ID {
			m.cursor = i
			break
		}
	}
	return m, textinput.Blink
}

func (m appModel) startNewTask() (tea.Model, tea.Cmd) {
	if err := m.newEd.Start(0, collection.Draft{}); err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.editing = editNewTask
	m.setEditInputs(collection.Draft{})
	return m, textinput.Blink
}

func (m appModel) startDelete() (tea.Model, tea.Cmd) {
	r, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	switch r.kind {
	case rowTask:
		m.modal = modalDeleteTask
		m.modalTaskID = r.task.ID
		m.modalLabel = r.task.Title
	case rowSubtask:
		m.modal = modalDeleteSubtask
		m.modalTaskID = r.task.ID
		m.modalSubID = r.sub.ID
		m.modalLabel = r.sub.Title
	default:
		return m, nil
	}
	m.modalFocus = confirmFocusCancel
	return m, nil
}

func (m appModel) startCategorize() (tea.Model, tea.Cmd) {
	// Categorize ends with a full reload, which would discard any open
	// draft, so it is unavailable while an editor is active. Editors never
	// reach updateTable, but the engine keeps the invariant either way.
	if m.taskEd.Active() || m.subEd.Active() || m.addEd.Active() || m.newEd.Active() {
		return m, nil
	}
	r, ok := m.currentRow()
	if !ok || r.kind != rowTask {
		return m, nil
	}
	if m.inflight.Busy(collection.OpCategorize, r.task.ID) {
		return m, nil
	}
	m.modal = modalCategorize
	m.modalTaskID = r.task.ID
	m.modalLabel = r.task.Title
	m.modalFocus = confirmFocusConfirm
	return m, nil
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil

	case "tab", "shift+tab", "left", "right":
		if m.modalFocus == confirmFocusConfirm {
			m.modalFocus = confirmFocusCancel
		} else {
			m.modalFocus = confirmFocusConfirm
		}
		return m, nil

	case "y":
		return m.confirmModal()

	case "enter":
		if m.modalFocus == confirmFocusCancel {
			m.modal = modalNone
			return m, nil
		}
		return m.confirmModal()
	}
	return m, nil
}

func (m appModel) confirmModal() (tea.Model, tea.Cmd) {
	kind := m.modal
	m.modal = modalNone
	switch kind {
	case modalDeleteTask:
		m.inflight.Begin(collection.OpDeleteTask, m.modalTaskID)
		return m, tea.Batch(deleteTaskCmd(m.client, m.modalTaskID), m.spin.Tick)
	case modalDeleteSubtask:
		m.inflight.Begin(collection.OpDeleteSubtask, m.modalSubID)
		return m, tea.Batch(deleteSubtaskCmd(m.client, m.modalTaskID, m.modalSubID), m.spin.Tick)
	case modalCategorize:
		m.inflight.Begin(collection.OpCategorize, m.modalTaskID)
		return m, tea.Batch(categorizeCmd(m.client, m.modalTaskID), m.spin.Tick)
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.view.Search = ""
		m.clampCursor()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live filtering: the projection narrows with every keystroke.
	m.view.Search = m.searchInput.Value()
	m.clampCursor()
	return m, cmd
}

func (m *appModel) setEditInputs(d collection.Draft) {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 500
	}
	inputs[fieldTitle].Placeholder = "title"
	inputs[fieldTitle].SetValue(d.Title)
	inputs[fieldDescription].Placeholder = "description"
	inputs[fieldDescription].SetValue(d.Description)
	inputs[fieldCategory].Placeholder = "category id"
	inputs[fieldCategory].CharLimit = 20
	inputs[fieldCategory].SetValue(d.Category)
	inputs[fieldDueDate].Placeholder = "due YYYY-MM-DD"
	inputs[fieldDueDate].CharLimit = 10
	inputs[fieldDueDate].SetValue(d.DueDate)
	inputs[fieldTitle].Focus()
	m.editInputs = inputs
	m.editFocus = fieldTitle
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.activeEditor()
	if ed == nil {
		m.editing = editNone
		return m, nil
	}

	switch msg.String() {
	case "esc":
		ed.Cancel()
		m.editing = editNone
		m.clampCursor()
		return m, nil

	case "tab", "down":
		m.focusEditField((m.editFocus + 1) % fieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.focusEditField((m.editFocus + fieldCount - 1) % fieldCount)
		return m, textinput.Blink

	case "enter":
		m.syncDraft(ed)
		if err := ed.BeginSave(); err != nil {
			// Blank title: the editor stays open with its message set.
			return m, nil
		}
		return m.dispatchSave(ed)
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	m.syncDraft(ed)
	return m, cmd
}

func (m *appModel) focusEditField(i int) {
	m.editInputs[m.editFocus].Blur()
	m.editFocus = i
	m.editInputs[m.editFocus].Focus()
}

func (m *appModel) syncDraft(ed *collection.Editor) {
	ed.Update(func(d *collection.Draft) {
		d.Title = m.editInputs[fieldTitle].Value()
		d.Description = m.editInputs[fieldDescription].Value()
		d.Category = m.editInputs[fieldCategory].Value()
		d.DueDate = m.editInputs[fieldDueDate].Value()
	})
}

func (m appModel) dispatchSave(ed *collection.Editor) (tea.Model, tea.Cmd) {
	switch m.editing {
	case editTask:
		m.inflight.Begin(collection.OpSaveTask, ed.ID())
		return m, tea.Batch(saveTaskCmd(m.client, ed.ID(), ed.Draft()), m.spin.Tick)
	case editSubtask:
		m.inflight.Begin(collection.OpSaveSubtask, ed.ID())
		return m, tea.Batch(saveSubtaskCmd(m.client, m.editParent, ed.ID(), ed.Draft()), m.spin.Tick)
	case editAddSubtask:
		m.inflight.Begin(collection.OpAddSubtask, ed.ID())
		return m, tea.Batch(addSubtaskCmd(m.client, ed.ID(), ed.Draft()), m.spin.Tick)
	case editNewTask:
		m.inflight.Begin(collection.OpCreateTask, 0)
		return m, tea.Batch(createTaskCmd(m.client, ed.Draft()), m.spin.Tick)
	}
	return m, nil
}

func modalBody(kind modalKind, label string) (title, body, confirmLabel string) {
	switch kind {
	case modalDeleteTask:
		return "Delete task", fmt.Sprintf("Delete %q and all of its subtasks?", label), "Delete"
	case modalDeleteSubtask:
		return "Delete subtask", fmt.Sprintf("Delete %q?", label), "Delete"
	case modalCategorize:
		return "Categorize", fmt.Sprintf("Ask the assistant to categorize %q?", label), "Categorize"
	}
	return "", "", ""
}
