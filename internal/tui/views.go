package tui

import (
	"fmt"
	"strings"

	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

const (
	colCheck    = 4
	colCategory = 14
	colDue      = 12
	detailMin   = 110
	detailWidth = 40
)

func (m appModel) viewTasks() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	if m.modal != modalNone {
		title, body, confirm := modalBody(m.modal, m.modalLabel)
		box := renderConfirmModal(width, title, body, confirm, "Cancel", m.modalFocus)
		if m.height > 0 {
			return lipgloss.Place(width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return box
	}

	tableWidth := width
	showDetail := width >= detailMin
	if showDetail {
		tableWidth = width - detailWidth - 2
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(tableWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar(tableWidth))
	b.WriteString("\n")
	if m.editing == editNewTask {
		b.WriteString(styleMuted().Render("new task"))
		b.WriteString("\n")
		b.WriteString(m.renderEditForm(tableWidth, &m.newEd, 0))
		b.WriteString("\n")
	}
	b.WriteString(m.renderColumnHeaders(tableWidth))
	b.WriteString("\n")
	b.WriteString(m.renderRows(tableWidth))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(tableWidth))

	main := b.String()
	if showDetail {
		if detail := m.renderDetail(detailWidth); detail != "" {
			main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", detail)
		}
	}
	return main
}

func (m appModel) renderHeader(width int) string {
	title := lipgloss.NewStyle().Bold(true).Render("tareas")
	who := ""
	if email := m.sessions.Current().Email; email != "" {
		who = styleMuted().Render("  " + email)
	}
	busy := ""
	if m.loading || m.inflight.Any() {
		busy = "  " + m.spin.View()
	}
	return cellText(width, title+who+busy)
}

func (m appModel) renderFilterBar(width int) string {
	parts := []string{completedFilterLabel(m.view.Completed)}
	if m.view.Category != nil {
		name := m.col.CategoryName(*m.view.Category)
		if name == "" {
			name = fmt.Sprintf("#%d", *m.view.Category)
		}
		parts = append(parts, "category: "+name)
	} else {
		parts = append(parts, "category: all")
	}
	bar := styleMuted().Render(strings.Join(parts, "   "))

	if m.searching {
		return bar + "\n" + renderInputLine(width, m.searchInput.View())
	}
	if m.view.Search != "" {
		return bar + "\n" + styleMuted().Render("search: ") + m.view.Search
	}
	return bar
}

func completedFilterLabel(f collection.CompletedFilter) string {
	switch f {
	case collection.FilterCompleted:
		return "showing: completed"
	case collection.FilterPending:
		return "showing: pending"
	}
	return "showing: all"
}

func (m appModel) renderColumnHeaders(width int) string {
	titleW := titleColumnWidth(width)
	cells := []string{
		cellText(colCheck, m.sortMark(collection.ColumnCompleted, "1 ✓")),
		cellText(titleW, m.sortMark(collection.ColumnTitle, "2 title")),
		cellText(colCategory, m.sortMark(collection.ColumnCategory, "4 category")),
		cellText(colDue, m.sortMark(collection.ColumnDueDate, "5 due")),
	}
	return styleMuted().Render(strings.Join(cells, " "))
}

func (m appModel) sortMark(col collection.Column, label string) string {
	if m.view.SortColumn != col {
		return label
	}
	if m.view.SortDir == collection.Ascending {
		return label + " ↑"
	}
	return label + " ↓"
}

func titleColumnWidth(width int) int {
	w := width - colCheck - colCategory - colDue - 3
	if w < 10 {
		w = 10
	}
	return w
}

func (m appModel) renderRows(width int) string {
	rows := m.rows()
	if len(rows) == 0 {
		if m.loading {
			return styleMuted().Render("loading…")
		}
		return styleMuted().Render("no tasks match the current filters")
	}

	var out []string
	for i, r := range rows {
		selected := i == m.cursor
		switch r.kind {
		case rowTask:
			if m.editing == editTask && m.taskEd.ID() == r.task.ID {
				out = append(out, m.renderEditForm(width, &m.taskEd, 0))
				continue
			}
			out = append(out, m.renderTaskRow(width, r.task, selected))
		case rowSubtask:
			if m.editing == editSubtask && m.subEd.ID() == r.sub.ID {
				out = append(out, m.renderEditForm(width, &m.subEd, 2))
				continue
			}
			out = append(out, m.renderSubtaskRow(width, r.sub, selected))
		case rowAddForm:
			out = append(out, m.renderEditForm(width, &m.addEd, 2))
		}
	}
	return strings.Join(out, "\n")
}

func (m appModel) renderTaskRow(width int, t model.Task, selected bool) string {
	titleW := titleColumnWidth(width)
	check := "[ ]"
	if t.Completed {
		check = "[✓]"
	}
	busy := m.inflight.Busy(collection.OpToggleTask, t.ID) ||
		m.inflight.Busy(collection.OpDeleteTask, t.ID) ||
		m.inflight.Busy(collection.OpCategorize, t.ID)
	if busy {
		check = " … "
	}
	cells := []string{
		cellText(colCheck, check),
		cellText(titleW, t.Title),
		cellText(colCategory, emptyAsDash(t.CategoryName)),
		cellText(colDue, model.FormatDate(t.DisplayDate())),
	}
	line := strings.Join(cells, " ")
	switch {
	case selected:
		return styleSelected().Render(line)
	case t.Completed:
		return styleMuted().Render(line)
	}
	return line
}

func (m appModel) renderSubtaskRow(width int, s model.Subtask, selected bool) string {
	titleW := titleColumnWidth(width)
	check := " · "
	if s.Completed {
		check = " ✓ "
	}
	if m.inflight.Busy(collection.OpToggleSubtask, s.ID) ||
		m.inflight.Busy(collection.OpDeleteSubtask, s.ID) {
		check = " … "
	}
	cells := []string{
		cellText(colCheck, check),
		cellText(titleW, "  "+s.Title),
		cellText(colCategory, ""),
		cellText(colDue, model.FormatDate(s.DisplayDate())),
	}
	line := strings.Join(cells, " ")
	switch {
	case selected:
		return styleSelected().Render(line)
	case s.Completed:
		return styleMuted().Render(line)
	}
	return line
}

func (m appModel) renderEditForm(width int, ed *collection.Editor, indent int) string {
	pad := strings.Repeat(" ", indent)
	inner := width - indent - 2
	if inner < 20 {
		inner = 20
	}
	labels := []string{"title", "desc ", "cat  ", "due  "}
	var lines []string
	for i, in := range m.editInputs {
		lines = append(lines, pad+styleMuted().Render(labels[i]+" ")+renderInputLine(inner-7, in.View()))
	}
	switch {
	case ed.State() == collection.Saving:
		lines = append(lines, pad+m.spin.View()+" saving…")
	case ed.Err() != "":
		lines = append(lines, pad+styleError().Render(ed.Err()))
	default:
		lines = append(lines, pad+styleMuted().Render("enter: save   esc: cancel   tab: next field"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderDetail(width int) string {
	r, ok := m.currentRow()
	if !ok || r.kind != rowTask {
		return ""
	}
	t := r.task
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(t.Title))
	b.WriteString("\n")
	meta := []string{"due " + model.FormatDate(t.DisplayDate())}
	if t.CategoryName != "" {
		meta = append(meta, t.CategoryName)
	}
	b.WriteString(styleMuted().Render(strings.Join(meta, " · ")))
	b.WriteString("\n")
	if strings.TrimSpace(t.Description) != "" {
		b.WriteString(renderMarkdown(t.Description, width-4))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1).
		Width(width).
		Render(b.String())
}

func (m appModel) renderFooter(width int) string {
	if m.status != "" {
		if m.statusErr {
			return styleError().Render(cellText(width, m.status))
		}
		return cellText(width, m.status)
	}
	help := "n: new  space: toggle  e: edit  a: subtask  d: delete  g: categorize  /: search  f/c: filter  x: clear  r: reload  q: quit"
	return styleMuted().Render(cellText(width, help))
}
