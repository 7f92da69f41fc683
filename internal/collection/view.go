package collection

import (
	"sort"
	"strings"

	"tareas-cli/internal/model"
)

// CompletedFilter is the tri-state completion filter.
type CompletedFilter int

const (
	FilterAll CompletedFilter = iota
	FilterCompleted
	FilterPending
)

// Column names a sortable table column. The values match the wire field
// names so CLI flags can pass them through directly.
type Column string

const (
	ColumnNone        Column = ""
	ColumnCompleted   Column = "completed"
	ColumnTitle       Column = "title"
	ColumnDescription Column = "description"
	ColumnCategory    Column = "category_name"
	ColumnDueDate     Column = "due_date"
	ColumnCreatedAt   Column = "created_at"
)

// Columns lists the sortable columns in table order.
var Columns = []Column{ColumnCompleted, ColumnTitle, ColumnDescription, ColumnCategory, ColumnDueDate}

// ValidColumn reports whether name is a known sortable column.
func ValidColumn(name string) bool {
	switch Column(name) {
	case ColumnCompleted, ColumnTitle, ColumnDescription, ColumnCategory, ColumnDueDate, ColumnCreatedAt:
		return true
	}
	return false
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// View is the filter/sort state over the collection. It is purely a view
// concern: Apply derives a projection and never mutates the underlying
// tasks. Subtasks are not filtered or sorted independently; they travel
// with their parent in stored order.
type View struct {
	Completed  CompletedFilter
	Category   *int64
	Search     string
	SortColumn Column
	SortDir    Direction
}

// Apply recomputes the displayed projection: filter, then stable sort.
func (v View) Apply(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if v.matches(t) {
			out = append(out, t)
		}
	}
	if v.SortColumn == ColumnNone {
		return out
	}
	mul := 1
	if v.SortDir == Descending {
		mul = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return mul*compareTasks(v.SortColumn, out[i], out[j]) < 0
	})
	return out
}

func (v View) matches(t model.Task) bool {
	switch v.Completed {
	case FilterCompleted:
		if !t.Completed {
			return false
		}
	case FilterPending:
		if t.Completed {
			return false
		}
	}
	if v.Category != nil {
		if t.Category == nil || *t.Category != *v.Category {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(v.Search)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// compareTasks orders a before b when negative. Date columns compare by
// instant with the absent date sorting earliest; completed compares
// false < true; everything else compares case-folded strings with the
// empty string for a missing value.
func compareTasks(col Column, a, b model.Task) int {
	switch col {
	case ColumnDueDate, ColumnCreatedAt:
		ta := dateInstant(col, a)
		tb := dateInstant(col, b)
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		}
		return 0
	case ColumnCompleted:
		return boolToInt(a.Completed) - boolToInt(b.Completed)
	default:
		return strings.Compare(stringKey(col, a), stringKey(col, b))
	}
}

func dateInstant(col Column, t model.Task) int64 {
	var raw string
	if col == ColumnDueDate {
		if t.DueDate != nil {
			raw = *t.DueDate
		}
	} else {
		raw = t.CreatedAt
	}
	parsed, ok := model.ParseDate(raw)
	if !ok {
		return 0
	}
	return parsed.UnixMilli()
}

func stringKey(col Column, t model.Task) string {
	var v string
	switch col {
	case ColumnTitle:
		v = t.Title
	case ColumnDescription:
		v = t.Description
	case ColumnCategory:
		v = t.CategoryName
	}
	return strings.ToLower(v)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CycleSort applies a header click: a new column sorts ascending, a
// repeat click flips the direction.
func (v *View) CycleSort(col Column) {
	if v.SortColumn == col {
		if v.SortDir == Ascending {
			v.SortDir = Descending
		} else {
			v.SortDir = Ascending
		}
		return
	}
	v.SortColumn = col
	v.SortDir = Ascending
}

// Clear resets all filters and sorting.
func (v *View) Clear() {
	*v = View{}
}
