package model

// Task is a top-level to-do item as served by the API. Dates travel as
// strings on the wire: due_date is date-only (YYYY-MM-DD), created_at is a
// full ISO timestamp. See dates.go for parsing/formatting helpers.
type Task struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Completed    bool      `json:"completed"`
	Category     *int64    `json:"category"`
	CategoryName string    `json:"category_name,omitempty"`
	DueDate      *string   `json:"due_date,omitempty"`
	CreatedAt    string    `json:"created_at,omitempty"`
	Subtasks     []Subtask `json:"subtasks,omitempty"`
}

// Subtask belongs to exactly one task for its lifetime; the parent id is
// only present on the wire ("task"), association in memory is via the
// parent's Subtasks slice.
type Subtask struct {
	ID           int64   `json:"id"`
	TaskID       int64   `json:"task"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Completed    bool    `json:"completed"`
	Category     *int64  `json:"category"`
	CategoryName string  `json:"category_name,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Category is read-only reference data; fetched, never mutated from the client.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DisplayDate is the date shown for a row: the due date when set,
// otherwise the creation date.
func (t Task) DisplayDate() string {
	if t.DueDate != nil && *t.DueDate != "" {
		return *t.DueDate
	}
	return t.CreatedAt
}

func (s Subtask) DisplayDate() string {
	if s.DueDate != nil && *s.DueDate != "" {
		return *s.DueDate
	}
	return s.CreatedAt
}
