package collection

import (
	"errors"
	"strconv"
	"strings"

	"tareas-cli/internal/model"
)

// ErrEditActive is returned when a second edit is started while one is
// already active at the same level. Single-selection editing is an
// invariant of the engine, not a UI convention.
var ErrEditActive = errors.New("another edit is already active")

// ErrNotEditing is returned for editor transitions that require an active
// edit.
var ErrNotEditing = errors.New("no edit in progress")

// TitleRequiredMessage is the inline validation message for a blank title.
const TitleRequiredMessage = "title is required"

// Draft is a transient working copy of the editable fields. Category and
// DueDate are kept as entered (category id digits, YYYY-MM-DD); conversion
// to wire values happens when the save request is built.
type Draft struct {
	Title       string
	Description string
	Category    string
	DueDate     string
}

// DraftFromTask captures a task's current field values, the due date
// falling back to the creation date like the display does.
func DraftFromTask(t model.Task) Draft {
	return Draft{
		Title:       t.Title,
		Description: t.Description,
		Category:    categoryDraftValue(t.Category),
		DueDate:     model.ToInputDate(t.DisplayDate()),
	}
}

func DraftFromSubtask(s model.Subtask) Draft {
	return Draft{
		Title:       s.Title,
		Description: s.Description,
		Category:    categoryDraftValue(s.Category),
		DueDate:     model.ToInputDate(s.DisplayDate()),
	}
}

func categoryDraftValue(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

type EditorState int

const (
	Viewing EditorState = iota
	Editing
	Saving
)

// Editor is the draft-editing state machine for one editing level (task
// edit, subtask edit, or subtask add). At most one entity is ever in the
// Editing/Saving states per editor.
type Editor struct {
	state      EditorState
	id         int64
	draft      Draft
	errMessage string
}

func (e *Editor) State() EditorState { return e.state }

// Active reports whether an edit (or save) is in progress.
func (e *Editor) Active() bool { return e.state != Viewing }

// ID is the entity being edited; for a subtask-add editor this is the
// parent task id.
func (e *Editor) ID() int64 { return e.id }

func (e *Editor) Draft() Draft { return e.draft }

// Err is the current inline message: a validation error or the failure
// from the last save attempt.
func (e *Editor) Err() string { return e.errMessage }

// Start captures a draft and enters Editing. Starting while another edit
// is active is rejected.
func (e *Editor) Start(id int64, draft Draft) error {
	if e.state != Viewing {
		return ErrEditActive
	}
	e.state = Editing
	e.id = id
	e.draft = draft
	e.errMessage = ""
	return nil
}

// Update mutates only the draft, never the underlying entity. Changing
// the title clears a pending validation error.
func (e *Editor) Update(fn func(*Draft)) {
	if e.state != Editing {
		return
	}
	before := e.draft.Title
	fn(&e.draft)
	if e.draft.Title != before {
		e.errMessage = ""
	}
}

// Cancel discards the draft without sending anything.
func (e *Editor) Cancel() {
	*e = Editor{}
}

// BeginSave validates the draft and enters Saving. A blank trimmed title
// blocks the transition: no request may be sent, the editor stays in
// Editing with an inline validation error.
func (e *Editor) BeginSave() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if strings.TrimSpace(e.draft.Title) == "" {
		e.errMessage = TitleRequiredMessage
		return errors.New(TitleRequiredMessage)
	}
	e.errMessage = ""
	e.state = Saving
	return nil
}

// SaveSucceeded discards the draft and returns to Viewing. The caller
// merges the server response into the collection.
func (e *Editor) SaveSucceeded() {
	*e = Editor{}
}

// SaveFailed keeps the draft and the user's input, surfacing the error
// inline; the editor drops back to Editing for a retry.
func (e *Editor) SaveFailed(message string) {
	if e.state != Saving {
		return
	}
	e.state = Editing
	if message == "" {
		message = "save failed"
	}
	e.errMessage = message
}
