// Package mutate implements the entity mutators: each operation issues
// exactly one request and yields a result value whose Apply step
// reconciles the in-memory collection. Synchronous callers (the CLI)
// apply immediately; the TUI applies results from its update loop so all
// state changes stay on one logical thread. Every Apply is an existence-
// guarded no-op when its target has meanwhile disappeared.
package mutate

import (
	"context"

	"tareas-cli/internal/api"
	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"
)

type LoadTasksResult struct {
	Tasks []model.Task
}

// Apply replaces the entire collection. Applying the zero result installs
// the empty collection, which is also the documented failure behavior for
// the initial load (silent degrade, the view stays usable).
func (r LoadTasksResult) Apply(col *collection.Collection) {
	col.Replace(r.Tasks)
}

func LoadTasks(ctx context.Context, c *api.Client) (LoadTasksResult, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return LoadTasksResult{}, err
	}
	return LoadTasksResult{Tasks: tasks}, nil
}

type LoadCategoriesResult struct {
	Categories []model.Category
}

func (r LoadCategoriesResult) Apply(col *collection.Collection) {
	col.ReplaceCategories(r.Categories)
}

func LoadCategories(ctx context.Context, c *api.Client) (LoadCategoriesResult, error) {
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return LoadCategoriesResult{}, err
	}
	return LoadCategoriesResult{Categories: cats}, nil
}

// CreateTask submits a new task. There is no local reconciliation: the
// caller triggers a reload on success. On failure the caller keeps the
// entered draft.
func CreateTask(ctx context.Context, c *api.Client, d collection.Draft) (model.Task, error) {
	fields, err := draftFields(d)
	if err != nil {
		return model.Task{}, err
	}
	return c.CreateTask(ctx, fields)
}

type ToggleTaskResult struct {
	ID        int64
	Completed bool
}

// Apply patches only the completed flag of the matching task.
func (r ToggleTaskResult) Apply(col *collection.Collection) bool {
	return col.SetTaskCompleted(r.ID, r.Completed)
}

// ToggleTask submits the inverted completed flag. On failure the flag is
// left untouched; the caller's in-flight tracking disables the row's
// control for the duration.
func ToggleTask(ctx context.Context, c *api.Client, t model.Task) (ToggleTaskResult, error) {
	updated, err := c.PatchTask(ctx, t.ID, map[string]any{"completed": !t.Completed})
	if err != nil {
		return ToggleTaskResult{}, err
	}
	return ToggleTaskResult{ID: updated.ID, Completed: updated.Completed}, nil
}

type SaveTaskResult struct {
	Task model.Task
}

// Apply merges the server response into the matching entry.
func (r SaveTaskResult) Apply(col *collection.Collection) bool {
	return col.MergeTask(r.Task)
}

// SaveTask submits the draft fields for an existing task. The title must
// already be validated (Editor.BeginSave); a blank title here is rejected
// before any request is sent.
func SaveTask(ctx context.Context, c *api.Client, id int64, d collection.Draft) (SaveTaskResult, error) {
	fields, err := draftFields(d)
	if err != nil {
		return SaveTaskResult{}, err
	}
	updated, err := c.PatchTask(ctx, id, fields)
	if err != nil {
		return SaveTaskResult{}, err
	}
	return SaveTaskResult{Task: updated}, nil
}

type DeleteTaskResult struct {
	ID int64
}

// Apply removes the matching entry; its subtasks are removed with it.
func (r DeleteTaskResult) Apply(col *collection.Collection) bool {
	return col.RemoveTask(r.ID)
}

// DeleteTask issues the delete. Explicit user confirmation must have
// happened before this call.
func DeleteTask(ctx context.Context, c *api.Client, id int64) (DeleteTaskResult, error) {
	if err := c.DeleteTask(ctx, id); err != nil {
		return DeleteTaskResult{}, err
	}
	return DeleteTaskResult{ID: id}, nil
}

type CategorizeResult struct {
	Message string
	Reload  LoadTasksResult
}

// Apply installs the reloaded collection fetched after categorization.
func (r CategorizeResult) Apply(col *collection.Collection) {
	r.Reload.Apply(col)
}

// Categorize delegates category selection to the backend, then performs
// the full reload the operation requires. Explicit user confirmation must
// have happened before this call.
func Categorize(ctx context.Context, c *api.Client, id int64) (CategorizeResult, error) {
	message, err := c.CategorizeTask(ctx, id)
	if err != nil {
		return CategorizeResult{}, err
	}
	reload, err := LoadTasks(ctx, c)
	if err != nil {
		// The categorization itself succeeded; degrade like any load
		// failure and still present the message.
		return CategorizeResult{Message: message}, nil
	}
	return CategorizeResult{Message: message, Reload: reload}, nil
}
