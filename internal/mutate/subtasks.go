package mutate

import (
	"context"

	"tareas-cli/internal/api"
	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"
)

type AddSubtaskResult struct {
	TaskID  int64
	Subtask model.Subtask
}

// Apply appends the created subtask to its parent's sequence. Other
// tasks' subtasks are untouched.
func (r AddSubtaskResult) Apply(col *collection.Collection) bool {
	return col.AppendSubtask(r.TaskID, r.Subtask)
}

// AddSubtask creates a subtask under the given parent. On failure the
// caller keeps the entered draft for a retry.
func AddSubtask(ctx context.Context, c *api.Client, taskID int64, d collection.Draft) (AddSubtaskResult, error) {
	fields, err := draftFields(d)
	if err != nil {
		return AddSubtaskResult{}, err
	}
	fields["task"] = taskID
	created, err := c.CreateSubtask(ctx, fields)
	if err != nil {
		return AddSubtaskResult{}, err
	}
	return AddSubtaskResult{TaskID: taskID, Subtask: created}, nil
}

type ToggleSubtaskResult struct {
	TaskID    int64
	ID        int64
	Completed bool
}

func (r ToggleSubtaskResult) Apply(col *collection.Collection) bool {
	return col.SetSubtaskCompleted(r.TaskID, r.ID, r.Completed)
}

func ToggleSubtask(ctx context.Context, c *api.Client, taskID int64, s model.Subtask) (ToggleSubtaskResult, error) {
	updated, err := c.PatchSubtask(ctx, s.ID, map[string]any{"completed": !s.Completed})
	if err != nil {
		return ToggleSubtaskResult{}, err
	}
	return ToggleSubtaskResult{TaskID: taskID, ID: updated.ID, Completed: updated.Completed}, nil
}

type SaveSubtaskResult struct {
	TaskID  int64
	Subtask model.Subtask
}

func (r SaveSubtaskResult) Apply(col *collection.Collection) bool {
	return col.MergeSubtask(r.TaskID, r.Subtask)
}

func SaveSubtask(ctx context.Context, c *api.Client, taskID, id int64, d collection.Draft) (SaveSubtaskResult, error) {
	fields, err := draftFields(d)
	if err != nil {
		return SaveSubtaskResult{}, err
	}
	updated, err := c.PatchSubtask(ctx, id, fields)
	if err != nil {
		return SaveSubtaskResult{}, err
	}
	return SaveSubtaskResult{TaskID: taskID, Subtask: updated}, nil
}

type DeleteSubtaskResult struct {
	TaskID int64
	ID     int64
}

func (r DeleteSubtaskResult) Apply(col *collection.Collection) bool {
	return col.RemoveSubtask(r.TaskID, r.ID)
}

// DeleteSubtask issues the delete after the caller's explicit
// confirmation.
func DeleteSubtask(ctx context.Context, c *api.Client, taskID, id int64) (DeleteSubtaskResult, error) {
	if err := c.DeleteSubtask(ctx, id); err != nil {
		return DeleteSubtaskResult{}, err
	}
	return DeleteSubtaskResult{TaskID: taskID, ID: id}, nil
}
