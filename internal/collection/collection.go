package collection

import "tareas-cli/internal/model"

// Collection owns the single in-memory task list plus the category
// reference data. All mutation goes through the reconcile methods below;
// each one reports false (and changes nothing) when its target no longer
// exists, so a late response for a deleted entity is harmless.
type Collection struct {
	tasks      []model.Task
	categories []model.Category
}

func New() *Collection {
	return &Collection{}
}

// Replace swaps in a freshly loaded task list. Duplicate ids are dropped
// keeping the first occurrence; id uniqueness is an invariant of the
// collection.
func (c *Collection) Replace(tasks []model.Task) {
	seen := make(map[int64]bool, len(tasks))
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	c.tasks = out
}

// Tasks returns the live task slice. Callers must not reorder or mutate
// it; derived projections are the view's job.
func (c *Collection) Tasks() []model.Task {
	return c.tasks
}

func (c *Collection) Len() int {
	return len(c.tasks)
}

// Task looks up a task by id.
func (c *Collection) Task(id int64) (model.Task, bool) {
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// SetTaskCompleted patches only the completed flag of the matching task.
func (c *Collection) SetTaskCompleted(id int64, completed bool) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks[i].Completed = completed
			return true
		}
	}
	return false
}

// MergeTask merges a server response into the matching entry. The patch
// response does not echo subtasks, so the existing sequence is kept when
// the response carries none.
func (c *Collection) MergeTask(updated model.Task) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == updated.ID {
			if updated.Subtasks == nil {
				updated.Subtasks = c.tasks[i].Subtasks
			}
			c.tasks[i] = updated
			return true
		}
	}
	return false
}

// RemoveTask removes the matching entry; its subtasks go with it.
func (c *Collection) RemoveTask(id int64) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// AppendSubtask appends a created subtask to its parent's sequence.
func (c *Collection) AppendSubtask(taskID int64, sub model.Subtask) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == taskID {
			c.tasks[i].Subtasks = append(c.tasks[i].Subtasks, sub)
			return true
		}
	}
	return false
}

// MergeSubtask replaces the matching subtask under the given parent with
// the server response.
func (c *Collection) MergeSubtask(taskID int64, sub model.Subtask) bool {
	for i := range c.tasks {
		if c.tasks[i].ID != taskID {
			continue
		}
		for j := range c.tasks[i].Subtasks {
			if c.tasks[i].Subtasks[j].ID == sub.ID {
				c.tasks[i].Subtasks[j] = sub
				return true
			}
		}
		return false
	}
	return false
}

// SetSubtaskCompleted patches only the completed flag of the matching
// subtask under the given parent.
func (c *Collection) SetSubtaskCompleted(taskID, subID int64, completed bool) bool {
	for i := range c.tasks {
		if c.tasks[i].ID != taskID {
			continue
		}
		for j := range c.tasks[i].Subtasks {
			if c.tasks[i].Subtasks[j].ID == subID {
				c.tasks[i].Subtasks[j].Completed = completed
				return true
			}
		}
		return false
	}
	return false
}

// RemoveSubtask removes the matching subtask from its parent's sequence.
func (c *Collection) RemoveSubtask(taskID, subID int64) bool {
	for i := range c.tasks {
		if c.tasks[i].ID != taskID {
			continue
		}
		for j := range c.tasks[i].Subtasks {
			if c.tasks[i].Subtasks[j].ID == subID {
				c.tasks[i].Subtasks = append(c.tasks[i].Subtasks[:j], c.tasks[i].Subtasks[j+1:]...)
				return true
			}
		}
		return false
	}
	return false
}

// ReplaceCategories swaps in the category reference list.
func (c *Collection) ReplaceCategories(cats []model.Category) {
	c.categories = cats
}

func (c *Collection) Categories() []model.Category {
	return c.categories
}

// CategoryName resolves a category id to its label; empty when unknown.
func (c *Collection) CategoryName(id int64) string {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat.Name
		}
	}
	return ""
}
