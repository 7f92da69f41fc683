package tui

import (
	"context"

	"tareas-cli/internal/api"
	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"
	"tareas-cli/internal/mutate"

	tea "github.com/charmbracelet/bubbletea"
)

// Command-result messages. Every network call runs inside a tea.Cmd;
// the reconciliation step happens in Update when the message arrives, so
// state changes stay on the program's single logical thread.

type loginDoneMsg struct {
	token string
	email string
	err   error
}

type tasksLoadedMsg struct {
	res mutate.LoadTasksResult
	err error
}

type categoriesLoadedMsg struct {
	res mutate.LoadCategoriesResult
	err error
}

type createTaskDoneMsg struct {
	task model.Task
	err  error
}

type toggleTaskDoneMsg struct {
	id  int64
	res mutate.ToggleTaskResult
	err error
}

type saveTaskDoneMsg struct {
	id  int64
	res mutate.SaveTaskResult
	err error
}

type deleteTaskDoneMsg struct {
	id  int64
	res mutate.DeleteTaskResult
	err error
}

type categorizeDoneMsg struct {
	id  int64
	res mutate.CategorizeResult
	err error
}

type addSubtaskDoneMsg struct {
	taskID int64
	res    mutate.AddSubtaskResult
	err    error
}

type toggleSubtaskDoneMsg struct {
	id  int64
	res mutate.ToggleSubtaskResult
	err error
}

type saveSubtaskDoneMsg struct {
	id  int64
	res mutate.SaveSubtaskResult
	err error
}

type deleteSubtaskDoneMsg struct {
	id  int64
	res mutate.DeleteSubtaskResult
	err error
}

func loginCmd(c *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		token, tokenEmail, err := c.Login(context.Background(), email, password)
		if tokenEmail == "" {
			tokenEmail = email
		}
		return loginDoneMsg{token: token, email: tokenEmail, err: err}
	}
}

func loadTasksCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.LoadTasks(context.Background(), c)
		return tasksLoadedMsg{res: res, err: err}
	}
}

func loadCategoriesCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.LoadCategories(context.Background(), c)
		return categoriesLoadedMsg{res: res, err: err}
	}
}

func createTaskCmd(c *api.Client, d collection.Draft) tea.Cmd {
	return func() tea.Msg {
		task, err := mutate.CreateTask(context.Background(), c, d)
		return createTaskDoneMsg{task: task, err: err}
	}
}

func toggleTaskCmd(c *api.Client, t model.Task) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.ToggleTask(context.Background(), c, t)
		return toggleTaskDoneMsg{id: t.ID, res: res, err: err}
	}
}

func saveTaskCmd(c *api.Client, id int64, d collection.Draft) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.SaveTask(context.Background(), c, id, d)
		return saveTaskDoneMsg{id: id, res: res, err: err}
	}
}

func deleteTaskCmd(c *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.DeleteTask(context.Background(), c, id)
		return deleteTaskDoneMsg{id: id, res: res, err: err}
	}
}

func categorizeCmd(c *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.Categorize(context.Background(), c, id)
		return categorizeDoneMsg{id: id, res: res, err: err}
	}
}

func addSubtaskCmd(c *api.Client, taskID int64, d collection.Draft) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.AddSubtask(context.Background(), c, taskID, d)
		return addSubtaskDoneMsg{taskID: taskID, res: res, err: err}
	}
}

func toggleSubtaskCmd(c *api.Client, taskID int64, s model.Subtask) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.ToggleSubtask(context.Background(), c, taskID, s)
		return toggleSubtaskDoneMsg{id: s.ID, res: res, err: err}
	}
}

func saveSubtaskCmd(c *api.Client, taskID, id int64, d collection.Draft) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.SaveSubtask(context.Background(), c, taskID, id, d)
		return saveSubtaskDoneMsg{id: id, res: res, err: err}
	}
}

func deleteSubtaskCmd(c *api.Client, taskID, id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := mutate.DeleteSubtask(context.Background(), c, taskID, id)
		return deleteSubtaskDoneMsg{id: id, res: res, err: err}
	}
}
