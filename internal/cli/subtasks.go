package cli

import (
	"fmt"

	"tareas-cli/internal/collection"
	"tareas-cli/internal/model"
	"tareas-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newSubtasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtasks",
		Short: "Manage subtasks of a task",
	}
	cmd.AddCommand(newSubtasksAddCmd(app))
	cmd.AddCommand(newSubtasksToggleCmd(app))
	cmd.AddCommand(newSubtasksEditCmd(app))
	cmd.AddCommand(newSubtasksRmCmd(app))
	return cmd
}

// findSubtask locates a subtask and its parent in the loaded collection.
func findSubtask(col *collection.Collection, subID int64) (model.Task, model.Subtask, bool) {
	for _, t := range col.Tasks() {
		for _, s := range t.Subtasks {
			if s.ID == subID {
				return t, s, true
			}
		}
	}
	return model.Task{}, model.Subtask{}, false
}

func newSubtasksAddCmd(app *App) *cobra.Command {
	var (
		description string
		category    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			col, err := loadCollection(cmd, client)
			if err != nil {
				return err
			}
			if _, ok := col.Task(taskID); !ok {
				return mutate.NotFoundError{Kind: "task", ID: taskID}
			}
			res, err := mutate.AddSubtask(cmd.Context(), client, taskID, collection.Draft{
				Title:       args[1],
				Description: description,
				Category:    category,
				DueDate:     due,
			})
			if err != nil {
				return err
			}
			res.Apply(col)
			return writeOut(cmd, app, res.Subtask)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().StringVar(&category, "category", "", "Category id")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newSubtasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <subtask-id>",
		Short: "Flip a subtask's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			col, err := loadCollection(cmd, client)
			if err != nil {
				return err
			}
			parent, sub, ok := findSubtask(col, id)
			if !ok {
				return mutate.NotFoundError{Kind: "subtask", ID: id}
			}
			res, err := mutate.ToggleSubtask(cmd.Context(), client, parent.ID, sub)
			if err != nil {
				return err
			}
			res.Apply(col)
			_, updated, _ := findSubtask(col, id)
			return writeOut(cmd, app, updated)
		},
	}
}

func newSubtasksEditCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		category    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "edit <subtask-id>",
		Short: "Edit a subtask's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			col, err := loadCollection(cmd, client)
			if err != nil {
				return err
			}
			parent, sub, ok := findSubtask(col, id)
			if !ok {
				return mutate.NotFoundError{Kind: "subtask", ID: id}
			}

			draft := collection.DraftFromSubtask(sub)
			if cmd.Flags().Changed("title") {
				draft.Title = title
			}
			if cmd.Flags().Changed("description") {
				draft.Description = description
			}
			if cmd.Flags().Changed("category") {
				draft.Category = category
			}
			if cmd.Flags().Changed("due") {
				draft.DueDate = due
			}

			res, err := mutate.SaveSubtask(cmd.Context(), client, parent.ID, id, draft)
			if err != nil {
				return err
			}
			res.Apply(col)
			return writeOut(cmd, app, res.Subtask)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears)")
	cmd.Flags().StringVar(&category, "category", "", "New category id (empty clears)")
	cmd.Flags().StringVar(&due, "due", "", "New due date YYYY-MM-DD (empty clears)")
	return cmd
}

func newSubtasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <subtask-id>",
		Short: "Delete a subtask (asks for confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			col, err := loadCollection(cmd, client)
			if err != nil {
				return err
			}
			parent, sub, ok := findSubtask(col, id)
			if !ok {
				return mutate.NotFoundError{Kind: "subtask", ID: id}
			}
			if !confirm(cmd, app, fmt.Sprintf("Delete subtask %q?", sub.Title)) {
				return nil
			}
			res, err := mutate.DeleteSubtask(cmd.Context(), client, parent.ID, id)
			if err != nil {
				return err
			}
			res.Apply(col)
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}
}
