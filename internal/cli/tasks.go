package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"tareas-cli/internal/api"
	"tareas-cli/internal/collection"
	"tareas-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksCategorizeCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		completed bool
		pending   bool
		category  int64
		search    string
		sortCol   string
		desc      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (filtered and sorted client-side)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if completed && pending {
				return fmt.Errorf("--completed and --pending are mutually exclusive")
			}
			if sortCol != "" && !collection.ValidColumn(sortCol) {
				return fmt.Errorf("unknown sort column: %s", sortCol)
			}

			_, client, err := requireSession(app)
			if err != nil {
				return err
			}

			col := collection.New()
			res, err := mutate.LoadTasks(cmd.Context(), client)
			if err != nil {
				// Initial load failure degrades to an empty collection.
				mutate.LoadTasksResult{}.Apply(col)
			} else {
				res.Apply(col)
			}

			view := collection.View{Search: search}
			if completed {
				view.Completed = collection.FilterCompleted
			}
			if pending {
				view.Completed = collection.FilterPending
			}
			if cmd.Flags().Changed("category") {
				view.Category = &category
			}
			if sortCol != "" {
				view.SortColumn = collection.Column(sortCol)
				if desc {
					view.SortDir = collection.Descending
				}
			}

			return writeOut(cmd, app, view.Apply(col.Tasks()))
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed tasks")
	cmd.Flags().BoolVar(&pending, "pending", false, "Only pending tasks")
	cmd.Flags().Int64Var(&category, "category", 0, "Only tasks with this category id")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring over title and description")
	cmd.Flags().StringVar(&sortCol, "sort", "", "Sort column (completed|title|description|category_name|due_date)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		description string
		category    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			created, err := mutate.CreateTask(cmd.Context(), client, collection.Draft{
				Title:       args[0],
				Description: description,
				Category:    category,
				DueDate:     due,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	cmd.Flags().StringVar(&category, "category", "", "Category id")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's completed flag",
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
			t, ok := col.Task(id)
			if !ok {
				return mutate.NotFoundError{Kind: "task", ID: id}
			}
			res, err := mutate.ToggleTask(cmd.Context(), client, t)
			if err != nil {
				return err
			}
			res.Apply(col)
			updated, _ := col.Task(id)
			return writeOut(cmd, app, updated)
		},
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	var (
		title       string
		description string
		category    string
		due         string
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task's fields",
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
			t, ok := col.Task(id)
			if !ok {
				return mutate.NotFoundError{Kind: "task", ID: id}
			}

			// Start from the current values, overridden per flag; this is
			// the CLI rendition of the draft-editing flow.
			draft := collection.DraftFromTask(t)
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

			res, err := mutate.SaveTask(cmd.Context(), client, id, draft)
			if err != nil {
				return err
			}
			res.Apply(col)
			updated, _ := col.Task(id)
			return writeOut(cmd, app, updated)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears)")
	cmd.Flags().StringVar(&category, "category", "", "New category id (empty clears)")
	cmd.Flags().StringVar(&due, "due", "", "New due date YYYY-MM-DD (empty clears)")
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task (asks for confirmation)",
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
			t, ok := col.Task(id)
			if !ok {
				return mutate.NotFoundError{Kind: "task", ID: id}
			}
			if !confirm(cmd, app, fmt.Sprintf("Delete task %q?", t.Title)) {
				return nil
			}
			res, err := mutate.DeleteTask(cmd.Context(), client, id)
			if err != nil {
				return err
			}
			res.Apply(col)
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}
}

func newTasksCategorizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <task-id>",
		Short: "Ask the backend AI to categorize a task (asks for confirmation)",
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
			t, ok := col.Task(id)
			if !ok {
				return mutate.NotFoundError{Kind: "task", ID: id}
			}
			if !confirm(cmd, app, fmt.Sprintf("Ask the AI to categorize %q?", t.Title)) {
				return nil
			}
			res, err := mutate.Categorize(cmd.Context(), client, id)
			if err != nil {
				return err
			}
			res.Apply(col)
			updated, _ := col.Task(id)
			return writeOut(cmd, app, map[string]any{"message": res.Message, "task": updated})
		},
	}
}

func loadCollection(cmd *cobra.Command, client *api.Client) (*collection.Collection, error) {
	col := collection.New()
	res, err := mutate.LoadTasks(cmd.Context(), client)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	res.Apply(col)
	return col, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}

// confirm asks on stderr and reads one line; --yes skips the prompt.
// Anything but y/yes declines.
func confirm(cmd *cobra.Command, app *App, message string) bool {
	if app.AssumeYes {
		return true
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", message)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
