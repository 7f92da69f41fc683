package collection

import (
	"testing"

	"tareas-cli/internal/model"
)

func ptrInt64(v int64) *int64 { return &v }

func ptrStr(s string) *string { return &s }

func fixtureTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "Water the plants", Completed: false, Category: ptrInt64(10), CategoryName: "Home", DueDate: ptrStr("2024-05-01"), CreatedAt: "2024-01-01T09:00:00Z"},
		{ID: 2, Title: "Call Bob", Description: "about the garden fence", Completed: true, Category: ptrInt64(20), CategoryName: "Calls", CreatedAt: "2024-01-02T09:00:00Z"},
		{ID: 3, Title: "water heater service", Completed: true, Category: ptrInt64(10), CategoryName: "Home", DueDate: ptrStr("2024-04-01"), CreatedAt: "2024-01-03T09:00:00Z"},
	}
}

func ids(tasks []model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func wantIDs(t *testing.T, got []model.Task, want ...int64) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func TestViewCompletedFilter(t *testing.T) {
	t.Parallel()

	tasks := fixtureTasks()

	v := View{Completed: FilterPending}
	wantIDs(t, v.Apply(tasks), 1)

	v.Completed = FilterCompleted
	wantIDs(t, v.Apply(tasks), 2, 3)

	v.Completed = FilterAll
	wantIDs(t, v.Apply(tasks), 1, 2, 3)
}

func TestViewCategoryFilter(t *testing.T) {
	t.Parallel()

	v := View{Category: ptrInt64(10)}
	wantIDs(t, v.Apply(fixtureTasks()), 1, 3)

	v.Category = ptrInt64(99)
	wantIDs(t, v.Apply(fixtureTasks()))
}

func TestViewSearchIsCaseInsensitiveOverTitleAndDescription(t *testing.T) {
	t.Parallel()

	v := View{Search: "bob"}
	wantIDs(t, v.Apply(fixtureTasks()), 2)

	// Description matches too.
	v.Search = "GARDEN"
	wantIDs(t, v.Apply(fixtureTasks()), 2)

	// Leading/trailing whitespace in the query is ignored.
	v.Search = "  water  "
	wantIDs(t, v.Apply(fixtureTasks()), 1, 3)
}

func TestViewFiltersCompose(t *testing.T) {
	t.Parallel()

	v := View{Completed: FilterCompleted, Category: ptrInt64(10), Search: "water"}
	wantIDs(t, v.Apply(fixtureTasks()), 3)
}

func TestViewApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tasks := fixtureTasks()
	v := View{SortColumn: ColumnTitle, SortDir: Descending}
	v.Apply(tasks)
	wantIDs(t, tasks, 1, 2, 3)
}

func TestViewSortByTitleFoldsCase(t *testing.T) {
	t.Parallel()

	v := View{SortColumn: ColumnTitle, SortDir: Ascending}
	// "Call Bob" < "Water the plants" ~ "water heater..." case-folded;
	// "water heater service" < "water the plants".
	wantIDs(t, v.Apply(fixtureTasks()), 2, 3, 1)

	v.SortDir = Descending
	wantIDs(t, v.Apply(fixtureTasks()), 1, 3, 2)
}

func TestViewSortByDueDateTreatsAbsentAsOldest(t *testing.T) {
	t.Parallel()

	v := View{SortColumn: ColumnDueDate, SortDir: Ascending}
	tasks := []model.Task{
		{ID: 1, DueDate: ptrStr("2024-05-01")},
		{ID: 2}, // no date at all
		{ID: 3, DueDate: ptrStr("2024-04-01")},
	}
	wantIDs(t, v.Apply(tasks), 2, 3, 1)
}

func TestViewSortByCompleted(t *testing.T) {
	t.Parallel()

	v := View{SortColumn: ColumnCompleted, SortDir: Ascending}
	// Pending sorts before completed; equal keys keep input order.
	wantIDs(t, v.Apply(fixtureTasks()), 1, 2, 3)

	v.SortDir = Descending
	wantIDs(t, v.Apply(fixtureTasks()), 2, 3, 1)
}

func TestViewSortIsStable(t *testing.T) {
	t.Parallel()

	tasks := []model.Task{
		{ID: 1, Title: "same"},
		{ID: 2, Title: "same"},
		{ID: 3, Title: "same"},
	}
	v := View{SortColumn: ColumnTitle, SortDir: Descending}
	wantIDs(t, v.Apply(tasks), 1, 2, 3)
}

func TestCycleSort(t *testing.T) {
	t.Parallel()

	var v View
	v.CycleSort(ColumnTitle)
	if v.SortColumn != ColumnTitle || v.SortDir != Ascending {
		t.Fatalf("after first cycle: %+v", v)
	}
	v.CycleSort(ColumnTitle)
	if v.SortDir != Descending {
		t.Fatalf("after second cycle: %+v", v)
	}
	v.CycleSort(ColumnDueDate)
	if v.SortColumn != ColumnDueDate || v.SortDir != Ascending {
		t.Fatalf("switching column must reset to ascending: %+v", v)
	}
}

func TestViewClear(t *testing.T) {
	t.Parallel()

	v := View{Completed: FilterPending, Category: ptrInt64(1), Search: "x", SortColumn: ColumnTitle, SortDir: Descending}
	v.Clear()
	if v.Completed != FilterAll || v.Category != nil || v.Search != "" {
		t.Fatalf("filters survived Clear: %+v", v)
	}
	if v.SortColumn != ColumnNone || v.SortDir != Ascending {
		t.Fatalf("Clear must also reset the sort: %+v", v)
	}
}
