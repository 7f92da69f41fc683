package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// runCmd executes the root command with the given args against a fake
// backend, returning captured stdout.
func runCmd(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--base-url", baseURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const tasksJSON = `[
  {"id":1,"title":"Water the plants","completed":false,"category":10,"category_name":"Home","due_date":"2024-05-01","created_at":"2024-01-01T09:00:00Z","subtasks":[
    {"id":11,"task":1,"title":"Fill the can","completed":false,"category":null}
  ]},
  {"id":2,"title":"Call Bob","description":"about the fence","completed":true,"category":20,"category_name":"Calls","created_at":"2024-01-02T09:00:00Z"}
]`

func fakeServer(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func loginAgainst(t *testing.T, url string) {
	t.Helper()
	if _, err := runCmd(t, url, "", "login", "ana@example.com", "--password", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func authMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api-token-auth/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Unable to log in with provided credentials."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","email":"ana@example.com"}`))
	})
	return mux
}

func TestLoginStoresSessionAndWhoamiSeesIt(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, authMux(t))

	out, err := runCmd(t, url, "", "login", "ana@example.com", "--password", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, `"ok":true`) {
		t.Fatalf("login output = %q", out)
	}

	out, err = runCmd(t, url, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"authenticated":true`) || !strings.Contains(out, "ana@example.com") {
		t.Fatalf("whoami output = %q", out)
	}
}

func TestLoginReadsPasswordFromPipedStdin(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, authMux(t))

	if _, err := runCmd(t, url, "pw\n", "login", "ana@example.com"); err != nil {
		t.Fatalf("login with piped password: %v", err)
	}
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, authMux(t))

	_, err := runCmd(t, url, "", "login", "ana@example.com", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Unable to log in") {
		t.Fatalf("err = %v", err)
	}

	// The failed attempt must not leave a session behind.
	out, err := runCmd(t, url, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"authenticated":false`) {
		t.Fatalf("whoami output = %q", out)
	}
}

func TestTasksListRequiresLogin(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())

	_, err := runCmd(t, "http://127.0.0.1:0", "", "tasks", "list")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("err = %v", err)
	}
}

func TestTasksListFiltersAndSorts(t *testing.T) {
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasksJSON))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	out, err := runCmd(t, url, "", "tasks", "list", "--pending")
	if err != nil {
		t.Fatalf("list --pending: %v", err)
	}
	var tasks []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("output not JSON: %v\n%s", err, out)
	}
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Fatalf("pending tasks = %+v", tasks)
	}

	out, err = runCmd(t, url, "", "tasks", "list", "--search", "bob")
	if err != nil {
		t.Fatalf("list --search: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Fatalf("search result = %+v", tasks)
	}

	out, err = runCmd(t, url, "", "tasks", "list", "--sort", "title", "--desc")
	if err != nil {
		t.Fatalf("list --sort: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 2 {
		t.Fatalf("sorted tasks = %+v", tasks)
	}
}

func TestTasksListRejectsConflictingFilters(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())

	_, err := runCmd(t, "http://127.0.0.1:0", "", "tasks", "list", "--completed", "--pending")
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("err = %v", err)
	}

	_, err = runCmd(t, "http://127.0.0.1:0", "", "tasks", "list", "--sort", "priority")
	if err == nil || !strings.Contains(err.Error(), "unknown sort column") {
		t.Fatalf("err = %v", err)
	}
}

func TestTasksAddSendsDraftFields(t *testing.T) {
	var sent map[string]json.RawMessage
	mux := authMux(t)
	mux.HandleFunc("POST /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		_, _ = w.Write([]byte(`{"id":3,"title":"Buy milk","completed":false,"category":null,"due_date":"2026-09-05"}`))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	out, err := runCmd(t, url, "", "tasks", "add", "Buy milk", "--due", "2026-09-05")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if string(sent["title"]) != `"Buy milk"` || string(sent["due_date"]) != `"2026-09-05"` {
		t.Fatalf("payload = %v", sent)
	}
	// Omitted optionals go as explicit nulls.
	if string(sent["category"]) != "null" || string(sent["description"]) != "null" {
		t.Fatalf("payload = %v", sent)
	}
	if !strings.Contains(out, `"id":3`) {
		t.Fatalf("output = %q", out)
	}
}

func TestTasksAddRejectsBlankTitleLocally(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, authMux(t))
	loginAgainst(t, url)

	_, err := runCmd(t, url, "", "tasks", "add", "   ")
	if err == nil || !strings.Contains(err.Error(), "title is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestDocsCommand(t *testing.T) {
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())

	out, err := runCmd(t, "http://127.0.0.1:0", "", "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(out, "getting-started") {
		t.Fatalf("topics output = %q", out)
	}

	out, err = runCmd(t, "http://127.0.0.1:0", "", "docs", "keys", "--raw")
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.Contains(out, "# Key reference") {
		t.Fatalf("raw output = %q", out)
	}

	if _, err = runCmd(t, "http://127.0.0.1:0", "", "docs", "nope"); err == nil {
		t.Fatal("unknown topic must fail")
	}
}

func TestTasksRmNeedsConfirmation(t *testing.T) {
	var deleted bool
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasksJSON))
	})
	mux.HandleFunc("DELETE /api/tasks/1/", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	// Declined: nothing happens.
	if _, err := runCmd(t, url, "n\n", "tasks", "rm", "1"); err != nil {
		t.Fatalf("rm declined: %v", err)
	}
	if deleted {
		t.Fatal("declined confirmation still deleted")
	}

	// Accepted via prompt.
	if _, err := runCmd(t, url, "y\n", "tasks", "rm", "1"); err != nil {
		t.Fatalf("rm confirmed: %v", err)
	}
	if !deleted {
		t.Fatal("confirmed rm did not delete")
	}
}

func TestTasksRmAssumeYesSkipsPrompt(t *testing.T) {
	var deleted bool
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasksJSON))
	})
	mux.HandleFunc("DELETE /api/tasks/1/", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	if _, err := runCmd(t, url, "", "tasks", "rm", "1", "--yes"); err != nil {
		t.Fatalf("rm --yes: %v", err)
	}
	if !deleted {
		t.Fatal("rm --yes did not delete")
	}
}

func TestTasksEditMergesFlagsIntoCurrentValues(t *testing.T) {
	var patched map[string]json.RawMessage
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasksJSON))
	})
	mux.HandleFunc("PATCH /api/tasks/1/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patched)
		_, _ = w.Write([]byte(`{"id":1,"title":"Water everything","completed":false,"category":10}`))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	if _, err := runCmd(t, url, "", "tasks", "edit", "1", "--title", "Water everything"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if string(patched["title"]) != `"Water everything"` {
		t.Fatalf("title = %s", patched["title"])
	}
	// Untouched fields travel with their current values, not nulls.
	if string(patched["category"]) != "10" {
		t.Fatalf("category = %s, want current value", patched["category"])
	}
	if string(patched["due_date"]) != `"2024-05-01"` {
		t.Fatalf("due_date = %s, want current value", patched["due_date"])
	}
}

func TestTasksEditUnknownIDFails(t *testing.T) {
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	_, err := runCmd(t, url, "", "tasks", "edit", "42", "--title", "x")
	if err == nil || !strings.Contains(err.Error(), "task not found: 42") {
		t.Fatalf("err = %v", err)
	}
}

func TestSubtasksToggleResolvesParent(t *testing.T) {
	var patchedPath string
	mux := authMux(t)
	mux.HandleFunc("GET /api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tasksJSON))
	})
	mux.HandleFunc("PATCH /api/subtasks/11/", func(w http.ResponseWriter, r *http.Request) {
		patchedPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":11,"task":1,"title":"Fill the can","completed":true,"category":null}`))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	out, err := runCmd(t, url, "", "subtasks", "toggle", "11")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if patchedPath != "/api/subtasks/11/" {
		t.Fatalf("patched %q", patchedPath)
	}
	if !strings.Contains(out, `"completed":true`) {
		t.Fatalf("output = %q", out)
	}
}

func TestCategoriesList(t *testing.T) {
	mux := authMux(t)
	mux.HandleFunc("GET /api/categories/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":10,"name":"Home"},{"id":20,"name":"Calls"}]`))
	})
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	out, err := runCmd(t, url, "", "categories", "list")
	if err != nil {
		t.Fatalf("categories list: %v", err)
	}
	if !strings.Contains(out, "Home") || !strings.Contains(out, "Calls") {
		t.Fatalf("output = %q", out)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	mux := authMux(t)
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	url := fakeServer(t, mux)
	loginAgainst(t, url)

	if _, err := runCmd(t, url, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err := runCmd(t, url, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, `"authenticated":false`) {
		t.Fatalf("whoami output = %q", out)
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if id, err := parseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("parseID = %d, %v", id, err)
	}
	if _, err := parseID("abc"); err == nil {
		t.Fatal("parseID must reject non-numeric ids")
	}
}
