package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tareas-cli/internal/session"
)

func testStore(t *testing.T, token string) *session.Store {
	t.Helper()
	t.Setenv("TAREAS_CONFIG_DIR", t.TempDir())
	st := session.NewStore()
	if token != "" {
		if err := st.Login(token, "test@example.com"); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	return st
}

func TestRequestsCarryTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testStore(t, "tok-abc"))
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotAuth != "Token tok-abc" {
		t.Fatalf("Authorization = %q, want Token tok-abc", gotAuth)
	}
}

func TestAnonymousRequestsOmitAuthHeader(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"token":"t","email":"e@x.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testStore(t, ""))
	token, email, err := c.Login(context.Background(), "e@x.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sawAuth {
		t.Fatal("login request must not carry an Authorization header")
	}
	if token != "t" || email != "e@x.com" {
		t.Fatalf("login result = %q/%q", token, email)
	}
}

func TestLoginDoesNotPersistToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"t","email":"e@x.com"}`))
	}))
	defer srv.Close()

	st := testStore(t, "")
	c := NewClient(srv.URL, st)
	if _, _, err := c.Login(context.Background(), "e@x.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if st.Current().Authenticated() {
		t.Fatal("Login must leave persistence to the caller")
	}
}

func TestErrorMessagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"field array wins", `{"title":["This field may not be blank."],"detail":"nope"}`, "This field may not be blank."},
		{"detail", `{"detail":"Invalid token."}`, "Invalid token."},
		{"error", `{"error":"AI service unavailable"}`, "AI service unavailable"},
		{"unparseable body", `<html>oops</html>`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeErrorMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("decodeErrorMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNon2xxBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testStore(t, "bad"))
	_, err := c.ListTasks(context.Background())
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid token." {
		t.Fatalf("error = %+v", apiErr)
	}
}

func TestTransportFailureBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, testStore(t, ""))
	_, err := c.ListTasks(context.Background())
	if _, ok := err.(*Error); !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
}

func TestCategorizePostsEmptyBody(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":"Task categorized as Work"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testStore(t, "tok"))
	msg, err := c.CategorizeTask(context.Background(), 7)
	if err != nil {
		t.Fatalf("CategorizeTask: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/tasks/7/categorize/" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if len(gotBody) != 0 {
		t.Fatalf("body = %v, want empty object", gotBody)
	}
	if msg != "Task categorized as Work" {
		t.Fatalf("message = %q", msg)
	}
}

func TestPatchTaskSendsExplicitNulls(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"id":3,"title":"t","completed":false,"category":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testStore(t, "tok"))
	_, err := c.PatchTask(context.Background(), 3, map[string]any{
		"title":    "t",
		"due_date": nil,
	})
	if err != nil {
		t.Fatalf("PatchTask: %v", err)
	}
	v, ok := raw["due_date"]
	if !ok {
		t.Fatal("due_date key missing from payload")
	}
	if string(v) != "null" {
		t.Fatalf("due_date = %s, want null", v)
	}
	if _, ok := raw["completed"]; ok {
		t.Fatal("payload must only contain the keys given")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base, path, want string
	}{
		{"http://localhost:8000", "/api/tasks/", "http://localhost:8000/api/tasks/"},
		{"http://localhost:8000/", "/api/tasks/", "http://localhost:8000/api/tasks/"},
		{"http://localhost:8000", "api/tasks/", "http://localhost:8000/api/tasks/"},
	}
	for _, tc := range cases {
		if got := Resolve(tc.base, tc.path); got != tc.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestAuthHeader(t *testing.T) {
	t.Parallel()

	if h := AuthHeader(""); len(h) != 0 {
		t.Fatalf("anonymous header = %v, want empty", h)
	}
	h := AuthHeader("abc")
	if h["Authorization"] != "Token abc" {
		t.Fatalf("header = %v", h)
	}
}
