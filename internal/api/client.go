package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tareas-cli/internal/model"
	"tareas-cli/internal/session"
)

// Client is the sole point of contact with the remote service. Every call
// is a single attempt: no retry, no caching. The session store is read at
// request time so login/logout take effect immediately.
type Client struct {
	baseURL    string
	sessions   *session.Store
	httpClient *http.Client
}

func NewClient(baseURL string, sessions *session.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// do issues one JSON request and decodes the response into out (when
// non-nil). Non-2xx responses come back as *Error carrying the server's
// message when one can be decoded.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, Resolve(c.baseURL, path), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range AuthHeader(c.sessions.Current().Token) {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &Error{StatusCode: resp.StatusCode, Message: decodeErrorMessage(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login exchanges email/password for a token. The request is anonymous;
// the issued token is NOT stored here, that is the caller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (token, tokenEmail string, err error) {
	var resp struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	err = c.do(ctx, http.MethodPost, "/api-token-auth/", map[string]any{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.Email, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateTask submits the given fields; use explicit nulls (nil map values)
// to clear optional fields, matching the server's contract.
func (c *Client) CreateTask(ctx context.Context, fields map[string]any) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks/", fields, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// PatchTask sends a partial update; only the keys present in fields change.
func (c *Client) PatchTask(ctx context.Context, id int64, fields map[string]any) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/", id), fields, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d/", id), nil, nil)
}

// CategorizeTask asks the backend to pick a category via its AI service.
// The body is deliberately empty; the response carries a human-readable
// message describing what was decided.
func (c *Client) CategorizeTask(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/categorize/", id), map[string]any{}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CreateSubtask submits a new subtask; fields must include the parent
// "task" id.
func (c *Client) CreateSubtask(ctx context.Context, fields map[string]any) (model.Subtask, error) {
	var s model.Subtask
	if err := c.do(ctx, http.MethodPost, "/api/subtasks/", fields, &s); err != nil {
		return model.Subtask{}, err
	}
	return s, nil
}

func (c *Client) PatchSubtask(ctx context.Context, id int64, fields map[string]any) (model.Subtask, error) {
	var s model.Subtask
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/subtasks/%d/", id), fields, &s); err != nil {
		return model.Subtask{}, err
	}
	return s, nil
}

func (c *Client) DeleteSubtask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/subtasks/%d/", id), nil, nil)
}
