package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a request failure surfaced to the caller: either a non-2xx
// response (with whatever message the server attached) or a transport
// failure. The two are deliberately not distinguished further.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return "request failed"
}

// decodeErrorMessage extracts a human-readable message from an error
// payload. Precedence: first field error (e.g. title), then detail,
// then error.
func decodeErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, field := range []string{"title", "description", "due_date", "category", "task"} {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err == nil && len(msgs) > 0 {
			return strings.TrimSpace(msgs[0])
		}
	}
	for _, key := range []string{"detail", "error"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	return ""
}
