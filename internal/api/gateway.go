package api

import "strings"

// DefaultBaseURL is used when neither the --base-url flag nor
// TAREAS_API_URL selects an origin.
const DefaultBaseURL = "http://localhost:8000"

// AuthHeader returns the header set for a token: empty when the token is
// absent (anonymous request), otherwise a single DRF-style token header.
func AuthHeader(token string) map[string]string {
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Token " + token}
}

// Resolve joins the base origin with a path, normalizing exactly one
// leading slash.
func Resolve(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
