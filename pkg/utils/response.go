package utils

import (
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// RespondSuccess wraps data in the standard success envelope
func RespondSuccess(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// DecodeJSON reads the request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// IsJSONRequest reports whether the body is JSON
func IsJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// WantsJSON reports whether the caller should get JSON instead of a redirect
func WantsJSON(r *http.Request) bool {
	return IsJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

// RedirectWithFlash sends the browser back to path with a one-shot message
// in the query string. kind is "error" or "notice".
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	u, err := url.Parse(path)
	if err != nil {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	q := u.Query()
	q.Del("error")
	q.Del("notice")
	if message != "" {
		q.Set(kind, message)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// RedirectWithError redirects to path with an inline error alert
func RedirectWithError(w http.ResponseWriter, r *http.Request, path, message string) {
	RedirectWithFlash(w, r, path, "error", message)
}

// RedirectWithNotice redirects to path with a confirmation message
func RedirectWithNotice(w http.ResponseWriter, r *http.Request, path, message string) {
	RedirectWithFlash(w, r, path, "notice", message)
}
