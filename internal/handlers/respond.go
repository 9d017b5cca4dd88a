package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"wms-backend/internal/actions"
	"wms-backend/internal/auth"
	"wms-backend/internal/store"
	"wms-backend/pkg/utils"
)

// fields is a flat view of a form post or a JSON object body, so every
// action reads its input the same way.
type fields map[string]string

func readFields(r *http.Request) (fields, error) {
	out := fields{}
	if utils.IsJSONRequest(r) {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, actions.ValidationError("Invalid request body")
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
			case string:
				out[k] = t
			case bool:
				if t {
					out[k] = "yes"
				}
			default:
				out[k] = fmt.Sprint(t)
			}
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, actions.ValidationError("Invalid form data")
	}
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}
	return out, nil
}

// confirmed reports whether the caller acknowledged a destructive action.
func (f fields) confirmed() bool {
	switch strings.ToLower(f["confirm"]) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// statusFor maps an action error to an HTTP status.
func statusFor(err error) int {
	var validation actions.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, auth.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, actions.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// backTo returns the page the form was posted from when it is the expected
// page, keeping its filters; otherwise fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path != fallback {
		return fallback
	}
	if ref.RawQuery == "" {
		return ref.Path
	}
	return ref.Path + "?" + ref.RawQuery
}

// result finishes an action. Browsers are redirected back to the page (a
// full reload) with an inline alert on failure; JSON callers get the data
// or the error with its status.
type result struct {
	back   string
	notice string
	status int
	data   interface{}

	// bestEffort hides store failures from browsers. Validation failures are
	// still shown.
	bestEffort bool
}

func (res result) write(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		status := statusFor(err)
		log.Printf("❌ %s %s failed: %v", r.Method, r.URL.Path, err)

		if utils.WantsJSON(r) {
			utils.RespondError(w, status, err.Error())
			return
		}
		if res.bestEffort && status != http.StatusBadRequest {
			utils.RedirectWithFlash(w, r, res.back, "", "")
			return
		}
		utils.RedirectWithError(w, r, res.back, err.Error())
		return
	}

	if utils.WantsJSON(r) {
		status := res.status
		if status == 0 {
			status = http.StatusOK
		}
		utils.RespondSuccess(w, status, res.data)
		return
	}
	utils.RedirectWithNotice(w, r, res.back, res.notice)
}
