// Package render turns loader output into what a role sees: pure
// presentation derivations plus the server-side HTML pages. Each live page
// also exposes its "live" block on its own so socket clients can swap in a
// re-rendered region without reloading the page.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"wms-backend/internal/models"
)

const (
	PageLogin       = "login"
	PageAdmin       = "admin"
	PageOperations  = "operations"
	PageStaff       = "staff"
	PageAssignments = "assignments"
	PageDriver      = "driver"
	PageResident    = "resident"
)

var funcMap = template.FuncMap{
	"fmtTime": func(unix int64) string {
		if unix == 0 {
			return "—"
		}
		return time.Unix(unix, 0).Local().Format("Jan 2 15:04")
	},
	"deref": func(s *string, fallback string) string {
		if s == nil || *s == "" {
			return fallback
		}
		return *s
	},
}

var pageSources = map[string]string{
	PageLogin:       tmplLogin,
	PageAdmin:       tmplAdmin,
	PageOperations:  tmplOperations,
	PageStaff:       tmplStaff,
	PageAssignments: tmplAssignments,
	PageDriver:      tmplDriver,
	PageResident:    tmplResident,
}

// Flash is the one-shot message carried in the query string after a
// redirect.
type Flash struct {
	Error  string
	Notice string
}

type LoginView struct {
	SignUp bool
	Email  string
}

// PageData is what every page template receives.
type PageData struct {
	Title   string
	Active  string
	Profile *models.Profile
	Flash   Flash
	View    interface{}
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page once; a template error is a programming error and
// surfaces at startup.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageSources))}
	for name, src := range pageSources {
		t, err := template.New(name).Funcs(funcMap).Parse(tmplBase + src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	t, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	return t, nil
}

// Page renders a full document. Output is buffered so a template failure
// never leaves a half-written response.
func (r *Renderer) Page(w io.Writer, name string, data PageData) error {
	t, err := r.lookup(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Live renders only the page's live region.
func (r *Renderer) Live(name string, data PageData) (string, error) {
	t, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	if t.Lookup("live") == nil {
		return "", fmt.Errorf("page %q has no live region", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "live", data); err != nil {
		return "", fmt.Errorf("render %s live region: %w", name, err)
	}
	return buf.String(), nil
}
