package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/i18n"
	"clothes.vn/storefront-web/internal/notify"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/widgets"
)

// views parses the layout, partials and one page per set. In dev mode every
// render reparses from disk.
type views struct {
	fsys   fs.FS
	dev    bool
	bundle *i18n.Bundle

	mu    sync.RWMutex
	pages map[string]*template.Template
	frags *template.Template
}

func newViews(fsys fs.FS, bundle *i18n.Bundle, dev bool) (*views, error) {
	v := &views{fsys: fsys, dev: dev, bundle: bundle}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *views) funcs() template.FuncMap {
	return template.FuncMap{
		"now":       time.Now,
		"t":         v.bundle.T,
		"lazyImage": widgets.LazyImage,
		"join":      strings.Join,
		"toasts": func(lang string, toasts []notify.Toast) (template.HTML, error) {
			var buf bytes.Buffer
			if err := notify.RenderInline(&buf, v.bundle.T(lang, "toast.close"), toasts...); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
}

func (v *views) parse(extra ...string) (*template.Template, error) {
	patterns := append([]string{"layouts/*.tmpl", "partials/*.tmpl"}, extra...)
	return template.New("_root").Funcs(v.funcs()).ParseFS(v.fsys, patterns...)
}

func (v *views) load() error {
	frags, err := v.parse()
	if err != nil {
		return fmt.Errorf("parse partials: %w", err)
	}
	files, err := fs.Glob(v.fsys, "pages/*.tmpl")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no page templates found")
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".tmpl")
		t, err := v.parse(f)
		if err != nil {
			return fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	v.mu.Lock()
	v.pages, v.frags = pages, frags
	v.mu.Unlock()
	return nil
}

func (v *views) current() (map[string]*template.Template, *template.Template, error) {
	if v.dev {
		if err := v.load(); err != nil {
			return nil, nil, err
		}
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pages, v.frags, nil
}

// page renders a full page with the base layout.
func (v *views) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	pages, _, err := v.current()
	if err != nil {
		v.fail(w, r, "parse templates", err)
		return
	}
	t, ok := pages[name]
	if !ok {
		v.fail(w, r, "unknown page", fmt.Errorf("page %q", name))
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		v.fail(w, r, "render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// fragment returns a writer of the named partial, as accepted by ui.Effects.Write.
func (v *views) fragment(name string, data any) func(io.Writer) error {
	return func(w io.Writer) error {
		_, frags, err := v.current()
		if err != nil {
			return err
		}
		return frags.ExecuteTemplate(w, name, data)
	}
}

// writeFragment renders a partial as the whole response.
func (v *views) writeFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := v.fragment(name, data)(&buf); err != nil {
		v.fail(w, r, "render fragment", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (v *views) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	observability.FromContext(r.Context()).Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
