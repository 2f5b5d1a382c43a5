package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed templates
var templatesFS embed.FS

const (
	baseLayout  = "templates/layouts/base.html"
	partialsDir = "templates/partials"
	pagesDir    = "templates/pages"
)

var (
	markdown  = goldmark.New()
	sanitizer = bluemonday.UGCPolicy()
)

// Renderer executes the embedded page templates. It implements echo.Renderer.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page template together with the base layout and the
// partials. Page names are their path below pages/ without the extension,
// e.g. "chat" or "secretary/requests".
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	partials, err := fs.Glob(templatesFS, partialsDir+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}

	err = fs.WalkDir(templatesFS, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")

		files := append([]string{baseLayout}, partials...)
		files = append(files, p)
		tmpl, err := template.New(path.Base(baseLayout)).Funcs(Funcs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render writes the named page. It renders into a buffer first so a template
// error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"format_datetime":  FormatDateTime,
		"format_time_only": FormatTimeOnly,
		"nl2br":            NL2BR,
		"markdown":         Markdown,
		"initial":          initial,
	}
}

// FormatDateTime renders t in local time, e.g. "March 05, 2024 at 02:30 PM".
// A zero time renders as "Recently".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	return t.Local().Format("January 02, 2006 at 03:04 PM")
}

func FormatTimeOnly(t time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	return t.Local().Format("03:04 PM")
}

// NL2BR escapes s and turns newlines into <br> tags.
func NL2BR(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// Markdown converts notice bodies to sanitized HTML. Raw HTML in the source
// is dropped by goldmark and anything unsafe left over by bluemonday.
func Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return NL2BR(s)
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

func initial(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
