package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Stylesheet is the stylesheet linked from rendered pages, relative to the page.
const Stylesheet = "style.css"

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Renderer turns markdown into a standalone HTML page.
type Renderer struct {
	templates *template.Template
}

type pageView struct {
	Title      string
	Stylesheet string
	Body       template.HTML
}

// New loads embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("root").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Page renders markdown into the page shell.
func (r *Renderer) Page(w io.Writer, title string, markdown []byte) error {
	var body bytes.Buffer
	if err := markdownEngine.Convert(markdown, &body); err != nil {
		return err
	}
	return r.templates.ExecuteTemplate(w, "page", pageView{
		Title:      title,
		Stylesheet: Stylesheet,
		Body:       template.HTML(body.String()),
	})
}

// RenderFile renders the markdown file src into dst.
func (r *Renderer) RenderFile(src, dst, title string) error {
	markdown, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.Page(&buf, title, markdown); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, buf.Bytes(), 0o644)
}
