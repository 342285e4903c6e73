// Package view renders the single page from a snapshot of session state. Rendering has no side
// effects: the same State always produces the same HTML.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/pagination"
)

//go:embed templates/*.html
var templates embed.FS

// Modal is the rendered state of one form.
type Modal struct {
	Open  bool
	Title string
	Body  string
}

type EditModal struct {
	Modal
	ID model.PostID
}

// State is everything the page shows.
type State struct {
	Page   pagination.Page[model.Post]
	Create Modal
	Edit   EditModal

	// Version of the collection the page was derived from.
	Version uint64
}

type data struct {
	*model.PageData
	State
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateIndex,
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the full page. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, page *model.PageData, state State) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, config.TemplateLayout, data{PageData: page, State: state}); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
