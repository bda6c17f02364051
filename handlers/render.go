package handlers

import (
	"fmt"
	"html/template"
	"io"

	"ecoulement_app_go/middleware"
	"ecoulement_app_go/services/hubeau"

	"github.com/labstack/echo/v4"
)

// HubeauClient is the shared API client, set at startup
var HubeauClient *hubeau.Client

// TemplateRenderer implements echo.Renderer over html/template pages
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the page templates once at startup
func NewTemplateRenderer(glob string) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"cssVersion":   middleware.GetCSSVersion,
		"appJSVersion": middleware.GetAppJSVersion,
	}

	templates, err := template.New("").Funcs(funcs).ParseGlob(glob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render implements echo.Renderer
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
