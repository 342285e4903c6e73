package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/theme"
)

type PageData struct {
	SiteName string
	Tagline  string

	PageURL string

	Theme          string
	ThemeIcon      template.HTML
	AllowSwitching bool

	SyntaxCSS   template.CSS
	SyntaxTheme string
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.Current()
	currentTheme := theme.GetThemeFromRequest(r)
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)
	return &PageData{
		SiteName:       cfg.Site.Name,
		Tagline:        cfg.Site.Tagline,
		PageURL:        r.URL.Path,
		Theme:          currentTheme,
		ThemeIcon:      template.HTML(theme.GetThemeIcon(currentTheme)),
		AllowSwitching: cfg.Theme.AllowSwitching,
		SyntaxTheme:    syntaxTheme,
		SyntaxCSS:      theme.GenerateSyntaxCSS(syntaxTheme),
	}
}
