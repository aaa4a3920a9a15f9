package render

import (
	"embed"
	"html/template"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/advait-mulye/medner/internal/logger"
)

var log = logger.Get()

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Funcs are the template helpers available to result fragments
func Funcs() template.FuncMap {
	return template.FuncMap{
		"plural": func(n int, singular, plural string) string {
			return english.Plural(n, singular, plural)
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
	}
}

// Fragments returns a fresh template set holding the "summary",
// "entity-list", "annotated-text" and "results" fragments, ready for a
// host to parse its own page templates into.
func Fragments() (*template.Template, error) {
	return template.New("fragments").Funcs(Funcs()).ParseFS(templatesFS, "templates/*.tmpl")
}
