package templates

import (
	"embed"
	"html/template"
	"strings"
	"unicode"

	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/utils"
)

//go:embed *.html
var files embed.FS

// Load parses the embedded page templates with the panel's helper functions.
func Load() *template.Template {
	funcs := template.FuncMap{
		"formatDateTime":   utils.FormatDateTime,
		"statusBadgeText":  models.StatusBadgeText,
		"statusBadgeClass": models.StatusBadgeClass,
		"ucfirst":          ucfirst,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "*.html"))
}

func ucfirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
