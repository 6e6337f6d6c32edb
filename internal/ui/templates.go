package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/coroadoradores/portal/internal/booking"
	"github.com/coroadoradores/portal/internal/receipt"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = mustParseTemplates()

var funcMap = template.FuncMap{
	"typeLabel":     booking.TypeLabel,
	"locationLabel": booking.LocationLabel,
	"longDate":      receipt.FormatLongDate,
	"shortDate":     receipt.FormatShortDate,
	"timeRange": func(start, end time.Time) string {
		return start.Format("15:04") + " – " + end.Format("15:04")
	},
	"dayParam": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"money": func(v *float64) string {
		if v == nil {
			return "—"
		}
		return fmt.Sprintf("$%.2f", *v)
	},
}

func mustParseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	base := template.Must(template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html"))

	sets := make(map[string]*template.Template)
	for _, file := range files {
		if file == "templates/base.html" {
			continue
		}

		set := template.Must(base.Clone())
		template.Must(set.ParseFS(templateFS, file))
		sets[file[len("templates/"):]] = set
	}

	return sets
}
