package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded stylesheet and scripts.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// printer groups digits the way amounts are written in Korean.
var printer = message.NewPrinter(language.Korean)

var funcs = template.FuncMap{
	"won": func(d decimal.Decimal) string { return printer.Sprintf("%d원", d.Round(0).IntPart()) },
	"km":  func(v float64) string { return printer.Sprintf("%.0f", v) },
}

// parsePages builds one template set per page, each sharing layout.html.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, 3)
	for _, name := range []string{"entry", "history", "manual"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}
