// Package web embeds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// Pages lists the page templates. Each is parsed together with the layout
// and the shared partials.
var Pages = []string{"home", "movie", "list", "request", "login", "admin", "notfound"}

func Static() (fs.FS, error) {
	return fs.Sub(files, "static")
}

// Templates parses every page into its own template set, keyed by name.
func Templates(funcs template.FuncMap) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Pages))
	for _, name := range Pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}
