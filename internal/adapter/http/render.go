package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/yosssi/gohtml"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"observatories", "map", "institutes", "definitives", "detail", "notfound"}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// parseTemplates builds one template set per page, each combining the shared
// layout and partials with the page's own "content" block.
func parseTemplates() map[string]*template.Template {
	base := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return pages
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.RequestID = RequestID(r.Context())

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", name, "error", err, "request_id", data.RequestID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	out := buf.Bytes()
	if s.opts.Pretty {
		out = gohtml.FormatBytes(out)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}
