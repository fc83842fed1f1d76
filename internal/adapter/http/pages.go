package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/couchcryptid/geomag-metadata-service/internal/store"
	"github.com/couchcryptid/geomag-metadata-service/internal/view"
)

type pageData struct {
	Title     string
	Active    string
	Notice    *notice
	Grid      view.Grid
	Detail    view.Detail
	MapURL    string
	Year      string
	Missing   string
	RequestID string
}

type failure struct {
	Resource string
	Error    string
}

// notice replaces page content while metadata is loading or has failed.
type notice struct {
	Loading []string
	Failed  []failure
}

// Refresh reports whether the page should reload itself.
func (n *notice) Refresh() bool { return len(n.Failed) == 0 }

func newNotice(snap *store.Snapshot) *notice {
	if snap.Ready() {
		return nil
	}
	n := &notice{}
	for _, r := range snap.Pending() {
		n.Loading = append(n.Loading, string(r))
	}
	for _, r := range snap.Failed() {
		n.Failed = append(n.Failed, failure{Resource: string(r), Error: snap.Status(r).Error})
	}
	return n
}

// renderPage renders content pages, substituting the loading or error panel
// until every resource has loaded.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData, build func(*store.Snapshot, *pageData)) {
	s.renderSnapshot(w, r, s.source.Snapshot(), name, data, build)
}

func (s *Server) renderSnapshot(w http.ResponseWriter, r *http.Request, snap *store.Snapshot, name string, data pageData, build func(*store.Snapshot, *pageData)) {
	if n := newNotice(snap); n != nil {
		data.Notice = n
		status := http.StatusOK
		if len(n.Failed) > 0 {
			status = http.StatusServiceUnavailable
		}
		s.render(w, r, status, name, data)
		return
	}
	build(snap, &data)
	s.render(w, r, http.StatusOK, name, data)
}

func (s *Server) handleObservatoriesPage(w http.ResponseWriter, r *http.Request) {
	q := tableQuery(w, r)
	s.renderPage(w, r, "observatories", pageData{Title: "Observatories", Active: "imos"}, func(snap *store.Snapshot, d *pageData) {
		page := s.observatories.Apply(snap.Observatories, q)
		d.Grid = view.BuildGrid(r.URL.Path, s.observatories, snap.Observatories, page, view.ObservatoryLinks())
	})
}

func (s *Server) handleMapPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "map", pageData{Title: "Map", Active: "map", MapURL: "/api/map"}, func(*store.Snapshot, *pageData) {})
}

func (s *Server) handleInstitutesPage(w http.ResponseWriter, r *http.Request) {
	q := tableQuery(w, r)
	s.renderPage(w, r, "institutes", pageData{Title: "Institutes", Active: "institutes"}, func(snap *store.Snapshot, d *pageData) {
		rows := view.InstituteRows(snap.Institutes, snap.Observatories)
		page := s.institutes.Apply(rows, q)
		d.Grid = view.BuildGrid(r.URL.Path, s.institutes, rows, page, view.InstituteLinks())
	})
}

func (s *Server) handleDefinitivesPage(w http.ResponseWriter, r *http.Request) {
	q := tableQuery(w, r)
	s.renderPage(w, r, "definitives", pageData{Title: "Definitive data", Active: "definitives"}, func(snap *store.Snapshot, d *pageData) {
		rows := snap.Definitives.Rows
		page := s.definitives.Apply(rows, q)
		d.Grid = view.BuildGrid(r.URL.Path, s.definitives, rows, page, view.DefinitiveLinks())
		d.Year = q.Filter("year")
		d.MapURL = "/api/map"
		if d.Year != "" {
			d.MapURL += "?" + url.Values{"year": {d.Year}}.Encode()
		}
	})
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	iaga := strings.ToUpper(r.PathValue("iaga"))
	snap := s.source.Snapshot()
	if !snap.Ready() {
		s.renderSnapshot(w, r, snap, "detail", pageData{Title: iaga}, nil)
		return
	}
	detail, ok := view.BuildDetail(detailSource(snap), iaga)
	if !ok {
		s.render(w, r, http.StatusNotFound, "notfound", pageData{Title: "Not found", Missing: iaga})
		return
	}
	s.render(w, r, http.StatusOK, "detail", pageData{Title: detail.Observatory.Name, Detail: detail})
}
