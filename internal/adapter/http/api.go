package http

import (
	"net/http"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/store"
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
	"github.com/couchcryptid/geomag-metadata-service/internal/view"
)

type listResponse[T any] struct {
	Data      []T `json:"data"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	PageSize  int `json:"page_size"`
}

func newListResponse[T any](p table.Page[T]) listResponse[T] {
	data := p.Rows
	if data == nil {
		data = []T{}
	}
	return listResponse[T]{
		Data:      data,
		Total:     p.Total,
		Page:      p.PageNumber(),
		PageCount: p.PageCount,
		PageSize:  p.Query.PageSize,
	}
}

type statusResponse struct {
	Ready      bool                                     `json:"ready"`
	Generation uint64                                   `json:"generation"`
	Resources  map[domain.Resource]store.ResourceStatus `json:"resources"`
	Report     *reportResponse                          `json:"report,omitempty"`
}

type reportResponse struct {
	Entries             int `json:"entries"`
	Kept                int `json:"kept"`
	DroppedNoMembership int `json:"dropped_no_membership"`
	DroppedDuplicate    int `json:"dropped_duplicate"`
	Invalid             int `json:"invalid"`
	MissingLocation     int `json:"missing_location"`
	Institutes          int `json:"institutes"`
	Contacts            int `json:"contacts"`
	DefinitiveRows      int `json:"definitive_rows"`
}

func newStatusResponse(snap *store.Snapshot) statusResponse {
	resp := statusResponse{
		Ready:      snap.Ready(),
		Generation: snap.Generation,
		Resources:  snap.Statuses,
	}
	if snap.Status(domain.ResourceObservatories).State == domain.StateLoaded {
		r := snap.Report
		resp.Report = &reportResponse{
			Entries:             r.Entries,
			Kept:                r.Kept,
			DroppedNoMembership: r.DroppedNoMembership,
			DroppedDuplicate:    r.DroppedDuplicate,
			Invalid:             len(r.Issues),
			MissingLocation:     r.MissingLocation,
			Institutes:          len(snap.Institutes),
			Contacts:            len(snap.Contacts),
			DefinitiveRows:      len(snap.Definitives.Rows),
		}
	}
	return resp
}

// readySnapshot returns the snapshot when every resource has loaded and
// otherwise answers 503 with the resource states.
func (s *Server) readySnapshot(w http.ResponseWriter) (*store.Snapshot, bool) {
	snap := s.source.Snapshot()
	if snap.Ready() {
		return snap, true
	}
	sharedobs.WriteJSON(w, http.StatusServiceUnavailable, newStatusResponse(snap))
	return nil, false
}

// validListParams answers 400 when the list parameters are malformed.
func validListParams(w http.ResponseWriter, r *http.Request) bool {
	if errs := validateStruct(parseListParams(r)); errs != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return false
	}
	return true
}

func (s *Server) handleListObservatories(w http.ResponseWriter, r *http.Request) {
	if !validListParams(w, r) {
		return
	}
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	page := s.observatories.Apply(snap.Observatories, table.ParseQuery(r.URL.Query()))
	sharedobs.WriteJSON(w, http.StatusOK, newListResponse(page))
}

func (s *Server) handleGetObservatory(w http.ResponseWriter, r *http.Request) {
	params := detailParams{IAGA: strings.ToUpper(r.PathValue("iaga"))}
	if errs := validateStruct(params); errs != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	detail, found := view.BuildDetail(detailSource(snap), params.IAGA)
	if !found {
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "observatory " + params.IAGA + " not found"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListInstitutes(w http.ResponseWriter, r *http.Request) {
	if !validListParams(w, r) {
		return
	}
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	rows := view.InstituteRows(snap.Institutes, snap.Observatories)
	page := s.institutes.Apply(rows, table.ParseQuery(r.URL.Query()))
	sharedobs.WriteJSON(w, http.StatusOK, newListResponse(page))
}

func (s *Server) handleListDefinitives(w http.ResponseWriter, r *http.Request) {
	if !validListParams(w, r) {
		return
	}
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	page := s.definitives.Apply(snap.Definitives.Rows, table.ParseQuery(r.URL.Query()))
	sharedobs.WriteJSON(w, http.StatusOK, newListResponse(page))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if !validListParams(w, r) {
		return
	}
	snap, ok := s.readySnapshot(w)
	if !ok {
		return
	}
	fc := view.MapFeatures(snap.Observatories, snap.Definitives.ByYear, r.URL.Query().Get("year"))
	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("encode map features", "error", err, "request_id", RequestID(r.Context()))
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, newStatusResponse(s.source.Snapshot()))
}

// handleReload queues a fetch cycle. Browser form posts are redirected back
// to the dashboard.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	queued := s.reloader.Reload()
	s.logger.Info("reload requested", "queued", queued, "request_id", RequestID(r.Context()))
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sharedobs.WriteJSON(w, http.StatusAccepted, map[string]bool{"queued": queued})
}

func detailSource(snap *store.Snapshot) view.DetailSource {
	return view.DetailSource{
		Observatories: snap.Observatories,
		Institutes:    snap.Institutes,
		Contacts:      snap.Contacts,
		Definitives:   snap.Definitives.Rows,
	}
}
