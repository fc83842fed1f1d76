// Package store holds the latest normalized metadata as an immutable snapshot.
//
// The pipeline is the only writer. Each fetch cycle opens a generation with
// Begin; results carrying an older generation, or arriving after their
// cycle's context ended, are discarded. Readers call Snapshot and never
// block writers.
package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
)

// ResourceStatus is the fetch state of one resource.
type ResourceStatus struct {
	State     domain.FetchState `json:"state"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at,omitzero"`
}

// ObservatoryData is everything derived from the observatories resource.
type ObservatoryData struct {
	Observatories []domain.ObservatoryRecord
	Institutes    []domain.InstituteRecord
	Contacts      domain.ContactDirectory
	Report        domain.NormalizeReport
}

// DefinitiveData is everything derived from the definitive catalogue.
type DefinitiveData struct {
	Catalogue []domain.DefinitiveCatalogueEntry
	Rows      []domain.DefinitiveRow
	ByYear    map[string][]string
}

// NewDefinitiveData derives rows and the per-year index from a catalogue.
func NewDefinitiveData(catalogue []domain.DefinitiveCatalogueEntry) DefinitiveData {
	rows := domain.FlattenDefinitives(catalogue)
	return DefinitiveData{
		Catalogue: catalogue,
		Rows:      rows,
		ByYear:    domain.ObservatoriesByYear(rows),
	}
}

// Snapshot is an immutable view of the store. Callers must not modify it.
type Snapshot struct {
	Generation uint64
	ObservatoryData
	Definitives DefinitiveData
	Statuses    map[domain.Resource]ResourceStatus
}

// Status returns the status of one resource.
func (s *Snapshot) Status(r domain.Resource) ResourceStatus {
	return s.Statuses[r]
}

// Pending lists resources that are idle or loading, in display order.
func (s *Snapshot) Pending() []domain.Resource {
	var out []domain.Resource
	for _, r := range domain.Resources() {
		switch s.Statuses[r].State {
		case domain.StateIdle, domain.StateLoading:
			out = append(out, r)
		}
	}
	return out
}

// Failed lists resources whose last fetch errored, in display order.
func (s *Snapshot) Failed() []domain.Resource {
	var out []domain.Resource
	for _, r := range domain.Resources() {
		if s.Statuses[r].State == domain.StateErrored {
			out = append(out, r)
		}
	}
	return out
}

// Ready reports whether every resource is loaded.
func (s *Snapshot) Ready() bool {
	return len(s.Pending()) == 0 && len(s.Failed()) == 0
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Snapshot]
	clock   clockwork.Clock
}

// New returns a store with every resource idle.
func New(clock clockwork.Clock) *Store {
	s := &Store{clock: clock}
	statuses := make(map[domain.Resource]ResourceStatus, len(domain.Resources()))
	for _, r := range domain.Resources() {
		statuses[r] = ResourceStatus{State: domain.StateIdle}
	}
	s.current.Store(&Snapshot{
		ObservatoryData: ObservatoryData{Contacts: domain.ContactDirectory{}},
		Definitives:     DefinitiveData{ByYear: map[string][]string{}},
		Statuses:        statuses,
	})
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Begin opens a new generation and marks every resource loading. Data from
// the previous generation stays visible until replaced.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyCurrent()
	next.Generation++
	for _, r := range domain.Resources() {
		st := next.Statuses[r]
		st.State = domain.StateLoading
		st.Error = ""
		next.Statuses[r] = st
	}
	s.current.Store(next)
	return next.Generation
}

// PutObservatories stores the observatory data of generation gen. It reports
// false, and changes nothing, when the result is stale.
func (s *Store) PutObservatories(ctx context.Context, gen uint64, data ObservatoryData) bool {
	return s.apply(ctx, gen, domain.ResourceObservatories, nil, func(next *Snapshot) {
		next.ObservatoryData = data
	})
}

// PutDefinitives stores the definitive data of generation gen. It reports
// false, and changes nothing, when the result is stale.
func (s *Store) PutDefinitives(ctx context.Context, gen uint64, data DefinitiveData) bool {
	return s.apply(ctx, gen, domain.ResourceDefinitives, nil, func(next *Snapshot) {
		next.Definitives = data
	})
}

// Fail marks a resource errored for generation gen. Previously loaded data
// is kept. It reports false when the result is stale.
func (s *Store) Fail(ctx context.Context, gen uint64, r domain.Resource, err error) bool {
	return s.apply(ctx, gen, r, err, nil)
}

func (s *Store) apply(ctx context.Context, gen uint64, r domain.Resource, fetchErr error, update func(*Snapshot)) bool {
	if ctx.Err() != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur.Generation != gen || cur.Statuses[r].State != domain.StateLoading {
		return false
	}

	next := s.copyCurrent()
	st := ResourceStatus{State: domain.StateLoaded, UpdatedAt: s.clock.Now()}
	if fetchErr != nil {
		st = ResourceStatus{State: domain.StateErrored, Error: fetchErr.Error(), UpdatedAt: st.UpdatedAt}
	}
	next.Statuses[r] = st
	if update != nil {
		update(next)
	}
	s.current.Store(next)
	return true
}

// copyCurrent returns a shallow copy of the current snapshot with its own
// status map. Callers hold mu.
func (s *Store) copyCurrent() *Snapshot {
	next := *s.current.Load()
	next.Statuses = maps.Clone(next.Statuses)
	return &next
}

// CheckReadiness returns nil once every resource has loaded, or an error
// naming the pending and failed resources.
func (s *Store) CheckReadiness(_ context.Context) error {
	snap := s.Snapshot()
	if snap.Ready() {
		return nil
	}
	var parts []string
	if pending := snap.Pending(); len(pending) > 0 {
		parts = append(parts, "waiting for "+joinResources(pending))
	}
	for _, r := range snap.Failed() {
		parts = append(parts, fmt.Sprintf("%s failed: %s", r, snap.Statuses[r].Error))
	}
	return errors.New(strings.Join(parts, "; "))
}

func joinResources(rs []domain.Resource) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
