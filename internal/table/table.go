// Package table filters, sorts and paginates in-memory rows for display.
//
// A Table is built once per row type from a list of columns and applied to a
// fresh slice on every request; it holds no per-request state and is safe for
// concurrent use.
package table

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterMode selects how a column's filter value is matched.
type FilterMode int

const (
	FilterNone  FilterMode = iota
	FilterText             // case-insensitive substring
	FilterExact            // whole-value equality
)

// Column describes one table column. Value returns the cell for a row:
// strings sort by locale collation, numbers numerically.
type Column[R any] struct {
	ID       string
	Header   string
	Value    func(R) any
	Filter   FilterMode
	Sortable bool
}

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is used when a table has no configured page size.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// Collator is not safe for concurrent use, so requests borrow one.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// Table is a set of columns plus defaults.
type Table[R any] struct {
	columns     []Column[R]
	byID        map[string]int
	defaultSort Sort
	pageSize    int
}

// New returns a table over the given columns.
func New[R any](cols ...Column[R]) *Table[R] {
	t := &Table[R]{
		columns:  cols,
		byID:     make(map[string]int, len(cols)),
		pageSize: DefaultPageSize,
	}
	for i, c := range cols {
		t.byID[c.ID] = i
	}
	return t
}

// WithDefaultSort sets the ordering used when a query names no valid sort
// column.
func (t *Table[R]) WithDefaultSort(s Sort) *Table[R] {
	t.defaultSort = s
	return t
}

// WithPageSize sets the page size used when a query carries an invalid one.
// Invalid sizes are ignored.
func (t *Table[R]) WithPageSize(n int) *Table[R] {
	if ValidPageSize(n) {
		t.pageSize = n
	}
	return t
}

// Columns returns the table's columns in display order.
func (t *Table[R]) Columns() []Column[R] {
	return t.columns
}

// Column looks up a column by id.
func (t *Table[R]) Column(id string) (Column[R], bool) {
	i, ok := t.byID[id]
	if !ok {
		return Column[R]{}, false
	}
	return t.columns[i], true
}

// Page is one page of a filtered and sorted result.
type Page[R any] struct {
	Rows      []R
	Total     int // rows matching the filters
	PageCount int
	Query     Query // effective query: sort, page and size after defaults
}

// CanPrev reports whether a previous page exists.
func (p Page[R]) CanPrev() bool { return p.Query.PageIndex > 0 }

// CanNext reports whether a next page exists.
func (p Page[R]) CanNext() bool { return p.Query.PageIndex+1 < p.PageCount }

// PageNumber is the 1-based index of the page.
func (p Page[R]) PageNumber() int { return p.Query.PageIndex + 1 }

// Apply filters, sorts and paginates rows. The input slice is not modified.
func (t *Table[R]) Apply(rows []R, q Query) Page[R] {
	eff := q.clone()
	if !ValidPageSize(eff.PageSize) {
		eff.PageSize = t.pageSize
	}
	if col, ok := t.Column(eff.Sort.Column); !ok || !col.Sortable {
		eff.Sort = t.defaultSort
	}

	out := t.filter(rows, eff.Filters)
	t.sort(out, eff.Sort)

	total := len(out)
	pageCount := max(1, (total+eff.PageSize-1)/eff.PageSize)
	if eff.PageIndex < 0 || eff.PageIndex >= pageCount {
		eff.PageIndex = 0
	}

	start := min(eff.PageIndex*eff.PageSize, total)
	end := min(start+eff.PageSize, total)
	return Page[R]{
		Rows:      out[start:end],
		Total:     total,
		PageCount: pageCount,
		Query:     eff,
	}
}

func (t *Table[R]) filter(rows []R, filters map[string]string) []R {
	type active struct {
		col   Column[R]
		value string
	}
	var preds []active
	for id, v := range filters {
		col, ok := t.Column(id)
		if !ok || col.Filter == FilterNone || v == "" {
			continue
		}
		if col.Filter == FilterText {
			v = strings.ToLower(v)
		}
		preds = append(preds, active{col: col, value: v})
	}

	out := make([]R, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, p := range preds {
			cell := CellString(p.col.Value(r))
			switch p.col.Filter {
			case FilterText:
				keep = strings.Contains(strings.ToLower(cell), p.value)
			case FilterExact:
				keep = cell == p.value
			}
			if !keep {
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table[R]) sort(rows []R, s Sort) {
	col, ok := t.Column(s.Column)
	if !ok {
		return
	}
	coll := collators.Get().(*collate.Collator)
	defer collators.Put(coll)

	slices.SortStableFunc(rows, func(a, b R) int {
		va, vb := col.Value(a), col.Value(b)
		// Unknown numbers go last regardless of direction.
		switch ma, mb := isNaN(va), isNaN(vb); {
		case ma && mb:
			return 0
		case ma:
			return 1
		case mb:
			return -1
		}
		c := compareCells(coll, va, vb)
		if s.Desc {
			return -c
		}
		return c
	})
}

// Options returns the distinct non-empty values of a column in collation
// order. It feeds the choices of exact-match filters.
func (t *Table[R]) Options(rows []R, columnID string) []string {
	col, ok := t.Column(columnID)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var opts []string
	for _, r := range rows {
		v := CellString(col.Value(r))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		opts = append(opts, v)
	}
	coll := collators.Get().(*collate.Collator)
	defer collators.Put(coll)
	slices.SortFunc(opts, coll.CompareString)
	return opts
}

// Find returns the first row whose key equals value.
func Find[R any, K comparable](rows []R, key func(R) K, value K) (R, bool) {
	for _, r := range rows {
		if key(r) == value {
			return r, true
		}
	}
	var zero R
	return zero, false
}

// CellString renders a cell value as text. Unknown numbers render empty.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func isNaN(v any) bool {
	f, ok := toFloat(v)
	return ok && math.IsNaN(f)
}

func compareCells(coll *collate.Collator, a, b any) int {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	if okA && okB {
		return cmp.Compare(fa, fb)
	}
	return coll.CompareString(CellString(a), CellString(b))
}
