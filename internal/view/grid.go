// Package view builds the tables, detail pages and map features shown by the
// dashboard from normalized records.
package view

import (
	"github.com/couchcryptid/geomag-metadata-service/internal/table"
)

// Header is a rendered column header with its sort link and filter control.
type Header struct {
	ID          string
	Label       string
	Sortable    bool
	SortHref    string
	Sorted      bool
	Desc        bool
	Filter      table.FilterMode
	FilterValue string
	Options     []string // choices for exact filters
}

// TextFilter reports whether the column takes a free-text filter.
func (h Header) TextFilter() bool { return h.Filter == table.FilterText }

// ExactFilter reports whether the column takes a choice filter.
func (h Header) ExactFilter() bool { return h.Filter == table.FilterExact }

// Cell is a rendered table cell; Href is set for link cells.
type Cell struct {
	Text string
	Href string
}

// SizeLink switches the page size.
type SizeLink struct {
	Size    int
	Href    string
	Current bool
}

// Grid is a table page ready for a template.
type Grid struct {
	Path       string
	Headers    []Header
	Rows       [][]Cell
	Total      int
	PageNumber int
	PageCount  int
	PrevHref   string
	NextHref   string
	Sizes      []SizeLink
	Query      table.Query
}

// Linker returns the target of a link cell for a row, or "" for plain text.
type Linker[R any] func(R) string

// BuildGrid renders one page of rows. all is the unfiltered row set and feeds
// the options of exact-match filters; links maps column ids to link targets.
func BuildGrid[R any](path string, t *table.Table[R], all []R, page table.Page[R], links map[string]Linker[R]) Grid {
	q := page.Query
	g := Grid{
		Path:       path,
		Total:      page.Total,
		PageNumber: page.PageNumber(),
		PageCount:  page.PageCount,
		Query:      q,
	}

	for _, col := range t.Columns() {
		h := Header{
			ID:          col.ID,
			Label:       col.Header,
			Sortable:    col.Sortable,
			Filter:      col.Filter,
			FilterValue: q.Filter(col.ID),
		}
		if col.Sortable {
			h.SortHref = href(path, q.WithSortToggle(col.ID))
			h.Sorted = q.Sort.Column == col.ID
			h.Desc = h.Sorted && q.Sort.Desc
		}
		if col.Filter == table.FilterExact {
			h.Options = t.Options(all, col.ID)
		}
		g.Headers = append(g.Headers, h)
	}

	g.Rows = make([][]Cell, 0, len(page.Rows))
	for _, r := range page.Rows {
		cells := make([]Cell, 0, len(t.Columns()))
		for _, col := range t.Columns() {
			c := Cell{Text: table.CellString(col.Value(r))}
			if link, ok := links[col.ID]; ok {
				c.Href = link(r)
			}
			cells = append(cells, c)
		}
		g.Rows = append(g.Rows, cells)
	}

	if page.CanPrev() {
		g.PrevHref = href(path, q.WithPage(q.PageIndex-1))
	}
	if page.CanNext() {
		g.NextHref = href(path, q.WithPage(q.PageIndex+1))
	}
	for _, size := range table.PageSizes {
		g.Sizes = append(g.Sizes, SizeLink{
			Size:    size,
			Href:    href(path, q.WithPageSize(size)),
			Current: size == q.PageSize,
		})
	}
	return g
}

func href(path string, q table.Query) string {
	enc := q.Encode()
	if enc == "" {
		return path
	}
	return path + "?" + enc
}
