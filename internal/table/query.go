package table

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
)

const filterPrefix = "f."

// Sort is the active sort column and direction.
type Sort struct {
	Column string
	Desc   bool
}

// Query is the table state carried in a request URL.
type Query struct {
	Filters   map[string]string
	Sort      Sort
	PageIndex int // 0-based
	PageSize  int
}

// ParseQuery reads table state from URL parameters:
// f.<column>=value, sort=<column>, order=asc|desc, page=<1-based>, size=<n>.
// Malformed numbers are treated as missing.
func ParseQuery(values url.Values) Query {
	q := Query{Filters: make(map[string]string)}
	for key, vs := range values {
		if col, ok := strings.CutPrefix(key, filterPrefix); ok && col != "" && len(vs) > 0 {
			// Blank filters are dropped; others are kept verbatim.
			if strings.TrimSpace(vs[0]) != "" {
				q.Filters[col] = vs[0]
			}
		}
	}
	q.Sort.Column = values.Get("sort")
	q.Sort.Desc = strings.EqualFold(values.Get("order"), "desc")
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.PageIndex = page - 1
	}
	if size, err := strconv.Atoi(values.Get("size")); err == nil {
		q.PageSize = size
	}
	return q
}

// Values encodes the query back into URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	for col, f := range q.Filters {
		if f != "" {
			v.Set(filterPrefix+col, f)
		}
	}
	if q.Sort.Column != "" {
		v.Set("sort", q.Sort.Column)
		if q.Sort.Desc {
			v.Set("order", "desc")
		} else {
			v.Set("order", "asc")
		}
	}
	if q.PageIndex > 0 {
		v.Set("page", strconv.Itoa(q.PageIndex+1))
	}
	if q.PageSize > 0 {
		v.Set("size", strconv.Itoa(q.PageSize))
	}
	return v
}

// Encode is Values().Encode().
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Filter returns the filter value of a column.
func (q Query) Filter(column string) string {
	return q.Filters[column]
}

// WithPage returns a copy of q on the given 0-based page.
func (q Query) WithPage(index int) Query {
	c := q.clone()
	c.PageIndex = index
	return c
}

// WithSortToggle returns a copy of q sorted by column: ascending when the
// column is not the current sort, otherwise the direction flips. The page
// resets to the first.
func (q Query) WithSortToggle(column string) Query {
	c := q.clone()
	if c.Sort.Column == column {
		c.Sort.Desc = !c.Sort.Desc
	} else {
		c.Sort = Sort{Column: column}
	}
	c.PageIndex = 0
	return c
}

// WithPageSize returns a copy of q with a new page size, back on the first
// page.
func (q Query) WithPageSize(size int) Query {
	c := q.clone()
	c.PageSize = size
	c.PageIndex = 0
	return c
}

func (q Query) clone() Query {
	c := q
	c.Filters = maps.Clone(q.Filters)
	if c.Filters == nil {
		c.Filters = make(map[string]string)
	}
	return c
}
