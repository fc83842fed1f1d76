package domain

import "fmt"

// FetchError reports a network, HTTP or decoding failure for a resource.
type FetchError struct {
	Resource   Resource
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DataShapeError describes a payload entry that could not be normalized.
// Normalizers default missing fields where they can and only report entries
// they had to skip.
type DataShapeError struct {
	Resource Resource
	Index    int
	Field    string
	Reason   string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("%s entry %d: %s %s", e.Resource, e.Index, e.Field, e.Reason)
}
