package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Presence records how a JSON key appeared in a payload.
type Presence uint8

const (
	Absent Presence = iota
	Null
	Present
)

// Nullable is a field whose absence, explicit null and value are
// distinguishable after decoding.
type Nullable[T any] struct {
	Value    T
	Presence Presence
}

// Some returns a present Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Presence: Present}
}

// IsSet reports whether the field carried a non-null value.
func (n Nullable[T]) IsSet() bool { return n.Presence == Present }

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value = zero
		n.Presence = Null
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Presence = Present
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.IsSet() {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Number is a JSON number that may also arrive as a numeric string.
// Absent, null or unparsable values are invalid and read back as NaN.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*n = Number{}
		return nil
	}
	s := string(data)
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = Number{}
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Float returns the value, or NaN when invalid.
func (n Number) Float() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

// Text is a JSON scalar read as a string. Numbers and booleans keep their
// literal spelling; null reads as empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, jsonNull):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("text field: unexpected %q", data[0])
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }
