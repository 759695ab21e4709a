package optional

import "encoding/json"

// Optional is a tri-state JSON field: absent, explicit null, or a value.
// The zero value is absent. Absence is distinct from null, which matters
// for sparse updates where null clears a nullable column and absence
// leaves it alone.
type Optional[T any] struct {
	value   *T
	present bool
}

// FromValue returns a present Optional holding v.
func FromValue[T any](v T) Optional[T] {
	return Optional[T]{value: &v, present: true}
}

// Null returns a present Optional holding an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// Present reports whether the field appeared at all (value or null).
func (o Optional[T]) Present() bool {
	return o.present
}

// Value returns the held value, or nil when absent or explicitly null.
func (o Optional[T]) Value() *T {
	return o.value
}

var _ json.Unmarshaler = (*Optional[string])(nil)

// UnmarshalJSON is only invoked by encoding/json when the key appears in
// the payload, so Present becomes true for both values and explicit nulls.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = &v

	return nil
}

// MarshalJSON encodes the value, or null when absent or explicitly null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}
