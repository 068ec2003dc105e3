package models

import (
	"github.com/goccy/go-json"
)

// Optional carries a patch field together with whether the client sent it.
// An explicit JSON null is treated the same as an absent field.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// MarshalJSON implements json.Marshaler
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Change is a single field assignment extracted from a patch. Field is the
// document key (JSON and BSON names are identical for every entity).
type Change struct {
	Field string
	Value interface{}
}

func appendChange[T any](changes []Change, field string, o Optional[T]) []Change {
	if o.Set {
		changes = append(changes, Change{Field: field, Value: o.Value})
	}
	return changes
}
