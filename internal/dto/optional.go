package dto

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null.
// Set is false when the field was omitted; Null is true when it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for fields present in the payload,
// including those whose value is null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil when the field is absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Cleared reports whether the payload explicitly set the field to null.
func (o Optional[T]) Cleared() bool {
	return o.Set && o.Null
}
