package inspection

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Optional tells apart a field the client omitted, one it explicitly set
// to null, and one it set to a value. Use it with `json:",omitzero"`.
type Optional[T any] struct {
	set   bool
	null  bool
	value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{set: true, value: v} }

func Null[T any]() Optional[T] { return Optional[T]{set: true, null: true} }

// IsSet reports whether the field was present at all.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports an explicit clear.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the value when present and not null.
func (o Optional[T]) Value() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

func (o Optional[T]) IsZero() bool { return !o.set }

// ValueType exposes T for schema generation.
func (o Optional[T]) ValueType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// applyValue writes the value, or the zero value on an explicit null.
func applyValue[T any](o Optional[T], dst *T) {
	if !o.set {
		return
	}
	if o.null {
		var zero T
		*dst = zero
		return
	}
	*dst = o.value
}

// applyPointer writes a copy of the value, or nil on an explicit null.
func applyPointer[T any](o Optional[T], dst **T) {
	if !o.set {
		return
	}
	if o.null {
		*dst = nil
		return
	}
	v := o.value
	*dst = &v
}

func pointerOf[T any](o Optional[T]) *T {
	v, ok := o.Value()
	if !ok {
		return nil
	}
	return &v
}
