package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
)

// Payload is an opaque structured document (content, style or config of a
// block). The core never interprets it; it only copies it.
type Payload map[string]any

// Clone returns a structural deep copy of p. Nested maps, slices, arrays,
// pointers and exported struct fields are copied whatever their element type.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return deepCopyValue(map[string]any(p)).(map[string]any)
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case Payload:
		return Payload(deepCopyValue(map[string]any(t)).(map[string]any))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = deepCopyValue(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = deepCopyValue(x)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, x := range t {
			out[i] = deepCopyValue(x).(map[string]any)
		}
		return out
	case nil:
		return nil
	default:
		return copyReflect(reflect.ValueOf(v)).Interface()
	}
}

// copyReflect handles values outside the JSON shapes, e.g. []int or
// map[string]string set by library callers.
func copyReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(copyReflect(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		it := v.MapRange()
		for it.Next() {
			out.SetMapIndex(it.Key(), copyReflect(it.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(copyReflect(v.Index(i)))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(copyReflect(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(copyReflect(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}

// Value implements driver.Valuer so a payload can be written as a JSON column.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON columns.
func (p *Payload) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("payload: unsupported column type %T", value)
	}
	if len(raw) == 0 {
		*p = nil
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	*p = m
	return nil
}

// ParsePayload decodes a JSON object. An empty string yields an empty payload.
func ParsePayload(s string) (Payload, error) {
	if s == "" {
		return Payload{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("invalid payload json: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
