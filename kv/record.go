package kv

import "reflect"

// Record is a stored document: field name to value. Values are strings,
// numbers, booleans, nil, nested maps or slices.
type Record map[string]any

// idField is the field holding a record's own composite key.
const idField = "id"

// Clone returns a deep copy of r. Maps, slices and arrays of any element
// type are copied recursively; other values, pointers included, are copied
// by assignment.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Record:
		return Record(cloneMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case nil:
		return nil
	default:
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Array:
			return cloneReflect(reflect.ValueOf(v)).Interface()
		}
		return v
	}
}

// cloneReflect copies typed containers such as []string or
// map[string][]int, keeping their static type.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneElem(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneElem(v.Index(i)))
		}
		return out
	default:
		return v
	}
}

// cloneElem copies one container element. Interface elements go back
// through cloneValue so []any and map[string]any nested in typed
// containers are handled too.
func cloneElem(e reflect.Value) reflect.Value {
	if e.Kind() != reflect.Interface {
		return cloneReflect(e)
	}
	if e.IsNil() {
		return e
	}
	return reflect.ValueOf(cloneValue(e.Interface()))
}
