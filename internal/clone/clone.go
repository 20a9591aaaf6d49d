// Package clone provides the deep-copy and value-merge primitives the
// params engine uses to materialize defaults without aliasing descriptor
// state into instance storage.
package clone

import "reflect"

// Of returns a deep copy of value, preserving the static type.
func Of[T any](value T) T {
	var zero T
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return zero
	}
	if cloned.Type() != reflect.TypeOf(zero) {
		result := reflect.New(reflect.TypeOf(zero)).Elem()
		result.Set(cloned.Convert(reflect.TypeOf(zero)))
		return result.Interface().(T)
	}
	return cloned.Interface().(T)
}

// Value deep-copies an arbitrary value. Nil stays nil.
func Value(value any) any {
	if value == nil {
		return nil
	}
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return nil
	}
	return cloned.Interface()
}

// MergeValues overlays strong on top of weak, returning a new map. Values
// from strong win; nested maps merge recursively; inputs are never mutated.
func MergeValues(strong, weak map[string]any) map[string]any {
	out := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		out[key] = Value(value)
	}
	for key, value := range strong {
		if strongMap, ok := value.(map[string]any); ok {
			if weakMap, ok := out[key].(map[string]any); ok {
				out[key] = MergeValues(strongMap, weakMap)
				continue
			}
		}
		out[key] = Value(value)
	}
	return out
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		// Pointers to structs with unexported state are opaque handles, not
		// data; share them rather than producing a crippled twin.
		if v.Type().Elem().Kind() == reflect.Struct && hasUnexportedFields(v.Type().Elem()) {
			return v
		}
		cloned := reflect.New(v.Type().Elem())
		cloned.Elem().Set(cloneValue(v.Elem()))
		return cloned
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		return elem.Convert(v.Type())
	case reflect.Struct:
		cloned := reflect.New(v.Type()).Elem()
		cloned.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := cloned.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return cloned
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cloned := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cloned.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return cloned
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cloned := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			cloned.Index(i).Set(cloneValue(v.Index(i)))
		}
		return cloned
	case reflect.Array:
		cloned := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			cloned.Index(i).Set(cloneValue(v.Index(i)))
		}
		return cloned
	default:
		return reflect.ValueOf(v.Interface())
	}
}

func hasUnexportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			return true
		}
	}
	return false
}
