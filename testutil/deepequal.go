package testutil

import "reflect"

// DeepEqual is like reflect.DeepEqual, but treats nil as equal to
// empty maps and slices, and compares unexported struct fields.
// It does not follow cycles.
func DeepEqual(x, y interface{}) bool {
	return deepEqual(reflect.ValueOf(x), reflect.ValueOf(y))
}

func deepEqual(x, y reflect.Value) bool {
	if isEmpty(x) && isEmpty(y) {
		return true
	}
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !deepEqual(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.MapKeys() {
			if !deepEqual(x.MapIndex(k), y.MapIndex(k)) {
				return false
			}
		}
		return true

	case reflect.Interface, reflect.Ptr:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		if x.Kind() == reflect.Ptr && x.Pointer() == y.Pointer() {
			return true
		}
		return deepEqual(x.Elem(), y.Elem())

	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !deepEqual(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true

	case reflect.Func:
		return x.IsNil() && y.IsNil()

	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.String:
		return x.String() == y.String()
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	}
	return false
}
