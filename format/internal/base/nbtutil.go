package base

import (
	"math"
	"reflect"
)

// Decoded NBT trees arrive as map[string]any whose array tags may surface as
// Go slices, fixed-size arrays or []any depending on the decoder path. The
// helpers below normalise them.

// Require returns m[key] or a missing-field FormatError.
func Require(m map[string]any, path, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, Malformed(join(path, key), ErrMissingField)
	}
	return v, nil
}

// RequireInt returns the integer tag m[key].
func RequireInt(m map[string]any, path, key string) (int, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return 0, err
	}
	n, ok := Int(v)
	if !ok {
		return 0, Malformedf(join(path, key), "%w: expected int, got %T", ErrWrongType, v)
	}
	return n, nil
}

// OptionalInt returns the integer tag m[key] if present.
func OptionalInt(m map[string]any, path, key string) (int, bool, error) {
	if _, ok := m[key]; !ok {
		return 0, false, nil
	}
	n, err := RequireInt(m, path, key)
	return n, err == nil, err
}

// RequireDimension returns an unsigned 16-bit dimension tag.
func RequireDimension(m map[string]any, path, key string) (int, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return 0, err
	}
	s, ok := v.(int16)
	if !ok {
		return 0, Malformedf(join(path, key), "%w: expected short, got %T", ErrWrongType, v)
	}
	return int(uint16(s)), nil
}

// RequireString returns the string tag m[key].
func RequireString(m map[string]any, path, key string) (string, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", Malformedf(join(path, key), "%w: expected string, got %T", ErrWrongType, v)
	}
	return s, nil
}

// RequireCompound returns the compound tag m[key].
func RequireCompound(m map[string]any, path, key string) (map[string]any, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return nil, err
	}
	c, ok := v.(map[string]any)
	if !ok {
		return nil, Malformedf(join(path, key), "%w: expected compound, got %T", ErrWrongType, v)
	}
	return c, nil
}

// OptionalCompound returns the compound tag m[key] if present.
func OptionalCompound(m map[string]any, path, key string) (map[string]any, bool, error) {
	if _, ok := m[key]; !ok {
		return nil, false, nil
	}
	c, err := RequireCompound(m, path, key)
	return c, err == nil, err
}

// RequireBytes returns the byte array tag m[key].
func RequireBytes(m map[string]any, path, key string) ([]byte, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return nil, err
	}
	b, ok := Bytes(v)
	if !ok {
		return nil, Malformedf(join(path, key), "%w: expected byte array, got %T", ErrWrongType, v)
	}
	return b, nil
}

// OptionalVector returns the int[3] tag m[key], or the zero vector when absent.
func OptionalVector(m map[string]any, path, key string) ([3]int, error) {
	if _, ok := m[key]; !ok {
		return [3]int{}, nil
	}
	return RequireVector(m, path, key)
}

// RequireVector returns the int[3] tag m[key].
func RequireVector(m map[string]any, path, key string) ([3]int, error) {
	v, err := Require(m, path, key)
	if err != nil {
		return [3]int{}, err
	}
	parts, ok := Int32s(v)
	if !ok || len(parts) != 3 {
		return [3]int{}, Malformedf(join(path, key), "%w: expected int[3], got %T", ErrWrongType, v)
	}
	return [3]int{int(parts[0]), int(parts[1]), int(parts[2])}, nil
}

// OptionalCompoundList returns the list of compounds m[key] if present.
func OptionalCompoundList(m map[string]any, path, key string) ([]map[string]any, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	list, ok := Compounds(v)
	if !ok {
		return nil, false, Malformedf(join(path, key), "%w: expected list of compounds, got %T", ErrWrongType, v)
	}
	return list, true, nil
}

// Int converts any integer tag value to int.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int16:
		return int(n), true
	case int8:
		return int(n), true
	case uint8:
		return int(n), true
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// Bytes converts a byte array tag value.
func Bytes(v any) ([]byte, bool) {
	if b, ok := v.([]byte); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice) {
		return nil, false
	}
	out := make([]byte, rv.Len())
	for i := range out {
		switch e := rv.Index(i); e.Kind() {
		case reflect.Uint8:
			out[i] = byte(e.Uint())
		case reflect.Int8:
			out[i] = byte(e.Int())
		case reflect.Interface:
			n, ok := Int(e.Interface())
			if !ok {
				return nil, false
			}
			out[i] = byte(n)
		default:
			return nil, false
		}
	}
	return out, true
}

// Int32s converts an int array (or list of ints) tag value.
func Int32s(v any) ([]int32, bool) {
	if s, ok := v.([]int32); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice) {
		return nil, false
	}
	out := make([]int32, rv.Len())
	for i := range out {
		n, ok := Int(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = int32(n)
	}
	return out, true
}

// Float64s converts a list of doubles (or floats) tag value.
func Float64s(v any) ([]float64, bool) {
	if s, ok := v.([]float64); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Array && rv.Kind() != reflect.Slice) {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := range out {
		switch f := rv.Index(i).Interface().(type) {
		case float64:
			out[i] = f
		case float32:
			out[i] = float64(f)
		default:
			return nil, false
		}
	}
	return out, true
}

// Float32s converts a list of floats tag value.
func Float32s(v any) ([]float32, bool) {
	f64, ok := Float64s(v)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(f64))
	for i, f := range f64 {
		out[i] = float32(f)
	}
	return out, true
}

// Compounds converts a list of compounds tag value.
func Compounds(v any) ([]map[string]any, bool) {
	switch list := v.(type) {
	case []map[string]any:
		return list, true
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, e := range list {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Encodable copies a compound into values the NBT encoder accepts. Signed
// bytes and bools become TAG_Byte values, plain ints become TAG_Int (TAG_Long
// when out of range) and nil values are dropped.
func Encodable(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v = encodable(v); v != nil {
			out[k] = v
		}
	}
	return out
}

var (
	byteType  = reflect.TypeOf(uint8(0))
	int32Type = reflect.TypeOf(int32(0))
)

func encodable(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return Encodable(val)
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, m := range val {
			if out[i] = Encodable(m); out[i] == nil {
				out[i] = make(map[string]any)
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, e := range val {
			if e = encodable(e); e != nil {
				out = append(out, e)
			}
		}
		return out
	case int8:
		return uint8(val)
	case bool:
		if val {
			return uint8(1)
		}
		return uint8(0)
	case int:
		if val < math.MinInt32 || val > math.MaxInt32 {
			return int64(val)
		}
		return int32(val)
	case uint16:
		return int16(val)
	case uint32:
		return int32(val)
	case uint64:
		return int64(val)
	case []int8:
		out := make([]byte, len(val))
		for i, b := range val {
			out[i] = byte(b)
		}
		return out
	case []bool:
		out := make([]byte, len(val))
		for i, b := range val {
			if b {
				out[i] = 1
			}
		}
		return out
	case []int:
		out := make([]int32, len(val))
		for i, n := range val {
			out[i] = int32(n)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array {
		return v
	}
	switch rv.Type().Elem().Kind() {
	case reflect.Int8:
		arr := reflect.New(reflect.ArrayOf(rv.Len(), byteType)).Elem()
		for i := range rv.Len() {
			arr.Index(i).SetUint(uint64(uint8(rv.Index(i).Int())))
		}
		return arr.Interface()
	case reflect.Int:
		arr := reflect.New(reflect.ArrayOf(rv.Len(), int32Type)).Elem()
		for i := range rv.Len() {
			arr.Index(i).SetInt(int64(int32(rv.Index(i).Int())))
		}
		return arr.Interface()
	}
	return v
}
