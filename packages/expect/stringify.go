package expect

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Stringify serializes v to compact JSON deterministically. Object keys keep
// insertion order, struct fields keep declaration order and map keys are
// sorted. Undefined, functions and channels cannot be serialized: Stringify
// reports false for them at the top level, drops them from objects and
// writes null for them inside arrays. A value that contains itself cannot be
// serialized either.
func Stringify(v any) (string, bool) {
	s, ok, _ := serialize(v)
	return s, ok
}

// serialize is Stringify that also reports whether v failed because it
// contains itself.
func serialize(v any) (s string, ok, cyclic bool) {
	var sb strings.Builder
	e := &encoder{active: make(map[visit]struct{})}
	if !e.writeJSON(&sb, v) || e.cyclic {
		return "", false, e.cyclic
	}
	return sb.String(), true, false
}

// jsonText is the recorded form of a serialized value.
func jsonText(v any) any {
	if s, ok := Stringify(v); ok {
		return s
	}
	return Undefined
}

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// visit identifies a map, slice or pointer being written.
type visit struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// encoder tracks the references on the current path so a self-referencing
// value fails instead of recursing forever.
type encoder struct {
	active map[visit]struct{}
	cyclic bool
}

// enter marks rv as being written. It returns false when rv is already on
// the path, and the caller must then stop descending.
func (e *encoder) enter(rv reflect.Value) (visit, bool) {
	key := visit{typ: rv.Type(), ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	if _, ok := e.active[key]; ok {
		e.cyclic = true
		return key, false
	}
	e.active[key] = struct{}{}
	return key, true
}

func (e *encoder) leave(key visit) {
	delete(e.active, key)
}

func (e *encoder) writeJSON(sb *strings.Builder, v any) bool {
	v = normalize(v)
	switch x := v.(type) {
	case nil:
		sb.WriteString("null")
		return true
	case undefined:
		return false
	case LogEntry:
		return e.writeJSON(sb, x.object())
	case Object:
		if len(x) > 0 {
			key, ok := e.enter(reflect.ValueOf(x))
			if !ok {
				return false
			}
			defer e.leave(key)
		}
		sb.WriteByte('{')
		first := true
		for _, f := range x {
			var field strings.Builder
			if !e.writeJSON(&field, f.Value) {
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			writeQuoted(sb, f.Key)
			sb.WriteByte(':')
			sb.WriteString(field.String())
		}
		sb.WriteByte('}')
		return true
	case json.Number:
		if x == "" {
			sb.WriteString("0")
		} else {
			sb.WriteString(string(x))
		}
		return true
	case string:
		writeQuoted(sb, x)
		return true
	case bool:
		sb.WriteString(strconv.FormatBool(x))
		return true
	}

	rv := reflect.ValueOf(v)
	if rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			sb.WriteString("null")
			return true
		}
		data, err := json.Marshal(v)
		if err != nil {
			return false
		}
		sb.Write(data)
		return true
	}
	return e.writeReflect(sb, rv)
}

func (e *encoder) writeReflect(sb *strings.Builder, rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Bool:
		sb.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		sb.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		sb.WriteString(formatNumber(rv.Float(), 32))
	case reflect.Float64:
		sb.WriteString(formatNumber(rv.Float(), 64))
	case reflect.String:
		writeQuoted(sb, rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			sb.WriteString("null")
			return true
		}
		if rv.Kind() == reflect.Pointer {
			key, ok := e.enter(rv)
			if !ok {
				return false
			}
			defer e.leave(key)
		}
		return e.writeJSON(sb, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("null")
			return true
		}
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			key, ok := e.enter(rv)
			if !ok {
				return false
			}
			defer e.leave(key)
		}
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			if !e.writeJSON(sb, rv.Index(i).Interface()) {
				sb.WriteString("null")
			}
		}
		sb.WriteByte(']')
	case reflect.Map:
		if rv.IsNil() {
			sb.WriteString("null")
			return true
		}
		key, ok := e.enter(rv)
		if !ok {
			return false
		}
		defer e.leave(key)
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = mapKeyName(k)
			byName[names[i]] = k
		}
		sort.Strings(names)
		obj := make(Object, 0, len(names))
		for _, name := range names {
			obj = append(obj, Field{Key: name, Value: rv.MapIndex(byName[name]).Interface()})
		}
		return e.writeJSON(sb, obj)
	case reflect.Struct:
		fields := structFields(rv.Type())
		obj := make(Object, 0, len(fields))
		for _, f := range fields {
			fv := rv.FieldByIndex(f.index)
			if f.omitEmpty && isEmptyValue(fv) {
				continue
			}
			obj = append(obj, Field{Key: f.name, Value: fv.Interface()})
		}
		return e.writeJSON(sb, obj)
	default:
		return false
	}
	return true
}

func mapKeyName(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	}
	return display(k.Interface())
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// formatNumber writes numbers the way JavaScript prints them: plain decimal
// notation between 1e-6 and 1e21, exponent notation outside, null for NaN
// and infinities.
func formatNumber(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, bits)
		s = strings.Replace(s, "e+0", "e+", 1)
		return strings.Replace(s, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s as a JSON string literal. Unlike encoding/json it
// leaves <, > and & alone.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"', '\\':
				sb.WriteByte('\\')
				sb.WriteByte(c)
			case '\b':
				sb.WriteString(`\b`)
			case '\f':
				sb.WriteString(`\f`)
			case '\n':
				sb.WriteString(`\n`)
			case '\r':
				sb.WriteString(`\r`)
			case '\t':
				sb.WriteString(`\t`)
			default:
				if c < 0x20 {
					sb.WriteString(`\u00`)
					sb.WriteByte(hexDigits[c>>4])
					sb.WriteByte(hexDigits[c&0xf])
				} else {
					sb.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte('"')
}

// quote returns s as a JSON string literal.
func quote(s string) string {
	var sb strings.Builder
	writeQuoted(&sb, s)
	return sb.String()
}
