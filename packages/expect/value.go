package expect

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// undefined marks a value that is absent, as opposed to nil (null).
type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the value of a missing key, a missing error field or an
// assertion made without an actual value. It never serializes to JSON.
var Undefined any = undefined{}

func isUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON-like object whose keys keep insertion order. Use it
// wherever key order must be significant, since Go maps iterate (and
// serialize) in sorted key order.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Undefined, false
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, f := range o {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON serializes the object with its keys in insertion order.
func (o Object) MarshalJSON() ([]byte, error) {
	s, _ := Stringify(o)
	return []byte(s), nil
}

// normalize turns parsed JSON representations into plain values.
func normalize(v any) any {
	switch x := v.(type) {
	case gjson.Result:
		if !x.Exists() {
			return Undefined
		}
		return fromGJSON(x)
	case *gjson.Result:
		if x == nil {
			return nil
		}
		return normalize(*x)
	case json.RawMessage:
		if parsed, err := ParseJSON(string(x)); err == nil {
			return parsed
		}
	}
	return v
}

// truthy follows JavaScript truthiness: false, zero, NaN, "", null and
// undefined are falsy, everything else (including empty objects) is truthy.
func truthy(v any) bool {
	v = normalize(v)
	switch x := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// strictEqual is identity: comparable values compare with ==, reference
// kinds compare by address, and nothing is coerced.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// lookup returns the value stored under key in an object-like value:
// an Object, a map with string keys, a struct or a parsed JSON document.
// Struct fields match their JSON name first, then case-insensitively.
func lookup(v any, key string) (any, bool) {
	v = normalize(v)
	switch x := v.(type) {
	case nil, undefined:
		return Undefined, false
	case Object:
		return x.Get(key)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Undefined, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return Undefined, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		fields := structFields(rv.Type())
		for _, f := range fields {
			if f.name == key {
				return rv.FieldByIndex(f.index).Interface(), true
			}
		}
		for _, f := range fields {
			if strings.EqualFold(f.name, key) {
				return rv.FieldByIndex(f.index).Interface(), true
			}
		}
	}
	return Undefined, false
}

// keysOf lists the keys of an object-like value in serialization order.
// Anything that is not object-like has no keys.
func keysOf(v any) []string {
	v = normalize(v)
	if o, ok := v.(Object); ok {
		return o.Keys()
	}
	if v == nil || isUndefined(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return keys
	case reflect.Struct:
		fields := structFields(rv.Type())
		keys := make([]string, len(fields))
		for i, f := range fields {
			keys[i] = f.name
		}
		return keys
	}
	return nil
}

// errorField extracts the error carried by a value. Go errors carry their
// message; object-like values carry their "error" key.
func errorField(v any) (any, bool) {
	if err, ok := v.(error); ok {
		rv := reflect.ValueOf(err)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Undefined, false
		}
		return err.Error(), true
	}
	return lookup(v, "error")
}

// Display returns the text the reports show for v: strings as they are,
// null and undefined by name, and other values as JSON.
func Display(v any) string {
	return display(v)
}

// circular is displayed for values that contain themselves.
const circular = "[Circular]"

func display(v any) string {
	v = normalize(v)
	switch x := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return x
	case *regexp.Regexp:
		if x == nil {
			return "null"
		}
		return "/" + x.String() + "/"
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}
	s, ok, cyclic := serialize(v)
	switch {
	case ok:
		return s
	case cyclic:
		return circular
	}
	return fmt.Sprint(v)
}

type structField struct {
	name      string
	index     []int
	omitEmpty bool
}

// structFields lists exported fields in declaration order using their JSON
// names. Untagged embedded structs are flattened.
func structFields(t reflect.Type) []structField {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct && sf.IsExported() {
			for _, inner := range structFields(sf.Type) {
				inner.index = append([]int{i}, inner.index...)
				fields = append(fields, inner)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, structField{
			name:      name,
			index:     []int{i},
			omitEmpty: strings.Contains(opts, "omitempty"),
		})
	}
	return fields
}
