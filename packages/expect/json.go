package expect

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by ParseJSON for malformed documents.
var ErrInvalidJSON = errors.New("invalid JSON")

// ParseJSON parses a JSON document into plain values: objects become Object
// (keeping document key order), arrays []any, numbers json.Number, and
// strings, booleans and null their Go equivalents.
func ParseJSON(doc string) (any, error) {
	if !gjson.Valid(doc) {
		return nil, ErrInvalidJSON
	}
	return fromGJSON(gjson.Parse(doc)), nil
}

// MustParseJSON is like ParseJSON but panics on malformed input. It is meant
// for literals in test code.
func MustParseJSON(doc string) any {
	v, err := ParseJSON(doc)
	if err != nil {
		panic(err)
	}
	return v
}

func fromGJSON(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return r.Str
	}
	if r.IsArray() {
		items := []any{}
		r.ForEach(func(_, value gjson.Result) bool {
			items = append(items, fromGJSON(value))
			return true
		})
		return items
	}
	if r.IsObject() {
		obj := Object{}
		r.ForEach(func(key, value gjson.Result) bool {
			obj = append(obj, Field{Key: key.Str, Value: fromGJSON(value)})
			return true
		})
		return obj
	}
	return Undefined
}
