package expect

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStringify(t *testing.T) {
	type inner struct {
		Z int `json:"z"`
	}
	type withTags struct {
		Name    string `json:"name"`
		Skip    string `json:"-"`
		Empty   string `json:"empty,omitempty"`
		Plain   int
		private int
		inner
	}

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "null", value: nil, want: "null"},
		{name: "string", value: "a\"b\n<c>", want: `"a\"b\n<c>"`},
		{name: "bool", value: true, want: "true"},
		{name: "int", value: 42, want: "42"},
		{name: "uint8", value: uint8(7), want: "7"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "whole float", value: 120.0, want: "120"},
		{name: "large float", value: 1e21, want: "1e+21"},
		{name: "small float", value: 1e-7, want: "1e-7"},
		{name: "NaN", value: math.NaN(), want: "null"},
		{name: "json number", value: json.Number("3.25"), want: "3.25"},
		{name: "object keeps order", value: Object{{Key: "b", Value: 2}, {Key: "a", Value: 1}}, want: `{"b":2,"a":1}`},
		{name: "object drops undefined", value: Object{{Key: "a", Value: Undefined}, {Key: "b", Value: 1}}, want: `{"b":1}`},
		{name: "object drops funcs", value: Object{{Key: "f", Value: func() {}}}, want: `{}`},
		{name: "map sorts keys", value: map[string]int{"b": 2, "a": 1}, want: `{"a":1,"b":2}`},
		{name: "int map keys", value: map[int]string{2: "b", 10: "a"}, want: `{"10":"a","2":"b"}`},
		{name: "array undefined becomes null", value: []any{1, Undefined, func() {}}, want: `[1,null,null]`},
		{name: "nil slice", value: []int(nil), want: "null"},
		{name: "empty slice", value: []int{}, want: "[]"},
		{name: "bytes as numbers", value: [2]byte{1, 2}, want: "[1,2]"},
		{name: "struct", value: withTags{Name: "n", Skip: "s", Plain: 3, private: 4, inner: inner{Z: 5}}, want: `{"name":"n","Plain":3}`},
		{name: "pointer", value: &inner{Z: 1}, want: `{"z":1}`},
		{name: "nil pointer", value: (*inner)(nil), want: "null"},
		{name: "marshaler", value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: `"2024-01-02T03:04:05Z"`},
		{name: "gjson result", value: gjson.Parse(`{"b":[1,{"c":null}],"a":"x"}`), want: `{"b":[1,{"c":null}],"a":"x"}`},
		{name: "raw message", value: json.RawMessage(`{"z":1, "y":2}`), want: `{"z":1,"y":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Stringify(tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringify_Unserializable(t *testing.T) {
	for name, v := range map[string]any{
		"undefined": Undefined,
		"func":      func() {},
		"chan":      make(chan int),
		"complex":   complex(1, 2),
		"missing":   gjson.Get(`{}`, "nope"),
		"cyclic map": func() any {
			m := map[string]any{}
			m["self"] = m
			return m
		}(),
		"cyclic slice": func() any {
			s := []any{nil}
			s[0] = s
			return s
		}(),
		"cyclic pointer": func() any {
			type node struct{ Next *node }
			n := &node{}
			n.Next = n
			return n
		}(),
		"cyclic object": func() any {
			o := Object{{Key: "a"}}
			o[0].Value = o
			return o
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := Stringify(v)
			assert.False(t, ok)
		})
	}
}

func TestStringify_SharedReferenceIsNotCyclic(t *testing.T) {
	shared := []int{1, 2}
	text, ok := Stringify(map[string]any{"a": shared, "b": shared})
	require.True(t, ok)
	assert.Equal(t, `{"a":[1,2],"b":[1,2]}`, text)
}

func TestStringify_CyclicValueInSuite(t *testing.T) {
	m := map[string]any{}
	m["self"] = m

	s := New("cyc")
	assert.False(t, s.That("stringifies", m).StringifiesTo(Object{}))
	assert.False(t, s.That("is", m).Is(1))
	assert.False(t, s.That("has", m).Has(Object{{Key: "self", Value: 1}}))

	out, err := s.Render(FormatPlain)
	require.NoError(t, err)
	assert.Contains(t, out, "actually: "+circular)
}

func TestTruthy(t *testing.T) {
	truthyValues := []any{true, 1, -1, 0.5, "x", Object{}, []int{}, map[string]int{}, errors.New("e"), json.Number("2"), struct{}{}}
	falsyValues := []any{false, 0, 0.0, math.NaN(), "", nil, Undefined, json.Number("0"), (*int)(nil), []int(nil)}

	for _, v := range truthyValues {
		assert.True(t, truthy(v), "%#v", v)
	}
	for _, v := range falsyValues {
		assert.False(t, truthy(v), "%#v", v)
	}
}

func TestLookup(t *testing.T) {
	type user struct {
		Name  string `json:"name"`
		Email string
	}

	tests := []struct {
		name  string
		value any
		key   string
		want  any
		found bool
	}{
		{name: "object", value: Object{{Key: "a", Value: 1}}, key: "a", want: 1, found: true},
		{name: "object missing", value: Object{{Key: "a", Value: 1}}, key: "b", want: Undefined},
		{name: "map", value: map[string]any{"a": "x"}, key: "a", want: "x", found: true},
		{name: "struct json name", value: user{Name: "Ada"}, key: "name", want: "Ada", found: true},
		{name: "struct fold", value: &user{Email: "a@b"}, key: "email", want: "a@b", found: true},
		{name: "nil", value: nil, key: "a", want: Undefined},
		{name: "scalar", value: 3, key: "a", want: Undefined},
		{name: "int keyed map", value: map[int]int{1: 1}, key: "1", want: Undefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := lookup(tt.value, tt.key)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "undefined", display(Undefined))
	assert.Equal(t, "null", display(nil))
	assert.Equal(t, "abc", display("abc"))
	assert.Equal(t, "6", display(6))
	assert.Equal(t, `{"a":[1,2]}`, display(Object{{Key: "a", Value: []int{1, 2}}}))
	assert.Equal(t, "boom", display(errors.New("boom")))
}

func TestParseJSON(t *testing.T) {
	v, err := ParseJSON(`{"b":1,"a":[true,null,"s",2.5]}`)
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, []any{true, nil, "s", json.Number("2.5")}, a)

	_, err = ParseJSON(`{"a":`)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	assert.Panics(t, func() { MustParseJSON(`nope`) })
}

func TestObject_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Object{{Key: "z", Value: 1}, {Key: "a", Value: "x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x"}`, string(data))
}
