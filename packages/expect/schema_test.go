package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	schema := Schema(`{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}}}`)
	require.NoError(t, schema.Err())

	tests := []struct {
		name  string
		value any
		valid bool
	}{
		{name: "valid object", value: MustParseJSON(`{"id":7}`), valid: true},
		{name: "valid map", value: map[string]any{"id": 7, "extra": true}, valid: true},
		{name: "missing id", value: MustParseJSON(`{"name":"x"}`), valid: false},
		{name: "wrong type", value: Object{{Key: "id", Value: "seven"}}, valid: false},
		{name: "not an object", value: 7, valid: false},
		{name: "undefined", value: Undefined, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, schema.Test(tt.value))
			if tt.valid {
				assert.Empty(t, schema.Violations(tt.value))
			} else {
				assert.NotEmpty(t, schema.Violations(tt.value))
			}
		})
	}
}

func TestSchema_FromObject(t *testing.T) {
	schema := Schema(Object{
		{Key: "type", Value: "string"},
		{Key: "pattern", Value: "^a"},
	})
	require.NoError(t, schema.Err())
	assert.Equal(t, `schema {"type":"string","pattern":"^a"}`, schema.String())

	s := New("")
	assert.True(t, s.That("abc", "abc").Passes(schema))
	assert.False(t, s.That("xyz", "xyz").Passes(schema))
}

func TestSchema_Invalid(t *testing.T) {
	schema := Schema(`{"type": 12}`)
	assert.Error(t, schema.Err())
	assert.False(t, schema.Test("anything"))

	var nilSchema *SchemaTester
	assert.False(t, nilSchema.Test("anything"))
	assert.Error(t, nilSchema.Err())
}
