package expect

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaTester is a Tester that validates values against a JSON Schema.
type SchemaTester struct {
	text   string
	schema *gojsonschema.Schema
	err    error
}

// Schema compiles a JSON Schema for use with Passes. The schema may be JSON
// text or any value Stringify can serialize, such as an Object. A schema
// that fails to compile makes every test fail; Err reports why.
func Schema(schema any) *SchemaTester {
	text, ok := schema.(string)
	if !ok {
		text, ok = Stringify(schema)
		if !ok {
			return &SchemaTester{err: fmt.Errorf("schema is not serializable")}
		}
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(text))
	if err != nil {
		return &SchemaTester{text: text, err: fmt.Errorf("failed to compile schema: %w", err)}
	}
	return &SchemaTester{text: text, schema: compiled}
}

// Err returns the compile error, if any.
func (s *SchemaTester) Err() error {
	if s == nil {
		return fmt.Errorf("nil schema")
	}
	return s.err
}

// Test validates actually.
func (s *SchemaTester) Test(actually any) bool {
	if s == nil || s.schema == nil {
		return false
	}
	doc, ok := Stringify(actually)
	if !ok {
		return false
	}
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return false
	}
	return result.Valid()
}

// Violations lists the validation errors for actually. It returns nil when
// actually is valid.
func (s *SchemaTester) Violations(actually any) []string {
	if err := s.Err(); err != nil {
		return []string{err.Error()}
	}
	doc, ok := Stringify(actually)
	if !ok {
		return []string{"value is not serializable"}
	}
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return []string{err.Error()}
	}
	var out []string
	for _, desc := range result.Errors() {
		out = append(out, desc.String())
	}
	return out
}

// String shows the schema in text reports.
func (s *SchemaTester) String() string {
	if s == nil {
		return "schema <nil>"
	}
	return "schema " + s.text
}

// MarshalJSON writes the schema document.
func (s *SchemaTester) MarshalJSON() ([]byte, error) {
	if s == nil || s.text == "" {
		return []byte("null"), nil
	}
	return []byte(s.text), nil
}
