package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/expect/packages/expect"
)

var yamlErrorLine = regexp.MustCompile(`^yaml: line (\d+): `)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

type Option func(*Parser)

// WithFormat overrides the format derived from the file name.
func WithFormat(format Format) Option {
	return func(p *Parser) {
		p.format = format
	}
}

// WithWarnFunc sets a function to be called for unknown keys.
func WithWarnFunc(fn WarnFunc) Option {
	return func(p *Parser) {
		p.warnFunc = fn
	}
}

type Parser struct {
	file     string
	format   Format
	warnFunc WarnFunc
}

func NewParser(filename string, opts ...Option) *Parser {
	p := &Parser{
		file:   filename,
		format: FormatForPath(filename),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FormatForPath returns FormatJSON for .json files and FormatYAML for
// everything else.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func ParseFile(path string, opts ...Option) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content, path, opts...)
}

func Parse(input []byte, filename string, opts ...Option) (*File, error) {
	return NewParser(filename, opts...).Parse(input)
}

// Parse decodes a scenario document. JSON input is validated strictly
// before it is read through the YAML decoder, which keeps key order and
// line numbers for both formats.
func (p *Parser) Parse(input []byte) (*File, error) {
	if p.format == FormatJSON && !gjson.ValidBytes(input) {
		return nil, p.errorf(nil, "invalid JSON")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(input, &doc); err != nil {
		return nil, p.yamlError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, p.errorf(nil, "empty scenario")
	}
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, p.errorf(root, "scenario must be a mapping")
	}

	file := &File{Path: p.file}
	err := p.eachKey(root, func(key string, keyNode, val *yaml.Node) error {
		var err error
		switch key {
		case "title":
			file.Title, err = p.text(val, "title")
		case "variables":
			file.Variables, err = p.parseVariables(val)
		case "assertions":
			file.Assertions, err = p.parseAssertions(val)
		case "sections":
			file.Sections, err = p.parseSections(val)
		default:
			p.warnUnknown(keyNode, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (p *Parser) parseVariables(n *yaml.Node) ([]*Variable, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(n, "variables must be a mapping")
	}
	var vars []*Variable
	err := p.eachKey(n, func(key string, keyNode, val *yaml.Node) error {
		v, err := p.value(val)
		if err != nil {
			return err
		}
		vars = append(vars, &Variable{Name: key, Value: v, Line: keyNode.Line})
		return nil
	})
	return vars, err
}

func (p *Parser) parseSections(n *yaml.Node) ([]*Section, error) {
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		return nil, p.errorf(n, "sections must be a list")
	}
	sections := make([]*Section, 0, len(n.Content))
	for _, item := range n.Content {
		item = deref(item)
		if item.Kind != yaml.MappingNode {
			return nil, p.errorf(item, "section must be a mapping")
		}
		section := &Section{Line: item.Line}
		err := p.eachKey(item, func(key string, keyNode, val *yaml.Node) error {
			var err error
			switch key {
			case "title":
				section.Title, err = p.text(val, "section title")
			case "assertions":
				section.Assertions, err = p.parseAssertions(val)
			default:
				p.warnUnknown(keyNode, key)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (p *Parser) parseAssertions(n *yaml.Node) ([]*Assertion, error) {
	n = deref(n)
	if n.Kind != yaml.SequenceNode {
		return nil, p.errorf(n, "assertions must be a list")
	}
	assertions := make([]*Assertion, 0, len(n.Content))
	for _, item := range n.Content {
		a, err := p.parseAssertion(deref(item))
		if err != nil {
			return nil, err
		}
		assertions = append(assertions, a)
	}
	return assertions, nil
}

func (p *Parser) parseAssertion(n *yaml.Node) (*Assertion, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(n, "assertion must be a mapping")
	}
	a := &Assertion{Actually: expect.Undefined, Line: n.Line}
	hasTitle, hasActually, opKey := false, false, ""

	err := p.eachKey(n, func(key string, keyNode, val *yaml.Node) error {
		var err error
		if op, ok := operatorKeys[key]; ok {
			if opKey != "" {
				return p.errorf(keyNode, "assertion has both %q and %q", opKey, key)
			}
			opKey, a.Operator = key, op
			if op == OpPasses {
				a.Expected, err = p.passesOperand(val)
			} else {
				a.Expected, err = p.value(val)
			}
			return err
		}
		switch key {
		case "title":
			hasTitle = true
			a.Title, err = p.text(val, "title")
		case "actually":
			hasActually = true
			a.Actually, err = p.value(val)
		case "query":
			a.Query, err = p.parseQuery(val)
		default:
			p.warnUnknown(keyNode, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hasTitle {
		return nil, p.errorf(n, "assertion needs a title")
	}
	if hasActually && a.Query != nil {
		return nil, p.errorf(n, "assertion %q has both %q and %q", a.Title, "actually", "query")
	}
	if opKey == "" {
		return nil, p.errorf(n, "assertion %q needs one of is, has, hasError, stringifiesTo or passes", a.Title)
	}
	return a, nil
}

func (p *Parser) parseQuery(n *yaml.Node) (*Query, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(n, "query must be a mapping")
	}
	q := &Query{Line: n.Line}
	err := p.eachKey(n, func(key string, keyNode, val *yaml.Node) error {
		var err error
		switch key {
		case "db":
			q.DB, err = p.text(val, "db")
		case "sql":
			q.SQL, err = p.text(val, "sql")
		case "scalar":
			v := deref(val)
			if v.Kind != yaml.ScalarNode || v.ShortTag() != "!!bool" {
				return p.errorf(v, "scalar must be true or false")
			}
			err = v.Decode(&q.Scalar)
		default:
			p.warnUnknown(keyNode, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if q.DB == "" || q.SQL == "" {
		return nil, p.errorf(n, "query needs db and sql")
	}
	return q, nil
}

// passesOperand turns a pattern string into a regexp and a {schema: ...}
// mapping into a schema tester.
func (p *Parser) passesOperand(n *yaml.Node) (any, error) {
	n = deref(n)
	switch {
	case n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str":
		re, err := compilePattern(n.Value)
		if err != nil {
			return nil, p.errorf(n, "invalid pattern %q: %v", n.Value, err)
		}
		return re, nil
	case n.Kind == yaml.MappingNode && len(n.Content) == 2 && deref(n.Content[0]).Value == "schema":
		schema, err := p.value(n.Content[1])
		if err != nil {
			return nil, err
		}
		tester := expect.Schema(schema)
		if err := tester.Err(); err != nil {
			return nil, p.errorf(n.Content[1], "%v", err)
		}
		return tester, nil
	}
	return nil, p.errorf(n, "passes needs a pattern or a {schema: ...} mapping")
}

// compilePattern accepts a Go regexp, or /pattern/flags with flags drawn
// from "ims".
func compilePattern(s string) (*regexp.Regexp, error) {
	if end := strings.LastIndex(s, "/"); strings.HasPrefix(s, "/") && end > 0 {
		pattern, flags := s[1:end], s[end+1:]
		if strings.Trim(flags, "ims") != "" {
			return nil, fmt.Errorf("unsupported flags %q", flags)
		}
		if flags != "" {
			pattern = "(?" + flags + ")" + pattern
		}
		return regexp.Compile(pattern)
	}
	return regexp.Compile(s)
}

// value converts a node into the value an assertion sees: mappings become
// expect.Object in document order, sequences []any, and scalars their
// natural Go type. JSON numbers stay json.Number.
func (p *Parser) value(n *yaml.Node) (any, error) {
	n = deref(n)
	switch n.Kind {
	case yaml.MappingNode:
		obj := expect.Object{}
		err := p.eachKey(n, func(key string, keyNode, val *yaml.Node) error {
			if _, dup := obj.Get(key); dup {
				return p.errorf(keyNode, "duplicate key %q", key)
			}
			v, err := p.value(val)
			if err != nil {
				return err
			}
			obj = append(obj, expect.Field{Key: key, Value: v})
			return nil
		})
		return obj, err
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := p.value(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		return p.scalar(n)
	}
	return nil, p.errorf(n, "unsupported value")
}

func (p *Parser) scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, p.errorf(n, "%v", err)
		}
		return b, nil
	case "!!int", "!!float":
		if p.format == FormatJSON {
			return json.Number(n.Value), nil
		}
		if n.ShortTag() == "!!int" {
			var i int
			if err := n.Decode(&i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, p.errorf(n, "%v", err)
		}
		return f, nil
	}
	return n.Value, nil
}

func (p *Parser) text(n *yaml.Node, what string) (string, error) {
	n = deref(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return "", p.errorf(n, "%s must be a string", what)
	}
	return n.Value, nil
}

func (p *Parser) eachKey(n *yaml.Node, fn func(key string, keyNode, val *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := deref(n.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			return p.errorf(keyNode, "mapping keys must be strings")
		}
		if err := fn(keyNode.Value, keyNode, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (p *Parser) warnUnknown(n *yaml.Node, key string) {
	if p.warnFunc != nil {
		p.warnFunc("%s:%d: unknown key %q", p.file, n.Line, key)
	}
}

func (p *Parser) errorf(n *yaml.Node, format string, args ...any) *ParseError {
	e := &ParseError{File: p.file, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

func (p *Parser) yamlError(err error) *ParseError {
	msg := err.Error()
	e := &ParseError{File: p.file}
	if m := yamlErrorLine.FindStringSubmatch(msg); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		msg = msg[len(m[0]):]
	}
	e.Message = strings.TrimPrefix(msg, "yaml: ")
	return e
}
