package parser

import (
	"errors"
	"strconv"
)

// ErrInvalidScenario is wrapped by every ParseError.
var ErrInvalidScenario = errors.New("invalid scenario")

type File struct {
	Path       string
	Title      string
	Variables  []*Variable
	Assertions []*Assertion
	Sections   []*Section
}

// Count returns the number of assertions in the file.
func (f *File) Count() int {
	n := len(f.Assertions)
	for _, s := range f.Sections {
		n += len(s.Assertions)
	}
	return n
}

type Variable struct {
	Name  string
	Value any
	Line  int
}

type Section struct {
	Title      string
	Assertions []*Assertion
	Line       int
}

type Assertion struct {
	Title    string
	Operator AssertionOperator
	Actually any
	Query    *Query
	Expected any
	Line     int
}

// Query sources an assertion's actual value from a SQL query run when the
// scenario executes. The rows are used as a list of objects, or the only
// value when Scalar is set.
type Query struct {
	DB     string
	SQL    string
	Scalar bool
	Line   int
}

type AssertionOperator int

const (
	OpIs AssertionOperator = iota
	OpHasError
	OpHas
	OpStringifiesTo
	OpPasses
)

// operatorKeys maps every accepted assertion key to its operator.
var operatorKeys = map[string]AssertionOperator{
	"is":            OpIs,
	"toBe":          OpIs,
	"hasError":      OpHasError,
	"toError":       OpHasError,
	"has":           OpHas,
	"toHave":        OpHas,
	"stringifiesTo": OpStringifiesTo,
	"toJson":        OpStringifiesTo,
	"passes":        OpPasses,
	"toMatch":       OpPasses,
}

func (op AssertionOperator) String() string {
	switch op {
	case OpIs:
		return "is"
	case OpHasError:
		return "hasError"
	case OpHas:
		return "has"
	case OpStringifiesTo:
		return "stringifiesTo"
	case OpPasses:
		return "passes"
	default:
		return "unknown"
	}
}

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	pos := ""
	if e.Line > 0 {
		pos = strconv.Itoa(e.Line) + ": "
		if e.Column > 0 {
			pos = strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) + ": "
		}
	}
	switch {
	case e.File != "":
		if pos != "" {
			return e.File + ":" + pos + e.Message
		}
		return e.File + ": " + e.Message
	case e.Line > 0:
		return "line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidScenario
}
