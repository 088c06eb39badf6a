package expect

// Kind tags a LogEntry.
type Kind int

const (
	// KindSectionTitle marks the start of a section.
	KindSectionTitle Kind = iota
	// KindPassed records a passing assertion.
	KindPassed
	// KindFailed records a mismatch.
	KindFailed
	// KindError records an assertion whose actual value carried an error.
	KindError
)

var kindNames = [...]string{"SectionTitle", "Passed", "Failed", "Error"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsAssertion reports whether k records an assertion outcome.
func (k Kind) IsAssertion() bool {
	return k == KindPassed || k == KindFailed || k == KindError
}

// LogEntry is one immutable record in a suite's log. SectionTitle is set
// for KindSectionTitle entries, TestTitle for the others. Expected and
// Actually are only meaningful for KindFailed and KindError, and hold
// Undefined when a value is absent.
type LogEntry struct {
	Kind         Kind
	SectionIndex int
	SectionTitle string
	TestTitle    string
	Expected     any
	Actually     any
}

// object lays the entry out with the keys the raw format uses.
func (e LogEntry) object() Object {
	switch e.Kind {
	case KindSectionTitle:
		return Object{
			{Key: "kind", Value: e.Kind.String()},
			{Key: "sectionIndex", Value: e.SectionIndex},
			{Key: "sectionTitle", Value: e.SectionTitle},
		}
	case KindPassed:
		return Object{
			{Key: "kind", Value: e.Kind.String()},
			{Key: "sectionIndex", Value: e.SectionIndex},
			{Key: "testTitle", Value: e.TestTitle},
		}
	}
	return Object{
		{Key: "actually", Value: e.Actually},
		{Key: "expected", Value: e.Expected},
		{Key: "kind", Value: e.Kind.String()},
		{Key: "sectionIndex", Value: e.SectionIndex},
		{Key: "testTitle", Value: e.TestTitle},
	}
}

// MarshalJSON writes the entry as a compact object with camelCase keys.
// Absent values are omitted.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	s, _ := Stringify(e.object())
	return []byte(s), nil
}
