package expect

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the tally and section bookkeeping of s.
func checkInvariants(t *testing.T, s *Suite) {
	t.Helper()
	log := s.Log()
	sections := s.Sections()

	assertions := 0
	perSection := make([]int, len(sections))
	for _, e := range log {
		require.Less(t, e.SectionIndex, len(sections))
		if e.Kind.IsAssertion() {
			assertions++
		}
		if e.Kind == KindFailed || e.Kind == KindError {
			perSection[e.SectionIndex]++
		}
	}
	assert.Equal(t, assertions, s.FailTally()+s.PassTally())
	assert.Equal(t, s.FailTally() > 0, s.Status() == StatusFail)
	for i, sec := range sections {
		assert.Equal(t, perSection[i], sec.FailTally, "section %d", i)
	}
}

func TestNew(t *testing.T) {
	s := New("")
	assert.Equal(t, DefaultSuiteTitle, s.Title())
	assert.Equal(t, StatusPass, s.Status())
	assert.Empty(t, s.Log())
	assert.Empty(t, s.Sections())

	assert.Equal(t, "Mathsy", New("Mathsy").Title())
}

func TestSuite_TypicalUsage(t *testing.T) {
	s := New("Mathsy")

	assert.True(t, s.That("factorialise(5)", factorialise(5)).Is(120))
	assert.Equal(t, 1, s.PassTally())
	assert.Equal(t, 0, s.FailTally())
	assert.Equal(t, StatusPass, s.Status())
	out, err := s.Render(FormatPlain)
	require.NoError(t, err)
	assert.Contains(t, out, "Passed 1 test\n")

	assert.False(t, s.That("factorialise(3)", factorialise(3)).Is(77))
	assert.Equal(t, 1, s.PassTally())
	assert.Equal(t, 1, s.FailTally())
	assert.Equal(t, StatusFail, s.Status())
	out, err = s.Render(FormatPlain)
	require.NoError(t, err)
	assert.Contains(t, out, "Failed 1 of 2")
	assert.Contains(t, out, "Failed factorialise(3):\n  expected: 77\n  actually: 6")

	checkInvariants(t, s)
}

func TestSuite_SectionFailTally(t *testing.T) {
	s := New("")
	s.That("A", 1).Is(1)
	s.Section("Second Section")
	s.That("B", 1).Is(0)
	s.That("C", 1).Is(1)
	s.That("D", Object{{Key: "error", Value: "Actual Error"}}).HasError("Expected Error")

	sections := s.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, Section{Title: DefaultSectionTitle, FailTally: 0}, sections[0])
	assert.Equal(t, Section{Title: "Second Section", FailTally: 2}, sections[1])

	out, err := s.Render(FormatJSON, WithVerbose(true))
	require.NoError(t, err)
	assert.Contains(t, out, `    { "kind": "SectionTitle", "section_title": "Second Section" },
    { "kind": "Failed", "test_title": "B",
      "expected": 0,
      "actually": 1 },
    { "kind": "Passed", "test_title": "C" },
    { "kind": "Failed", "test_title": "D",`)

	checkInvariants(t, s)
}

func TestSuite_AutoSection(t *testing.T) {
	s := New("")
	s.That("A", 1).Is(1)

	log := s.Log()
	require.Len(t, log, 2)
	assert.Equal(t, LogEntry{Kind: KindSectionTitle, SectionIndex: 0, SectionTitle: DefaultSectionTitle}, log[0])
	assert.Equal(t, LogEntry{Kind: KindPassed, SectionIndex: 0, TestTitle: "A"}, log[1])
}

func TestSuite_UntitledSectionsAreDistinct(t *testing.T) {
	s := New("")
	s.Section("")
	s.That("", Undefined).Section("")

	sections := s.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, DefaultSectionTitle, sections[0].Title)
	assert.Equal(t, DefaultSectionTitle, sections[1].Title)

	log := s.Log()
	require.Len(t, log, 2)
	assert.Equal(t, 0, log[0].SectionIndex)
	assert.Equal(t, 1, log[1].SectionIndex)
}

func TestSuite_AssertionSectionIgnoresHandle(t *testing.T) {
	s := New("")
	s.That("ignored", 42).Section("FooBar Section")

	out, err := s.Render(FormatPlain, WithVerbose(true))
	require.NoError(t, err)
	assert.Contains(t, out, "FooBar Section")
	assert.NotContains(t, out, "ignored")
	assert.Equal(t, 0, s.PassTally()+s.FailTally())
}

func TestSuite_Reset(t *testing.T) {
	s := New("Mathsy Test Suite")
	s.That("A", 1).Is(2)
	s.Section("More")
	s.That("B", 1).Is(1)

	s.Reset()
	s.Reset()

	assert.Equal(t, "Mathsy Test Suite", s.Title())
	assert.Empty(t, s.Log())
	assert.Empty(t, s.Sections())
	assert.Equal(t, 0, s.FailTally())
	assert.Equal(t, 0, s.PassTally())
	assert.Equal(t, StatusPass, s.Status())

	out, err := s.Render(FormatPlain)
	require.NoError(t, err)
	assert.Regexp(t, `^-{79}\nMathsy Test Suite\n={17}\nPassed 0 tests\n-{79}\n$`, out)
}

func TestSuite_StatusStaysFailed(t *testing.T) {
	s := New("")
	s.That("A", 1).Is(2)
	s.That("B", 1).Is(1)
	s.That("C", 2).Is(2)

	assert.Equal(t, StatusFail, s.Status())
	checkInvariants(t, s)
}

func TestSuite_CopiesAreIndependent(t *testing.T) {
	s := New("")
	s.That("A", 1).Is(1)

	log := s.Log()
	log[0].SectionTitle = "changed"
	sections := s.Sections()
	sections[0].FailTally = 99

	assert.Equal(t, DefaultSectionTitle, s.Log()[0].SectionTitle)
	assert.Equal(t, 0, s.Sections()[0].FailTally)
}

func TestSuite_Summary(t *testing.T) {
	s := New("Mathsy")
	s.That("A", 1).Is(2)
	s.That("B", 1).Is(1)

	assert.Equal(t, Summary{SuiteTitle: "Mathsy", FailTally: 1, PassTally: 1, Status: StatusFail}, s.Summary())
	text, ok := Stringify(s.Summary())
	require.True(t, ok)
	assert.Equal(t, `{"suiteTitle":"Mathsy","failTally":1,"passTally":1,"status":"fail"}`, text)
}

func TestSuite_ConcurrentRecording(t *testing.T) {
	s := New("")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.That("n", j).Is(j - i%2)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 400, s.FailTally()+s.PassTally())
	assert.Len(t, s.Sections(), 1)
	checkInvariants(t, s)
}

func TestSuite_TesterMayUseSuite(t *testing.T) {
	s := New("")
	ok := s.That("reentrant", 1).Passes(func(any) bool {
		return s.PassTally() == 0
	})

	assert.True(t, ok)
	assert.Equal(t, 1, s.PassTally())
}
