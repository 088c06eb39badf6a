package expect

import "sync"

// DefaultSuiteTitle is used when New is given an empty title.
const DefaultSuiteTitle = "Untitled Test Suite"

// Status is the overall result of a suite.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Suite accumulates the outcomes of one test run. A Suite is safe for
// concurrent use, though results are meant to be recorded from a single
// goroutine so that the log reads in call order.
type Suite struct {
	mu        sync.Mutex
	title     string
	log       []LogEntry
	sections  []Section
	failTally int
	passTally int
}

// New creates an empty suite.
func New(title string) *Suite {
	if title == "" {
		title = DefaultSuiteTitle
	}
	return &Suite{title: title}
}

// Title returns the suite title.
func (s *Suite) Title() string {
	return s.title
}

// Section starts a new section. Later assertions belong to it.
func (s *Suite) Section(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openSection(title)
}

// Reset discards every recorded result. The title is kept.
func (s *Suite) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
	s.sections = nil
	s.failTally = 0
	s.passTally = 0
}

// Log returns a copy of the recorded entries in call order.
func (s *Suite) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry{}, s.log...)
}

// Raw returns the unfiltered log. It is the structured counterpart of
// Render(FormatRaw).
func (s *Suite) Raw() []LogEntry {
	return s.Log()
}

// Sections returns a copy of the sections in creation order.
func (s *Suite) Sections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Section{}, s.sections...)
}

// FailTally returns the number of failed assertions.
func (s *Suite) FailTally() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failTally
}

// PassTally returns the number of passed assertions.
func (s *Suite) PassTally() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passTally
}

// Status returns StatusFail once any assertion has failed.
func (s *Suite) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statusOf(s.failTally)
}

// Summary is a point-in-time view of a suite's tallies.
type Summary struct {
	SuiteTitle string `json:"suiteTitle"`
	FailTally  int    `json:"failTally"`
	PassTally  int    `json:"passTally"`
	Status     Status `json:"status"`
}

// Summary returns the current tallies and status.
func (s *Suite) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		SuiteTitle: s.title,
		FailTally:  s.failTally,
		PassTally:  s.passTally,
		Status:     statusOf(s.failTally),
	}
}

func statusOf(failTally int) Status {
	if failTally > 0 {
		return StatusFail
	}
	return StatusPass
}

// record appends the entry for a finished comparison and updates the
// tallies. It reports whether the comparison passed.
func (s *Suite) record(testTitle string, o outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.currentSectionIndex()
	if o.passed {
		s.passTally++
		s.log = append(s.log, LogEntry{
			Kind:         KindPassed,
			SectionIndex: index,
			TestTitle:    testTitle,
		})
		return true
	}
	s.failTally++
	s.sections[index].FailTally++
	s.log = append(s.log, LogEntry{
		Kind:         o.kind,
		SectionIndex: index,
		TestTitle:    testTitle + o.suffix,
		Expected:     o.expected,
		Actually:     o.actually,
	})
	return false
}

// snapshot is an immutable copy of the suite taken for rendering.
type snapshot struct {
	title     string
	log       []LogEntry
	sections  []Section
	failTally int
	passTally int
}

func (s *Suite) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		title:     s.title,
		log:       append([]LogEntry{}, s.log...),
		sections:  append([]Section{}, s.sections...),
		failTally: s.failTally,
		passTally: s.passTally,
	}
}

func (sn snapshot) status() Status {
	return statusOf(sn.failTally)
}
