package expect

// DefaultSectionTitle names sections opened without a title, including the
// one opened implicitly by the first assertion.
const DefaultSectionTitle = "Untitled Section"

// Section groups consecutively recorded assertions.
type Section struct {
	Title     string
	FailTally int
}

// openSection appends a section and its SectionTitle entry. The caller
// holds s.mu.
func (s *Suite) openSection(title string) int {
	if title == "" {
		title = DefaultSectionTitle
	}
	index := len(s.sections)
	s.sections = append(s.sections, Section{Title: title})
	s.log = append(s.log, LogEntry{
		Kind:         KindSectionTitle,
		SectionIndex: index,
		SectionTitle: title,
	})
	return index
}

// currentSectionIndex returns the index of the section new entries belong
// to, opening a default section when none exists. The caller holds s.mu.
func (s *Suite) currentSectionIndex() int {
	if len(s.sections) == 0 {
		return s.openSection(DefaultSectionTitle)
	}
	return len(s.sections) - 1
}
