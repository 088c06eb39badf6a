package expect

// Assertion is the handle returned by Suite.That. Each comparator method
// records exactly one entry in the suite and reports whether it passed.
// Mismatches are recorded, never returned as errors.
type Assertion struct {
	suite     *Suite
	testTitle string
	actually  any
}

// That starts an assertion about actually. Pass Undefined when there is no
// actual value.
func (s *Suite) That(testTitle string, actually any) *Assertion {
	return &Assertion{suite: s, testTitle: testTitle, actually: actually}
}

// Section starts a new section in the suite. The assertion's title and
// actual value are ignored.
func (a *Assertion) Section(title string) {
	a.suite.Section(title)
}

func (a *Assertion) check(compare func(actually, expected any) outcome, expected any) bool {
	return a.suite.record(a.testTitle, compare(a.actually, expected))
}

// Is passes when actually and expected are strictly equal: the same dynamic
// type and value, or the same reference for maps, slices and functions.
func (a *Assertion) Is(expected any) bool {
	return a.check(compareIs, expected)
}

// ToBe is an alias for Is.
func (a *Assertion) ToBe(expected any) bool {
	return a.Is(expected)
}

// HasError passes when actually carries an error strictly equal to
// expected. A Go error carries its message; objects, maps and structs carry
// their "error" key.
func (a *Assertion) HasError(expected any) bool {
	return a.check(compareHasError, expected)
}

// ToError is an alias for HasError.
func (a *Assertion) ToError(expected any) bool {
	return a.HasError(expected)
}

// Has passes when every key of expected serializes identically in
// actually. An actual value carrying a truthy error is recorded as an
// error entry instead.
func (a *Assertion) Has(expected any) bool {
	return a.check(compareHas, expected)
}

// ToHave is an alias for Has.
func (a *Assertion) ToHave(expected any) bool {
	return a.Has(expected)
}

// StringifiesTo passes when actually and expected serialize to the same
// JSON text.
func (a *Assertion) StringifiesTo(expected any) bool {
	return a.check(compareStringifiesTo, expected)
}

// ToJSON is an alias for StringifiesTo.
func (a *Assertion) ToJSON(expected any) bool {
	return a.StringifiesTo(expected)
}

// Passes runs a predicate against actually: a *regexp.Regexp matched
// against its display text, a Tester or a func(any) bool.
func (a *Assertion) Passes(expected any) bool {
	return a.check(comparePasses, expected)
}

// ToMatch is an alias for Passes.
func (a *Assertion) ToMatch(expected any) bool {
	return a.Passes(expected)
}
