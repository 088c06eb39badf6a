package expect

import "regexp"

// Tester is a predicate accepted by Passes.
type Tester interface {
	Test(actually any) bool
}

// TesterFunc adapts an ordinary function to a Tester.
type TesterFunc func(actually any) bool

// Test calls f(actually).
func (f TesterFunc) Test(actually any) bool {
	if f == nil {
		return false
	}
	return f(actually)
}

// outcome is the result of one comparison. Failing outcomes carry the entry
// kind, a suffix for the test title and the values to record.
type outcome struct {
	passed   bool
	kind     Kind
	suffix   string
	expected any
	actually any
}

var passed = outcome{passed: true}

func failed(expected, actually any) outcome {
	return outcome{kind: KindFailed, expected: expected, actually: actually}
}

func compareIs(actually, expected any) outcome {
	if strictEqual(actually, expected) {
		return passed
	}
	return failed(expected, actually)
}

func compareHasError(actually, expected any) outcome {
	if !truthy(actually) {
		return failed(expected, actually)
	}
	errValue, _ := errorField(actually)
	if strictEqual(errValue, expected) {
		return passed
	}
	return failed(expected, errValue)
}

func compareHas(actually, expected any) outcome {
	if errValue, ok := errorField(actually); ok && truthy(errValue) {
		return outcome{kind: KindError, expected: jsonText(expected), actually: errValue}
	}
	for _, key := range keysOf(expected) {
		exp, _ := lookup(expected, key)
		act, _ := lookup(actually, key)
		expText, expOK := Stringify(exp)
		actText, actOK := Stringify(act)
		if expOK == actOK && expText == actText {
			continue
		}
		return outcome{
			kind:     KindFailed,
			suffix:   "." + key,
			expected: jsonText(exp),
			actually: jsonText(act),
		}
	}
	return passed
}

func compareStringifiesTo(actually, expected any) outcome {
	actText, actOK := Stringify(actually)
	expText, expOK := Stringify(expected)
	if actOK == expOK && actText == expText {
		return passed
	}
	return failed(jsonText(expected), jsonText(actually))
}

func comparePasses(actually, expected any) outcome {
	if isUndefined(normalize(actually)) {
		return failed(expected, actually)
	}
	var ok bool
	switch t := expected.(type) {
	case *regexp.Regexp:
		ok = t != nil && t.MatchString(display(actually))
	case Tester:
		ok = t.Test(actually)
	case func(any) bool:
		ok = t != nil && t(actually)
	}
	if ok {
		return passed
	}
	return failed(expected, actually)
}
