package expect

import (
	"errors"
	"regexp"
	"strings"
)

// SelfTest records the library's own checks into t. Render t afterwards to
// see whether this build of the library behaves as documented.
func SelfTest(t *Suite) {
	selfTestBasics(t)
	selfTestIs(t)
	selfTestHasError(t)
	selfTestHas(t)
	selfTestStringifiesTo(t)
	selfTestPasses(t)
	selfTestRender(t)
	selfTestGenerateCSS(t)
}

func factorialise(n int) int {
	if n <= 1 {
		return 1
	}
	return n * factorialise(n-1)
}

func summaryOf(fail, pass int, status Status) Object {
	return Object{
		{Key: "failTally", Value: fail},
		{Key: "passTally", Value: pass},
		{Key: "status", Value: status},
	}
}

func selfTestBasics(t *Suite) {
	t.Section("Basics")
	t.That("New(\"\").Title()", New("").Title()).Is(DefaultSuiteTitle)
	t.That("New(\"\").Summary()", New("").Summary()).Has(summaryOf(0, 0, StatusPass))

	t.Section("Typical usage")
	t.That("factorialise(5)", factorialise(5)).Is(120)
	s := New("Mathsy Test Suite")
	t.That("s.That(\"factorialise(5)\", factorialise(5)).Is(120)",
		s.That("factorialise(5)", factorialise(5)).Is(120)).Is(true)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(0, 1, StatusPass))
	t.That("s.That(\"factorialise(3)\", factorialise(3)).Is(77)",
		s.That("factorialise(3)", factorialise(3)).Is(77)).Is(false)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(1, 1, StatusFail))
	out, _ := s.Render(FormatPlain)
	t.That("s.Render(FormatPlain) // summary", out).
		Passes(regexp.MustCompile(`Mathsy Test Suite\n={17}\nFailed 1 of 2\n`))
	t.That("s.Render(FormatPlain) // section", out).
		Passes(regexp.MustCompile(`Untitled Section:\n-{17}\n`))
	t.That("s.Render(FormatPlain) // entry", out).
		Passes(regexp.MustCompile(`Failed factorialise\(3\):\s+expected: 77\s+actually: 6`))

	t.Section("Reset()")
	s.Reset()
	t.That("s.Summary() after Reset()", s.Summary()).Has(summaryOf(0, 0, StatusPass))
	t.That("len(s.Log()) after Reset()", len(s.Log())).Is(0)
	out, _ = s.Render(FormatPlain)
	t.That("s.Render(FormatPlain) after Reset()", out).
		Passes(regexp.MustCompile(`^-{79}\nMathsy Test Suite\n={17}\nPassed 0 tests\n-{79}\n$`))
}

func selfTestIs(t *Suite) {
	t.Section("That().Is()")
	s := New("")
	t.That("s.That(\"A\", 1).Is(1)", s.That("A", 1).Is(1)).Is(true)
	t.That("s.That(\"B\", true).Is(1)", s.That("B", true).Is(1)).Is(false)
	t.That("s.That(\"C\", int64(1)).Is(1)", s.That("C", int64(1)).Is(1)).Is(false)
	obj := map[string]any{"ok": 123}
	t.That("s.That(\"D\", obj).Is(obj)", s.That("D", obj).Is(obj)).Is(true)
	t.That("s.That(\"E\", obj).Is(copy)", s.That("E", obj).Is(map[string]any{"ok": 123})).Is(false)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(3, 2, StatusFail))
}

func selfTestHasError(t *Suite) {
	t.Section("That().HasError()")
	s := New("")
	t.That("s.That(\"A\", {error:\"Expected Error\"}).HasError(\"Expected Error\")",
		s.That("A", Object{{Key: "error", Value: "Expected Error"}}).HasError("Expected Error")).Is(true)
	t.That("s.That(\"B\", errors.New(\"boom\")).HasError(\"boom\")",
		s.That("B", errors.New("boom")).HasError("boom")).Is(true)
	t.That("s.That(\"C\", {error:\"Expected Error\"}).HasError(123)",
		s.That("C", Object{{Key: "error", Value: "Expected Error"}}).HasError(123)).Is(false)
	t.That("s.That(\"D\", nil).HasError(\"no error on a nil\")",
		s.That("D", nil).HasError("no error on a nil")).Is(false)
	t.That("s.That(\"E\", Undefined).HasError(Undefined)",
		s.That("E", Undefined).HasError(Undefined)).Is(false)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(3, 2, StatusFail))
}

func selfTestHas(t *Suite) {
	t.Section("That().Has()")
	s := New("")
	abc := MustParseJSON(`{"a":1,"b":null,"c":[1,2,3]}`)
	t.That("s.That(\"A\", abc).Has(abc)", s.That("A", abc).Has(abc)).Is(true)
	t.That("s.That(\"B\", abc).Has({c:[1,2,3]})",
		s.That("B", abc).Has(MustParseJSON(`{"c":[1,2,3]}`))).Is(true)
	t.That("s.That(\"C\", {c:[1,2,3]}).Has(abc)",
		s.That("C", MustParseJSON(`{"c":[1,2,3]}`)).Has(abc)).Is(false)
	t.That("s.That(\"D\", abc).Has({})", s.That("D", abc).Has(Object{})).Is(true)
	t.That("s.That(\"E\", abc).Has(123)", s.That("E", abc).Has(123)).Is(true)
	t.That("s.That(\"F\", {a:1,error:\"Oh no!\"}).Has({a:1})",
		s.That("F", MustParseJSON(`{"a":1,"error":"Oh no!"}`)).Has(MustParseJSON(`{"a":1}`))).Is(false)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(2, 4, StatusFail))
	log := s.Log()
	t.That("s.Log()[3].TestTitle", log[3].TestTitle).Is("C.a")
	t.That("s.Log()[6].Kind", log[6].Kind).Is(KindError)
	t.That("s.Log()[6].Expected", log[6].Expected).Is(`{"a":1}`)
}

func selfTestStringifiesTo(t *Suite) {
	t.Section("That().StringifiesTo()")
	s := New("")
	t.That("s.That(\"A\", {a:1,b:2}).StringifiesTo({a:1,b:2})",
		s.That("A", MustParseJSON(`{"a":1,"b":2}`)).StringifiesTo(MustParseJSON(`{"a":1,"b":2}`))).Is(true)
	t.That("s.That(\"B\", {a:1,b:2}).StringifiesTo({b:2,a:1})",
		s.That("B", MustParseJSON(`{"a":1,"b":2}`)).StringifiesTo(MustParseJSON(`{"b":2,"a":1}`))).Is(false)
	t.That("s.That(\"C\", Undefined).StringifiesTo(Undefined)",
		s.That("C", Undefined).StringifiesTo(Undefined)).Is(true)
	t.That("s.That(\"D\", []any{\"str\", true, nil}).StringifiesTo(same)",
		s.That("D", []any{"str", true, nil}).StringifiesTo([]any{"str", true, nil})).Is(true)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(1, 3, StatusFail))
}

func selfTestPasses(t *Suite) {
	t.Section("That().Passes()")
	s := New("")
	t.That("s.That(\"A\", \"abc\").Passes(/^abc$/)",
		s.That("A", "abc").Passes(regexp.MustCompile(`^abc$`))).Is(true)
	t.That("s.That(\"B\", \"abc\").Passes(/^xyz$/)",
		s.That("B", "abc").Passes(regexp.MustCompile(`^xyz$`))).Is(false)
	t.That("s.That(\"C\", \"abc\").Passes(func)",
		s.That("C", "abc").Passes(func(v any) bool { return v == "abc" })).Is(true)
	t.That("s.That(\"D\", Undefined).Passes(/^abc$/)",
		s.That("D", Undefined).Passes(regexp.MustCompile(`^abc$`))).Is(false)
	t.That("s.That(\"E\", \"abc\").Passes(Undefined)",
		s.That("E", "abc").Passes(Undefined)).Is(false)
	t.That("s.Summary()", s.Summary()).Has(summaryOf(3, 2, StatusFail))
}

func selfTestRender(t *Suite) {
	t.Section("Render()")
	s := New("My Great Test Suite")
	_, err := s.Render(Format(123))
	t.That("s.Render(Format(123)) is ErrUnknownFormat", errors.Is(err, ErrUnknownFormat)).Is(true)
	out, _ := s.Render(FormatHTML)
	t.That("s.Render(FormatHTML) with no tests", out).
		Is("<hr><h2>My Great Test Suite</h2>\n<i>√ Passed</i> 0 tests\n<hr>\n")
	out, _ = s.Render(FormatRaw)
	t.That("s.Render(FormatRaw) with no tests", out).Is("[]")

	s.That("A", 1).Is(1)
	s.Section("Second Section")
	s.That("B", 1).Is(0)
	out, _ = s.Render(FormatJSON, WithSectionFilter("SECOND"))
	t.That("s.Render(FormatJSON, WithSectionFilter(\"SECOND\"))", out).Is(strings.Join([]string{
		`{`,
		`  "fail_tally": 1,`,
		`  "pass_tally": 1,`,
		`  "status": "fail",`,
		`  "suite_title": "My Great Test Suite",`,
		`  "log": [`,
		`    { "kind": "SectionTitle", "section_title": "Second Section" },`,
		`    { "kind": "Failed", "test_title": "B",`,
		`      "expected": 0,`,
		`      "actually": 1 }`,
		`  ]`,
		`}`,
	}, "\n"))
}

func selfTestGenerateCSS(t *Suite) {
	t.Section("GenerateCSS()")
	css, err := GenerateCSS("a", "b")
	t.That("GenerateCSS(\"a\", \"b\") error", err).Is(nil)
	t.That("GenerateCSS(\"a\", \"b\") line count", strings.Count(css, "\n")+1).Is(18)
	_, err = GenerateCSS("", "b")
	t.That("GenerateCSS(\"\", \"b\")", err).HasError("the mandatory containerSelector argument is empty")
	_, err = GenerateCSS("#abc", "abc*/")
	t.That("GenerateCSS(\"#abc\", \"abc*/\")", err).
		Passes(regexp.MustCompile(`^innerSelector fails `))
	css, _ = GenerateCSS("#c-s", ".i_s")
	t.That("GenerateCSS(\"#c-s\", \".i_s\") // a middle line", css).
		Passes(regexp.MustCompile(`\n#c-s\.fail \.i_s\{background:#411;color:#fce\}\n`))
}
