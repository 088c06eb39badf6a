package expect

import (
	"fmt"
	"html"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const ruleWidth = 79

// textTheme holds the styling that distinguishes the Ansi, Html and Plain
// layouts. The structure of the three is otherwise identical.
type textTheme struct {
	html    bool
	bold    func(string) string
	dim     func(string) string
	passTag string
	failTag string
	escape  func(string) string
}

func identity(s string) string { return s }

// sgr wraps s in the escape sequence for attr and closes it with a full
// reset.
func sgr(attr color.Attribute) func(string) string {
	open := fmt.Sprintf("\x1b[%dm", attr)
	reset := fmt.Sprintf("\x1b[%dm", color.Reset)
	return func(s string) string { return open + s + reset }
}

func wrapTag(tag string) func(string) string {
	return func(s string) string { return "<" + tag + ">" + s + "</" + tag + ">" }
}

// ansiTheme emits escape codes whatever the terminal.
func ansiTheme() textTheme {
	return textTheme{
		bold:    sgr(color.Bold),
		dim:     sgr(color.Faint),
		passTag: sgr(color.FgGreen)("√ Passed"),
		failTag: sgr(color.FgRed)("X Failed"),
		escape:  identity,
	}
}

func htmlTheme() textTheme {
	return textTheme{
		html:    true,
		bold:    wrapTag("b"),
		dim:     wrapTag("s"),
		passTag: "<i>√ Passed</i>",
		failTag: "<u>X Failed</u>",
		escape:  html.EscapeString,
	}
}

func plainTheme() textTheme {
	return textTheme{
		bold:    identity,
		dim:     identity,
		passTag: "Passed",
		failTag: "Failed",
		escape:  identity,
	}
}

func renderText(sn snapshot, t textTheme, cfg renderConfig) string {
	summary := t.summary(sn)

	var sb strings.Builder
	sb.WriteString(summary)
	for _, e := range sn.visible(cfg) {
		switch e.Kind {
		case KindSectionTitle:
			sb.WriteString(t.sectionHeader(e.SectionTitle))
		case KindPassed:
			sb.WriteString(t.passTag + " " + t.escape(e.TestTitle) + "\n")
		case KindFailed:
			sb.WriteString(t.failTag + " " + t.escape(e.TestTitle) + ":\n")
			sb.WriteString("  " + t.dim("expected:") + " " + t.escape(display(e.Expected)) + "\n")
			sb.WriteString("  " + t.dim("actually:") + " " + t.escape(display(e.Actually)) + "\n")
		case KindError:
			sb.WriteString(t.failTag + " " + t.escape(e.TestTitle) + ":\n")
			sb.WriteString("  " + t.dim("actually is an error:") + "\n")
			sb.WriteString("  " + t.escape(display(e.Actually)) + "\n")
		}
	}
	if cfg.verbose {
		sb.WriteString("\n\n" + summary)
	}
	return sb.String()
}

func (t textTheme) summary(sn snapshot) string {
	var tally string
	if sn.failTally > 0 {
		tally = t.failTag + fmt.Sprintf(" %d of %d", sn.failTally, sn.failTally+sn.passTally)
	} else {
		tally = t.passTag + fmt.Sprintf(" %d %s", sn.passTally, plural(sn.passTally, "test"))
	}

	title := t.escape(sn.title)
	if t.html {
		return "<hr><h2>" + title + "</h2>\n" + tally + "\n<hr>\n"
	}
	rule := strings.Repeat("-", ruleWidth)
	return rule + "\n" +
		t.bold(title) + "\n" +
		strings.Repeat("=", runewidth.StringWidth(sn.title)) + "\n" +
		tally + "\n" +
		rule + "\n"
}

func (t textTheme) sectionHeader(title string) string {
	header := "\n" + t.bold(t.escape(title)+":") + "\n"
	if t.html {
		return header
	}
	return header + strings.Repeat("-", runewidth.StringWidth(title)+1) + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
