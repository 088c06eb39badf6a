package expect

import (
	"strconv"
	"strings"
)

// renderJSON writes the fixed, line-oriented JSON layout. The layout is
// built by hand so that every entry stays on one or a few predictable lines.
func renderJSON(sn snapshot, cfg renderConfig) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString(`  "fail_tally": ` + strconv.Itoa(sn.failTally) + ",\n")
	sb.WriteString(`  "pass_tally": ` + strconv.Itoa(sn.passTally) + ",\n")
	sb.WriteString(`  "status": ` + quote(string(sn.status())) + ",\n")
	sb.WriteString(`  "suite_title": ` + quote(sn.title) + ",\n")
	sb.WriteString(`  "log": [` + "\n")

	entries := sn.visible(cfg)
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = jsonItem(e)
	}
	sb.WriteString(strings.Join(items, ",\n"))

	sb.WriteString("\n  ]\n}")
	return sb.String()
}

func jsonItem(e LogEntry) string {
	head := `    { "kind": ` + quote(e.Kind.String())
	switch e.Kind {
	case KindSectionTitle:
		return head + `, "section_title": ` + quote(e.SectionTitle) + " }"
	case KindPassed:
		return head + `, "test_title": ` + quote(e.TestTitle) + " }"
	}

	var sb strings.Builder
	sb.WriteString(head + `, "test_title": ` + quote(e.TestTitle))
	writeValue := func(key string, v any) {
		if text, ok := Stringify(v); ok {
			sb.WriteString(",\n      " + quote(key) + ": " + text)
		}
	}
	if e.Kind == KindError {
		writeValue("error", e.Actually)
	} else {
		writeValue("expected", e.Expected)
		writeValue("actually", e.Actually)
	}
	sb.WriteString(" }")
	return sb.String()
}
