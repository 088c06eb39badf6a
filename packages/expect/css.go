package expect

import (
	"fmt"
	"regexp"
	"strings"
)

var selectorPattern = regexp.MustCompile(`(?i)^[.#]?[a-z][-_0-9a-z]*$`)

// GenerateCSS returns a stylesheet for FormatHTML output shown inside
// innerSelector (typically a pre element) within containerSelector. Add the
// suite's Status as a class on the container to switch between the pass
// and fail colours.
//
// Both selectors must be a single element name, class or id.
func GenerateCSS(containerSelector, innerSelector string) (string, error) {
	if err := checkSelector("containerSelector", containerSelector); err != nil {
		return "", err
	}
	if err := checkSelector("innerSelector", innerSelector); err != nil {
		return "", err
	}

	cs, is := containerSelector, innerSelector
	lines := []string{
		fmt.Sprintf("/* expect.GenerateCSS('%s', '%s') */", cs, is),

		// The container is assumed to be styled already; only its colours change.
		cs + ".fail{background:#642c2c;color:#fce}",
		cs + ".pass{background:#2c642c;color:#cfe}",

		is + "{padding:4px 8px;border-radius:4px;line-height:1.8}",
		is + "{font-family:Menlo,Consolas,Monaco,Lucida Console,Liberation Mono,",
		"DejaVu Sans Mono,Bitstream Vera Sans Mono,Courier New,monospace,sans-serif}",
		is + "{text-align:left;white-space:pre}",
		is + "{background:#222;color:#eee}",
		cs + ".fail " + is + "{background:#411;color:#fce}",
		cs + ".pass " + is + "{background:#141;color:#cfe}",
		cs + ".fail hr{border-color:#642c2c}",
		cs + ".pass hr{border-color:#2c642c}",

		is + " h2{margin:0}",
		is + " b{color:#eee}",
		is + " i{font-style:normal}",
		cs + ".pass i{color:#7fff7f}",
		is + " u{padding:2px 8px;color:#fff;background:#900;text-decoration:none}",
		is + " s{color:#9c8293;text-decoration:none}",
	}
	return strings.Join(lines, "\n"), nil
}

func checkSelector(name, selector string) error {
	if selector == "" {
		return fmt.Errorf("the mandatory %s argument is empty", name)
	}
	if !selectorPattern.MatchString(selector) {
		return fmt.Errorf("%s fails %s", name, selectorPattern)
	}
	return nil
}
