package expect

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// RenderOption configures Render.
type RenderOption func(*renderConfig)

type renderConfig struct {
	sectionFilter string
	verbose       bool
}

// WithSectionFilter restricts output to sections whose title contains
// filter, compared with Unicode case folding. An empty filter matches every
// section. The raw format ignores it.
func WithSectionFilter(filter string) RenderOption {
	return func(c *renderConfig) {
		c.sectionFilter = filter
	}
}

// WithVerbose includes passing assertions and sections without failures,
// and repeats the summary banner at the end.
func WithVerbose(verbose bool) RenderOption {
	return func(c *renderConfig) {
		c.verbose = verbose
	}
}

// Render returns the recorded results in the given format. It does not
// change the suite.
func (s *Suite) Render(format Format, opts ...RenderOption) (string, error) {
	cfg := renderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	sn := s.snapshot()
	switch format {
	case FormatAnsi:
		return renderText(sn, ansiTheme(), cfg), nil
	case FormatHTML:
		return renderText(sn, htmlTheme(), cfg), nil
	case FormatJSON:
		return renderJSON(sn, cfg), nil
	case FormatPlain:
		return renderText(sn, plainTheme(), cfg), nil
	case FormatRaw:
		return renderRaw(sn), nil
	}
	return "", fmt.Errorf("render %s: %w", format, ErrUnknownFormat)
}

// visible returns the entries a filtered rendering shows. Sections that do
// not match the filter are hidden. Without verbose, section titles show only
// for sections with failures and passing entries are dropped.
func (sn snapshot) visible(cfg renderConfig) []LogEntry {
	fold := cases.Fold()
	filter := fold.String(cfg.sectionFilter)
	matches := make([]bool, len(sn.sections))
	for i, sec := range sn.sections {
		matches[i] = filter == "" || strings.Contains(fold.String(sec.Title), filter)
	}

	var out []LogEntry
	for _, e := range sn.log {
		if e.SectionIndex < 0 || e.SectionIndex >= len(sn.sections) || !matches[e.SectionIndex] {
			continue
		}
		switch e.Kind {
		case KindSectionTitle:
			if !cfg.verbose && sn.sections[e.SectionIndex].FailTally == 0 {
				continue
			}
		case KindPassed:
			if !cfg.verbose {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func renderRaw(sn snapshot) string {
	text, _ := Stringify(sn.log)
	return text
}
