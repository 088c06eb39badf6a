package expect

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects how Render lays out results.
type Format int

const (
	// FormatPlain is unstyled text, for files and logs.
	FormatPlain Format = iota
	// FormatAnsi is text styled with ANSI escape codes, for terminals.
	FormatAnsi
	// FormatHTML is text with inline HTML tags, for a <pre> element.
	FormatHTML
	// FormatJSON is a fixed, human-readable JSON layout.
	FormatJSON
	// FormatRaw is the unfiltered log as compact JSON.
	FormatRaw
)

// ErrUnknownFormat is wrapped by errors about unrecognized formats.
var ErrUnknownFormat = errors.New("unexpected format, try 'Ansi|Html|Json|Plain|Raw'")

var formatNames = [...]string{
	FormatPlain: "Plain",
	FormatAnsi:  "Ansi",
	FormatHTML:  "Html",
	FormatJSON:  "Json",
	FormatRaw:   "Raw",
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

func (f Format) valid() bool {
	return f >= 0 && int(f) < len(formatNames)
}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return FormatPlain, fmt.Errorf("format %q: %w", name, ErrUnknownFormat)
}

// FormatNames lists the format names in the order they are documented.
func FormatNames() []string {
	return []string{"Ansi", "Html", "Json", "Plain", "Raw"}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("format %d: %w", int(f), ErrUnknownFormat)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
