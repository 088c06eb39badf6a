package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"Ansi", FormatAnsi},
		{"html", FormatHTML},
		{"JSON", FormatJSON},
		{"plain", FormatPlain},
		{"Raw", FormatRaw},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "Plain", Format(0).String())
	assert.Equal(t, "Html", FormatHTML.String())
	assert.Equal(t, "Format(42)", Format(42).String())
}

func TestFormat_Text(t *testing.T) {
	var f Format
	require.NoError(t, f.UnmarshalText([]byte("json")))
	assert.Equal(t, FormatJSON, f)

	text, err := f.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Json", string(text))

	assert.ErrorIs(t, f.UnmarshalText([]byte("xml")), ErrUnknownFormat)
	_, err = Format(-1).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, []string{"Ansi", "Html", "Json", "Plain", "Raw"}, FormatNames())
	for _, name := range FormatNames() {
		_, err := ParseFormat(name)
		assert.NoError(t, err)
	}
}
