package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfTest(t *testing.T) {
	s := New("expect")
	SelfTest(s)

	if s.FailTally() > 0 {
		out, err := s.Render(FormatPlain)
		require.NoError(t, err)
		t.Log(out)
	}
	assert.Equal(t, 0, s.FailTally())
	assert.Equal(t, StatusPass, s.Status())
	assert.Greater(t, s.PassTally(), 40)
	assert.Len(t, s.Sections(), 10)
}
