package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixed(t *testing.T) {
	c, err := ParseFixed("2025-10-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-10", FormatDate(Today(c)))

	_, err = ParseFixed("10/10/2025")
	assert.Error(t, err)
}

func TestFakeClockAdvance(t *testing.T) {
	c := NewFakeClock(time.Date(2025, 10, 10, 23, 30, 0, 0, time.UTC))
	c.Advance(time.Hour)

	assert.Equal(t, "2025-10-11", FormatDate(Today(c)))
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-10-10", "2025-10-10 00:00:00", "2025-10-10T18:45:00Z"} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), d, in)
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}
