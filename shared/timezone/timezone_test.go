package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/shared/timezone"
)

func TestNowAndLocation(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestToAppTime(t *testing.T) {
	utc := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	converted := timezone.ToAppTime(utc)

	assert.True(t, converted.Equal(utc))
	assert.Equal(t, timezone.GetLocation(), converted.Location())
}

func TestFormatAndParse(t *testing.T) {
	formatted := timezone.Format(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC), "2006-01-02 15:04")
	assert.NotEmpty(t, formatted)

	parsed, err := timezone.Parse("2006-01-02", "2026-08-25")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())
}
