package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	value, err := Parse("08:30")
	require.NoError(t, err)
	assert.Equal(t, Minutes(510), value)
	assert.Equal(t, "08:30", value.String())
}

func TestParseWithSeconds(t *testing.T) {
	value, err := Parse("13:05:00")
	require.NoError(t, err)
	assert.Equal(t, Minutes(13*60+5), value)
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"", "9", "25:00", "08:61", "ab:cd"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestAddAndBefore(t *testing.T) {
	start := MustParse("09:00")
	end := start.Add(90)
	assert.Equal(t, "10:30", end.String())
	assert.True(t, start.Before(end))
	assert.False(t, end.Before(start))
	assert.False(t, start.Before(start))
}

func TestNewIntervalRejectsInverted(t *testing.T) {
	_, err := NewInterval(MustParse("10:00"), MustParse("09:00"))
	assert.Error(t, err)
	_, err = NewInterval(MustParse("10:00"), MustParse("10:00"))
	assert.Error(t, err)
}

func TestOverlapsIsStrictAndSymmetric(t *testing.T) {
	a, err := NewInterval(MustParse("09:00"), MustParse("10:00"))
	require.NoError(t, err)
	b, err := NewInterval(MustParse("10:00"), MustParse("11:00"))
	require.NoError(t, err)
	c, err := NewInterval(MustParse("09:30"), MustParse("10:30"))
	require.NoError(t, err)

	// touching boundaries are legal
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(a))
	assert.True(t, b.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}

func TestOverlapsContainment(t *testing.T) {
	outer, _ := NewInterval(MustParse("08:00"), MustParse("12:00"))
	inner, _ := NewInterval(MustParse("09:00"), MustParse("10:00"))
	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}

func TestEqual(t *testing.T) {
	a, _ := NewInterval(MustParse("09:00"), MustParse("10:00"))
	b, _ := NewInterval(MustParse("09:00"), MustParse("10:00"))
	c, _ := NewInterval(MustParse("09:00"), MustParse("10:30"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
