package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourIndex(t *testing.T) {
	for _, h := range Hours {
		assert.Equal(t, h-9, HourIndex(h))
	}
	assert.Equal(t, 3, HourIndex(NoonHour))
}

func TestValidStartsThreeHoursMorningOrAfternoon(t *testing.T) {
	starts := ValidStarts(3)
	require.NotEmpty(t, starts)
	assert.Contains(t, starts, 9)
	assert.Contains(t, starts, 13)
	assert.Contains(t, starts, 14)
	assert.NotContains(t, starts, 10)
	assert.NotContains(t, starts, 11)
	assert.NotContains(t, starts, 15)
	assert.NotContains(t, starts, 16)
}

func TestValidStartsFourHoursAfternoonOnly(t *testing.T) {
	starts := ValidStarts(4)
	assert.Equal(t, []int{13}, starts)
}

func TestValidStartsTooLong(t *testing.T) {
	assert.Empty(t, ValidStarts(5))
}

func TestFitsHalfDay(t *testing.T) {
	assert.True(t, FitsHalfDay(9, 2))
	assert.True(t, FitsHalfDay(10, 2))
	assert.False(t, FitsHalfDay(11, 2))
	assert.True(t, FitsHalfDay(13, 4))
	assert.False(t, FitsHalfDay(14, 4))
}

func TestSpansNoon(t *testing.T) {
	assert.True(t, SpansNoon(11, 2))
	assert.True(t, SpansNoon(12, 1))
	assert.False(t, SpansNoon(9, 3))
	assert.False(t, SpansNoon(13, 4))
}

func TestSlotIndexSkipsNoon(t *testing.T) {
	idx, skip := SlotIndex(11)
	assert.False(t, skip)
	assert.Equal(t, 2, idx)

	_, skip = SlotIndex(12)
	assert.True(t, skip)

	idx, skip = SlotIndex(13)
	assert.False(t, skip)
	assert.Equal(t, 4, idx)
}

func TestCoveredHours(t *testing.T) {
	assert.Equal(t, []int{13, 14, 15}, CoveredHours(13, 3))
}
