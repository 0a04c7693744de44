package schedule_test

import (
	"testing"
	"time"

	"barberbook/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterval(t *testing.T) {
	start := day(9, 0)

	_, err := schedule.NewInterval(start, start)
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	_, err = schedule.NewInterval(start.Add(time.Hour), start)
	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)

	iv, err := schedule.NewInterval(start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestIntervalOverlaps(t *testing.T) {
	base := schedule.Interval{Start: day(10, 0), End: day(11, 0)}

	tests := []struct {
		name     string
		other    schedule.Interval
		overlaps bool
	}{
		{"identical", schedule.Interval{Start: day(10, 0), End: day(11, 0)}, true},
		{"contained", schedule.Interval{Start: day(10, 15), End: day(10, 45)}, true},
		{"partial left", schedule.Interval{Start: day(9, 30), End: day(10, 30)}, true},
		{"partial right", schedule.Interval{Start: day(10, 30), End: day(11, 30)}, true},
		{"touching before", schedule.Interval{Start: day(9, 0), End: day(10, 0)}, false},
		{"touching after", schedule.Interval{Start: day(11, 0), End: day(12, 0)}, false},
		{"disjoint", schedule.Interval{Start: day(14, 0), End: day(15, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base))
		})
	}
}

func TestMerge(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, schedule.Merge(nil))
	})

	t.Run("disjoint intervals stay separate and sorted", func(t *testing.T) {
		merged := schedule.Merge([]schedule.Interval{
			{Start: day(14, 0), End: day(15, 0)},
			{Start: day(9, 0), End: day(10, 0)},
		})
		require.Len(t, merged, 2)
		assert.Equal(t, day(9, 0), merged[0].Start)
		assert.Equal(t, day(14, 0), merged[1].Start)
	})

	t.Run("overlapping and adjacent intervals collapse", func(t *testing.T) {
		merged := schedule.Merge([]schedule.Interval{
			{Start: day(9, 0), End: day(10, 0)},
			{Start: day(9, 30), End: day(10, 30)},
			{Start: day(10, 30), End: day(11, 0)},
		})
		require.Len(t, merged, 1)
		assert.Equal(t, day(9, 0), merged[0].Start)
		assert.Equal(t, day(11, 0), merged[0].End)
	})

	t.Run("contained interval does not shrink the union", func(t *testing.T) {
		merged := schedule.Merge([]schedule.Interval{
			{Start: day(9, 0), End: day(12, 0)},
			{Start: day(10, 0), End: day(10, 30)},
		})
		require.Len(t, merged, 1)
		assert.Equal(t, day(12, 0), merged[0].End)
	})

	t.Run("input slice is untouched", func(t *testing.T) {
		input := []schedule.Interval{
			{Start: day(14, 0), End: day(15, 0)},
			{Start: day(9, 0), End: day(10, 0)},
		}
		schedule.Merge(input)
		assert.Equal(t, day(14, 0), input[0].Start)
	})
}
