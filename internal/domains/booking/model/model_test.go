package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"atrium/internal/domains/booking/model"
)

func interval(startHour, endHour int) model.Interval {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	return model.Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name          string
		a, b          model.Interval
		countTouching bool
		want          bool
	}{
		{
			name: "disjoint intervals",
			a:    interval(9, 10),
			b:    interval(11, 12),
			want: false,
		},
		{
			name: "partial overlap",
			a:    interval(9, 11),
			b:    interval(10, 12),
			want: true,
		},
		{
			name: "containment",
			a:    interval(9, 12),
			b:    interval(10, 11),
			want: true,
		},
		{
			name: "identical intervals",
			a:    interval(9, 10),
			b:    interval(9, 10),
			want: true,
		},
		{
			name: "back to back does not overlap by default",
			a:    interval(9, 10),
			b:    interval(10, 11),
			want: false,
		},
		{
			name:          "back to back overlaps when touching counts",
			a:             interval(9, 10),
			b:             interval(10, 11),
			countTouching: true,
			want:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b, tt.countTouching))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a, tt.countTouching))
		})
	}
}

func TestInterval_IsValid(t *testing.T) {
	assert.True(t, interval(9, 10).IsValid(false))
	assert.False(t, interval(10, 9).IsValid(false))
	assert.False(t, interval(9, 9).IsValid(false))
	assert.True(t, interval(9, 9).IsValid(true))
	assert.False(t, interval(10, 9).IsValid(true))
}
