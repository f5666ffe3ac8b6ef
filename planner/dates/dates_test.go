package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestStartOfDayUTC(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"morning", utc(2025, 3, 1, 10, 30), utc(2025, 3, 1, 0, 0)},
		{"already midnight", utc(2025, 3, 1, 0, 0), utc(2025, 3, 1, 0, 0)},
		{"offset zone crosses day", time.Date(2025, 3, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600*2)), utc(2025, 2, 28, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfDayUTC(tt.in)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestEnumerateDaysInclusiveUTC(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			name:  "time of day is ignored",
			start: utc(2025, 3, 1, 10, 0),
			end:   utc(2025, 3, 3, 2, 0),
			want:  []time.Time{utc(2025, 3, 1, 0, 0), utc(2025, 3, 2, 0, 0), utc(2025, 3, 3, 0, 0)},
		},
		{
			name:  "single day",
			start: utc(2025, 3, 1, 8, 0),
			end:   utc(2025, 3, 1, 22, 0),
			want:  []time.Time{utc(2025, 3, 1, 0, 0)},
		},
		{
			name:  "month and leap boundary",
			start: utc(2024, 2, 28, 23, 59),
			end:   utc(2024, 3, 1, 0, 0),
			want:  []time.Time{utc(2024, 2, 28, 0, 0), utc(2024, 2, 29, 0, 0), utc(2024, 3, 1, 0, 0)},
		},
		{
			name:  "end before start",
			start: utc(2025, 3, 2, 0, 0),
			end:   utc(2025, 3, 1, 0, 0),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnumerateDaysInclusiveUTC(tt.start, tt.end))
		})
	}
}

func TestSameUTCDay(t *testing.T) {
	assert.True(t, SameUTCDay(utc(2025, 3, 1, 0, 0), utc(2025, 3, 1, 23, 59)))
	assert.False(t, SameUTCDay(utc(2025, 3, 1, 23, 59), utc(2025, 3, 2, 0, 0)))
	assert.True(t, SameUTCDay(time.Date(2025, 3, 2, 0, 30, 0, 0, time.FixedZone("X", 3600)), utc(2025, 3, 1, 12, 0)))
}
