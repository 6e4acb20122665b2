package timeslot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "valid morning", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "hour out of range", input: "24:00", wantErr: ErrOutOfRange},
		{name: "minute out of range", input: "10:60", wantErr: ErrOutOfRange},
		{name: "missing leading zero", input: "9:00", wantErr: ErrInvalidFormat},
		{name: "no separator", input: "0900", wantErr: ErrInvalidFormat},
		{name: "garbage", input: "ab:cd", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinutesRoundTrip(t *testing.T) {
	// FromMinutes(Minutes(t)) == t для всех корректных значений "HH:MM"
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 7 {
			s := fmt.Sprintf("%02d:%02d", hour, minute)
			ts, err := NewTimeStringFromString(s)
			require.NoError(t, err)
			assert.Equal(t, ts, FromMinutes(ts.Minutes()))
			assert.Equal(t, hour*60+minute, ts.Minutes())
		}
	}
}

func TestAddMinutes(t *testing.T) {
	ts := TimeString("10:00")

	got, err := ts.AddMinutes(75)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), got)

	got, err = ts.AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	_, err = ts.AddMinutes(15 * 60)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = TimeString("bad").AddMinutes(10)
	assert.Error(t, err)
}

func TestComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:30").IsAfter("17:29"))
	assert.False(t, TimeString("17:30").IsAfter("17:30"))
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2026, 3, 14, 8, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("08:05"), NewTimeString(moment))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 int
		want                       bool
	}{
		{name: "touching boundary is not an overlap", start1: 100, end1: 160, start2: 160, end2: 220, want: false},
		{name: "one minute overlap", start1: 100, end1: 160, start2: 159, end2: 220, want: true},
		{name: "contained interval", start1: 100, end1: 200, start2: 120, end2: 140, want: true},
		{name: "identical intervals", start1: 100, end1: 160, start2: 100, end2: 160, want: true},
		{name: "disjoint", start1: 100, end1: 160, start2: 300, end2: 360, want: false},
		{name: "touching on the left", start1: 160, end1: 220, start2: 100, end2: 160, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
		})
	}
}
