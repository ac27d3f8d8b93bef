package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "08:00", want: "08:00"},
		{in: "18:30:00", want: "18:30"},
		{in: " 9:05 ", want: "09:05"},
		{in: "24:00", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	ts := MustTimeString("17:45")

	assert.True(t, ts.IsBefore(MustTimeString("18:00")))
	assert.False(t, MustTimeString("18:00").IsBefore(ts))
	assert.False(t, ts.IsBefore(ts))
	assert.False(t, ts.IsBefore(TimeString("25:00")))

	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 17*60+45, minutes)
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	day := time.Date(2025, time.January, 6, 23, 0, 0, 0, time.UTC) // 20:00 in BRT, same day

	got, err := MustTimeString("09:30").On(day, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 6, 9, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("10:15:00")))
	assert.Equal(t, TimeString("10:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	assert.Error(t, ts.Scan(42))
}
