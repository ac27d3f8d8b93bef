package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkingDays(t *testing.T) {
	tests := []struct {
		in      string
		want    []time.Weekday
		wantErr bool
	}{
		{in: "1,2,3,4,5,6", want: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}},
		{in: "7", want: []time.Weekday{time.Sunday}},
		{in: " 1, 3 ,5 ", want: []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		{in: "", want: nil},
		{in: "0", wantErr: true},
		{in: "8", wantErr: true},
		{in: "mon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWorkingDays(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWorkingDays)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NewWorkingDays(tt.want...), got)
		})
	}
}

func TestWorkingDays_StringRoundTrip(t *testing.T) {
	wd := NewWorkingDays(time.Sunday, time.Monday, time.Saturday)
	assert.Equal(t, "1,6,7", wd.String())
	assert.True(t, wd.Contains(time.Sunday))
	assert.False(t, wd.Contains(time.Tuesday))

	var scanned WorkingDays
	require.NoError(t, scanned.Scan([]byte(wd.String())))
	assert.Equal(t, wd, scanned)
}
