package scheduling

import (
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
)

func newStaff(opens, closes, days string) *domain.StaffMember {
	wd, err := domain.ParseWorkingDays(days)
	if err != nil {
		panic(err)
	}
	return &domain.StaffMember{
		ID:          7,
		ShopID:      1,
		Name:        "Carlos",
		WorkingDays: wd,
		OpensAt:     types.MustTimeString(opens),
		ClosesAt:    types.MustTimeString(closes),
		Active:      true,
	}
}

func at(day time.Time, hhmm string) time.Time {
	t, err := types.MustTimeString(hhmm).On(day, day.Location())
	if err != nil {
		panic(err)
	}
	return t
}

func TestSlots(t *testing.T) {
	staff := newStaff("08:00", "18:00", "1,2,3,4,5,6")

	tests := []struct {
		name        string
		date        time.Time
		duration    int
		granularity time.Duration
		wantLen     int
		wantFirst   string
		wantLast    string
	}{
		{name: "30 min service every 15 min", date: monday, duration: 30, granularity: 15 * time.Minute, wantLen: 39, wantFirst: "08:00", wantLast: "17:30"},
		{name: "60 min service drops late slots", date: monday, duration: 60, granularity: 15 * time.Minute, wantLen: 37, wantFirst: "08:00", wantLast: "17:00"},
		{name: "granularity 30", date: monday, duration: 30, granularity: 30 * time.Minute, wantLen: 20, wantFirst: "08:00", wantLast: "17:30"},
		{name: "whole day service", date: monday, duration: 600, granularity: 15 * time.Minute, wantLen: 1, wantFirst: "08:00", wantLast: "08:00"},
		{name: "service longer than window", date: monday, duration: 601, granularity: 15 * time.Minute, wantLen: 0},
		{name: "closed weekday", date: sunday, duration: 30, granularity: 15 * time.Minute, wantLen: 0},
		{name: "zero duration", date: monday, duration: 0, granularity: 15 * time.Minute, wantLen: 0},
		{name: "zero granularity", date: monday, duration: 30, granularity: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Slots(staff, tt.duration, tt.date, tt.granularity))

			require.Len(t, got, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}
			assert.Equal(t, at(tt.date, tt.wantFirst), got[0])
			assert.Equal(t, at(tt.date, tt.wantLast), got[len(got)-1])

			for _, slot := range got {
				assert.False(t, slot.Before(at(tt.date, "08:00")))
				assert.False(t, slot.Add(time.Duration(tt.duration)*time.Minute).After(at(tt.date, "18:00")))
			}
		})
	}
}

func TestSlots_IsRestartableAndStopsEarly(t *testing.T) {
	staff := newStaff("09:00", "12:00", "1")
	seq := Slots(staff, 30, monday, 30*time.Minute)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	var taken []time.Time
	for slot := range seq {
		taken = append(taken, slot)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, []time.Time{at(monday, "09:00"), at(monday, "09:30")}, taken)
}

func TestSlots_UsesDateLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	day := time.Date(2025, time.January, 6, 0, 0, 0, 0, loc)
	staff := newStaff("08:00", "09:00", "1")

	got := slices.Collect(Slots(staff, 30, day, 30*time.Minute))
	require.Len(t, got, 2)
	assert.Equal(t, 8, got[0].Hour())
	assert.Equal(t, loc, got[0].Location())
}

func TestCheckWorkingWindow(t *testing.T) {
	staff := newStaff("08:00", "18:00", "1,2,3,4,5,6")

	tests := []struct {
		name       string
		start      time.Time
		duration   int
		wantReason OutOfHoursReason
	}{
		{name: "inside window", start: at(monday, "09:00"), duration: 30},
		{name: "starts at opening", start: at(monday, "08:00"), duration: 30},
		{name: "ends exactly at closing", start: at(monday, "17:30"), duration: 30},
		{name: "before opening", start: at(monday, "07:30"), duration: 30, wantReason: ReasonBeforeOpening},
		{name: "runs past closing", start: at(monday, "17:45"), duration: 30, wantReason: ReasonAfterClosing},
		{name: "starts at closing", start: at(monday, "18:00"), duration: 15, wantReason: ReasonAfterClosing},
		{name: "non working day", start: at(sunday, "10:00"), duration: 30, wantReason: ReasonNonWorkingDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWorkingWindow(staff, tt.start, tt.duration)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrOutOfHours)
			var ooh *OutOfHoursError
			require.ErrorAs(t, err, &ooh)
			assert.Equal(t, tt.wantReason, ooh.Reason)
			assert.Equal(t, staff.ID, ooh.StaffID)
			assert.Equal(t, tt.start, ooh.Start)
		})
	}
}

func TestCheckWorkingWindow_InvalidInput(t *testing.T) {
	t.Run("non positive duration", func(t *testing.T) {
		err := CheckWorkingWindow(newStaff("08:00", "18:00", "1"), at(monday, "09:00"), 0)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("inverted working hours", func(t *testing.T) {
		err := CheckWorkingWindow(newStaff("18:00", "08:00", "1"), at(monday, "09:00"), 30)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})
}

func TestSlotsAgreeWithWorkingWindow(t *testing.T) {
	staff := newStaff("10:00", "14:00", "1,3,5")
	for day := 0; day < 7; day++ {
		date := monday.AddDate(0, 0, day)
		for slot := range Slots(staff, 45, date, 15*time.Minute) {
			assert.NoError(t, CheckWorkingWindow(staff, slot, 45), "slot %s", slot)
		}
	}
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(at(monday, "13:45"))
	assert.Equal(t, monday, start)
	assert.Equal(t, monday.AddDate(0, 0, 1), end)
}

func TestSlots_SpringForwardGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09: 02:00 -> 03:00
	day := time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)
	staff := newStaff("01:00", "04:00", "7")

	got := slices.Collect(Slots(staff, 30, day, 30*time.Minute))

	want := []time.Time{
		time.Date(2025, time.March, 9, 1, 0, 0, 0, loc),
		time.Date(2025, time.March, 9, 1, 30, 0, 0, loc),
		time.Date(2025, time.March, 9, 3, 0, 0, 0, loc),
		time.Date(2025, time.March, 9, 3, 30, 0, 0, loc),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "slot %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestCheckWorkingWindow_SpringForwardGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	staff := newStaff("01:00", "04:00", "7")
	start := time.Date(2025, time.March, 9, 3, 0, 0, 0, loc)

	assert.NoError(t, CheckWorkingWindow(staff, start, 60))
	assert.ErrorIs(t, CheckWorkingWindow(staff, start, 61), ErrOutOfHours)
}
