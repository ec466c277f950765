package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayKey(t *testing.T) {
	assert.Equal(t, "Sun", WeekdayKey(time.Sunday))
	assert.Equal(t, "Wed", WeekdayKey(time.Wednesday))
	assert.Equal(t, "Sat", WeekdayKey(time.Saturday))
}

func TestClockToMinutes(t *testing.T) {
	cases := []struct {
		clock   string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
		// unpadded values would sort after later padded ones ("9:00" > "10:00")
		{"9:00", 0, false},
		{"09:5", 0, false},
		{"+9:00", 0, false},
		{"09:00:00", 0, false},
	}

	for _, tc := range cases {
		got, err := ClockToMinutes(tc.clock)
		if !tc.ok {
			assert.Error(t, err, tc.clock)
			continue
		}
		require.NoError(t, err, tc.clock)
		assert.Equal(t, tc.minutes, got, tc.clock)
	}
}

func TestAvailabilityTemplateValidate(t *testing.T) {
	tpl := &AvailabilityTemplate{
		TutorID: "tutor-1",
		Days: map[string]TimeSlot{
			"Mon": {Enabled: true, Start: "09:00", End: "17:00"},
			"Tue": {Enabled: false},
		},
	}
	assert.NoError(t, tpl.Validate())

	tpl.Days["Xyz"] = TimeSlot{Enabled: true, Start: "09:00", End: "10:00"}
	assert.Error(t, tpl.Validate())
	delete(tpl.Days, "Xyz")

	tpl.Days["Wed"] = TimeSlot{Enabled: true, Start: "17:00", End: "09:00"}
	assert.Error(t, tpl.Validate())
	delete(tpl.Days, "Wed")

	tpl.Days["Fri"] = TimeSlot{Enabled: true, Start: "9:00", End: "17:00"}
	assert.Error(t, tpl.Validate())
	delete(tpl.Days, "Fri")

	// disabled days skip window checks entirely
	tpl.Days["Thu"] = TimeSlot{Enabled: false, Start: "nonsense"}
	assert.NoError(t, tpl.Validate())
}
