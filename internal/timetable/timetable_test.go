package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: Clock(9, 0)},
		{in: "9:05", want: Clock(9, 5)},
		{in: " 23:59 ", want: MaxTimeOfDay},
		{in: "00:00", want: 0},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "09:+5", wantErr: true},
		{in: "-1:00", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, MustParseTimeOfDay(got.String()))
		})
	}
}

func TestDayOf(t *testing.T) {
	t.Parallel()

	// 2024-03-04 is a Monday.
	monday := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	for i, want := range Days() {
		got, ok := DayOf(monday.AddDate(0, 0, i))
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := DayOf(monday.AddDate(0, 0, 6))
	assert.False(t, ok, "sunday is not a school day")
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	d, err := ParseDay("3")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, d)

	d, err = ParseDay("sat")
	require.NoError(t, err)
	assert.Equal(t, Saturday, d)

	_, err = ParseDay("7")
	assert.Error(t, err)
	_, err = ParseDay("sunday")
	assert.Error(t, err)
}

func TestSessionDurationIsDerived(t *testing.T) {
	t.Parallel()

	s := Session{Start: Clock(9, 0), End: Clock(10, 30)}
	assert.Equal(t, 90*time.Minute, s.Duration())

	s.End = Clock(11, 0)
	assert.Equal(t, 2*time.Hour, s.Duration())
}

func TestSessionInput_Session(t *testing.T) {
	t.Parallel()

	in := SessionInput{Day: Tuesday, Start: "08:15", End: "09:45", Subject: "Physics"}
	s, err := in.Session("s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, SessionLecture, s.Type, "type defaults to lecture")
	assert.Equal(t, "08:15-09:45", s.Span())
	assert.Equal(t, in.Start, InputFrom(s).Start)

	_, err = SessionInput{Day: Tuesday, Start: "8", End: "09:45"}.Session("x")
	assert.Error(t, err)
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	valid := SessionInput{Day: Monday, Start: "09:00", End: "10:00", Subject: "Maths", Type: SessionExam}
	assert.Empty(t, ValidateInput(valid))

	invalid := SessionInput{Day: 7, Start: "9am", End: "", Subject: "", Participants: -1, Type: "seminar"}
	errs := ValidateInput(invalid)
	assert.Contains(t, errs, "day")
	assert.Contains(t, errs, "start")
	assert.Equal(t, "end is required", errs["end"])
	assert.Equal(t, "subject is required", errs["subject"])
	assert.Contains(t, errs, "participants")
	assert.Contains(t, errs, "type")
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	for _, lead := range LeadMinuteOptions {
		assert.Empty(t, ValidateSettings(ReminderSettings{LeadMinutes: lead}))
	}
	errs := ValidateSettings(ReminderSettings{Enabled: true, LeadMinutes: 20})
	assert.Equal(t, "lead_minutes must be one of 5, 10, 15, 30", errs["lead_minutes"])

	assert.Equal(t, 15*time.Minute, DefaultReminderSettings().Lead())
}

func TestValidateSession(t *testing.T) {
	t.Parallel()

	ok := Session{ID: "a", Day: Friday, Start: Clock(9, 0), End: Clock(10, 0), Subject: "Art", Type: SessionTutorial}
	assert.Nil(t, ValidateSession(ok))

	bad := Session{Day: 0, Start: -1, End: MaxTimeOfDay + 1, Participants: -3, Type: "x"}
	errs := ValidateSession(bad)
	assert.Len(t, errs, 7)
}

func TestTimeOfDayOn(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, time.March, 6, 17, 42, 11, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 6, 9, 30, 0, 0, time.UTC), Clock(9, 30).On(date))
	assert.Equal(t, 17*time.Hour+42*time.Minute+11*time.Second, Elapsed(date))
	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), StartOfDay(date))
}
