package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/class-timetable/internal/testfixtures"
	"github.com/example/class-timetable/internal/timetable"
)

func newTestScheduler(t *testing.T, clock *testfixtures.Clock, settings SettingsSource, notifier Notifier, fixtures ...testfixtures.SessionFixture) *ReminderScheduler {
	t.Helper()

	store := NewSessionStore(nil)
	require.NoError(t, store.Load(testfixtures.Sessions(fixtures)))

	s, err := NewReminderScheduler(store, settings, notifier, ReminderSchedulerConfig{
		Interval: 10 * time.Millisecond,
		Now:      clock.NowFunc(),
	})
	require.NoError(t, err)
	return s
}

var tenOClock = testfixtures.NewSessionFixture(
	testfixtures.WithSessionID("physics"),
	testfixtures.WithSlot(timetable.Tuesday, "10:00", "11:00"),
	testfixtures.WithSubject("Physics"),
	testfixtures.WithClass("10B", "Lab 1"),
)

func TestReminderScheduler_FiresAtMostOncePerDate(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:44"))
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, notifier, tenOClock)
	ctx := context.Background()

	assert.Equal(t, 0, s.Tick(ctx), "before the window")

	clock.SetAt(timetable.Tuesday, "09:46")
	assert.Equal(t, 1, s.Tick(ctx))

	for _, at := range []string{"09:50", "09:59", "10:05"} {
		clock.SetAt(timetable.Tuesday, at)
		assert.Equal(t, 0, s.Tick(ctx), "tick at %s", at)
	}

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "physics", sent[0].SessionID)
	assert.True(t, s.Fired("physics", "2024-03-05"))
}

func TestReminderScheduler_NotificationText(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:50"))
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, notifier, tenOClock)

	require.Equal(t, 1, s.Tick(context.Background()))
	n := notifier.notifications()[0]
	assert.Equal(t, "Physics starts in 10 min", n.Title)
	assert.Equal(t, "10B · Room Lab 1 · 10:00–11:00", n.Body)
	assert.True(t, n.StartsAt.Equal(testfixtures.At(timetable.Tuesday, "10:00")))
}

func TestReminderScheduler_DisabledSendsNothing(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:50"))
	notifier := &recordingNotifier{}
	settings := NewSettingsService(nil)
	_, err := settings.Update(context.Background(), SettingsPatch{Enabled: ptr(false)})
	require.NoError(t, err)

	s := newTestScheduler(t, clock, settings, notifier, tenOClock)
	assert.Equal(t, 0, s.Tick(context.Background()))
	assert.Empty(t, notifier.notifications())
	assert.False(t, s.Fired("physics", "2024-03-05"))

	_, err = settings.Update(context.Background(), SettingsPatch{Enabled: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Tick(context.Background()), "re-enabling inside the window fires")
}

func TestReminderScheduler_FailedDispatchIsNotRetried(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:50"))
	notifier := &recordingNotifier{err: errRepoDown}
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, notifier, tenOClock)

	assert.Equal(t, 0, s.Tick(context.Background()))
	assert.True(t, s.Fired("physics", "2024-03-05"))

	clock.Advance(time.Minute)
	assert.Equal(t, 0, s.Tick(context.Background()))
	assert.Len(t, notifier.notifications(), 1, "one attempt only")
}

func TestReminderScheduler_FiresAgainNextWeek(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:50"))
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, notifier, tenOClock)

	require.Equal(t, 1, s.Tick(context.Background()))

	clock.Advance(7 * 24 * time.Hour)
	require.Equal(t, 1, s.Tick(context.Background()))
	assert.False(t, s.Fired("physics", "2024-03-05"), "old records are pruned")
	assert.True(t, s.Fired("physics", "2024-03-12"))
	assert.Len(t, notifier.notifications(), 2)
}

func TestReminderScheduler_StartStop(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(testfixtures.At(timetable.Tuesday, "09:50"))
	notifier := &recordingNotifier{}
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, notifier, tenOClock)

	s.Stop()
	assert.False(t, s.Running())

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerRunning)

	assert.Eventually(t, func() bool {
		return len(notifier.notifications()) == 1
	}, time.Second, 5*time.Millisecond, "first tick runs immediately")

	s.Stop()
	assert.False(t, s.Running())

	clock.Advance(7 * 24 * time.Hour)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, notifier.notifications(), 1, "nothing is dispatched after Stop")

	require.NoError(t, s.Start(context.Background()), "a stopped scheduler can be restarted")
	s.Stop()
}

func TestReminderScheduler_StopsWithContext(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	s := newTestScheduler(t, clock, fixedSettings{Enabled: true, LeadMinutes: 15}, &recordingNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.Running() }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestNewReminderScheduler_Validation(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(nil)
	settings := fixedSettings(timetable.DefaultReminderSettings())
	notifier := &recordingNotifier{}

	_, err := NewReminderScheduler(nil, settings, notifier, ReminderSchedulerConfig{})
	assert.Error(t, err)

	for _, interval := range []time.Duration{-time.Second, 2 * time.Minute} {
		_, err := NewReminderScheduler(store, settings, notifier, ReminderSchedulerConfig{Interval: interval})
		assert.Error(t, err, "interval %s", interval)
	}

	s, err := NewReminderScheduler(store, settings, notifier, ReminderSchedulerConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultReminderInterval, s.interval)
}
