package service

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsInput(s *testServices, destination string, minSubmissions int) SettingsInput {
	return SettingsInput{
		Destination:        destination,
		SubmissionDeadline: s.clock.now.Add(time.Hour),
		AutoStartTime:      s.clock.now.Add(2 * time.Hour),
		CreatorID:          "creator-1",
		MinSubmissions:     minSubmissions,
	}
}

func TestSetSettings(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	settings, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 0))
	require.NoError(t, err)
	assert.NotEmpty(t, settings.ID)
	assert.Equal(t, bracket.SettingsActive, settings.Status)
	assert.Equal(t, bracket.DefaultMinSubmissions, settings.MinSubmissions)
	assert.Equal(t, s.clock.now, settings.CreatedAt)

	view, err := s.settings.GetSettings(ctx, "Utah")
	require.NoError(t, err)
	assert.Equal(t, settings.ID, view.ID)
	assert.False(t, view.ShouldAutoStart)
	assert.Equal(t, (2 * time.Hour).Milliseconds(), view.TimeUntilAutoStart)
}

func TestSetSettings_ReplacesActiveSettings(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	first, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 2))
	require.NoError(t, err)
	_, err = s.settings.SetSettings(ctx, settingsInput(s, "Colorado", 2))
	require.NoError(t, err)
	second, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 5))
	require.NoError(t, err)

	view, err := s.settings.GetSettings(ctx, "Utah")
	require.NoError(t, err)
	assert.Equal(t, second.ID, view.ID)
	assert.NotEqual(t, first.ID, view.ID)
	assert.Equal(t, 5, view.MinSubmissions)

	state, err := s.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.TournamentSettings, 2)

	_, err = s.settings.GetSettings(ctx, "Colorado")
	assert.NoError(t, err)
}

func TestSetSettings_Validation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	input := settingsInput(s, "Utah", 3)
	input.AutoStartTime = input.SubmissionDeadline.Add(-time.Minute)
	_, err := s.settings.SetSettings(ctx, input)
	assert.ErrorIs(t, err, bracket.ErrValidation)

	input = settingsInput(s, "Utah", -1)
	_, err = s.settings.SetSettings(ctx, input)
	assert.ErrorIs(t, err, bracket.ErrValidation)

	input = settingsInput(s, "Utah", 3)
	input.CreatorID = ""
	_, err = s.settings.SetSettings(ctx, input)
	assert.ErrorIs(t, err, bracket.ErrValidation)

	_, err = s.settings.GetSettings(ctx, "Utah")
	assert.ErrorIs(t, err, bracket.ErrNotFound)
}

func TestGetSettings_Due(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 1))
	require.NoError(t, err)

	s.clock.now = s.clock.now.Add(3 * time.Hour)

	view, err := s.settings.GetSettings(ctx, "Utah")
	require.NoError(t, err)
	assert.True(t, view.ShouldAutoStart)
	assert.Equal(t, int64(0), view.TimeUntilAutoStart)
}

func TestCheckAutoStart(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	settings, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 2))
	require.NoError(t, err)
	submit(t, s, "Utah", "a", "b", "c")
	submit(t, s, "Utah", "a", "d", "e")

	started, err := s.settings.CheckAutoStart(ctx)
	require.NoError(t, err)
	assert.NotNil(t, started)
	assert.Empty(t, started, "not due yet")

	s.clock.now = s.clock.now.Add(2 * time.Hour)

	started, err = s.settings.CheckAutoStart(ctx)
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.True(t, started[0].AutoStarted)
	assert.Equal(t, settings.ID, started[0].SettingsID)
	assert.Equal(t, "Utah", started[0].Destination)
	assert.Equal(t, bracket.TournamentActive, started[0].Status)

	again, err := s.settings.CheckAutoStart(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	tournaments, err := s.tournaments.ListTournaments(ctx)
	require.NoError(t, err)
	assert.Len(t, tournaments, 1)

	_, err = s.settings.GetSettings(ctx, "Utah")
	assert.ErrorIs(t, err, bracket.ErrNotFound)

	state, err := s.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.TournamentSettings, 1)
	assert.Equal(t, bracket.SettingsCompleted, state.TournamentSettings[0].Status)
}

func TestCheckAutoStart_NotEnoughSubmissions(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 3))
	require.NoError(t, err)
	_, err = s.settings.SetSettings(ctx, settingsInput(s, "Colorado", 1))
	require.NoError(t, err)
	submit(t, s, "Utah", "a", "b", "c")
	submit(t, s, "Utah", "d", "e", "f")
	submit(t, s, "Colorado", "x", "y", "z")

	s.clock.now = s.clock.now.Add(24 * time.Hour)

	started, err := s.settings.CheckAutoStart(ctx)
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, "Colorado", started[0].Destination)

	view, err := s.settings.GetSettings(ctx, "Utah")
	require.NoError(t, err)
	assert.Equal(t, bracket.SettingsActive, view.Status)

	submit(t, s, "Utah", "a", "g", "h")
	started, err = s.settings.CheckAutoStart(ctx)
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, "Utah", started[0].Destination)
}

func TestCheckAutoStart_ConcurrentCallsStartOnce(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.settings.SetSettings(ctx, settingsInput(s, "Utah", 1))
	require.NoError(t, err)
	submit(t, s, "Utah", "a", "b", "c")
	s.clock.now = s.clock.now.Add(3 * time.Hour)

	results := make(chan int, 8)
	for i := 0; i < 8; i++ {
		go func() {
			started, err := s.settings.CheckAutoStart(ctx)
			if err != nil {
				results <- -1
				return
			}
			results <- len(started)
		}()
	}

	total := 0
	for i := 0; i < 8; i++ {
		n := <-results
		require.GreaterOrEqual(t, n, 0)
		total += n
	}
	assert.Equal(t, 1, total)
}
