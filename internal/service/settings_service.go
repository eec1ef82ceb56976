package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/AdamBeresnev/ski-bracket/internal/metrics"
	"github.com/AdamBeresnev/ski-bracket/internal/store"
)

type SettingsService struct {
	state *StateManager
}

func NewSettingsService(state *StateManager) *SettingsService {
	return &SettingsService{state: state}
}

type SettingsInput struct {
	Destination        string
	SubmissionDeadline time.Time
	AutoStartTime      time.Time
	CreatorID          string
	MinSubmissions     int
}

// SetSettings stores new settings for a destination, replacing the active ones. Completed
// settings stay around so tournaments can still point at them.
func (s *SettingsService) SetSettings(ctx context.Context, input SettingsInput) (*bracket.Settings, error) {
	if input.MinSubmissions < 0 {
		return nil, fmt.Errorf("%w: minSubmissions can not be negative", bracket.ErrValidation)
	}
	if input.MinSubmissions == 0 {
		input.MinSubmissions = bracket.DefaultMinSubmissions
	}

	settings := bracket.Settings{
		Destination:        input.Destination,
		SubmissionDeadline: input.SubmissionDeadline.UTC(),
		AutoStartTime:      input.AutoStartTime.UTC(),
		CreatorID:          input.CreatorID,
		MinSubmissions:     input.MinSubmissions,
		Status:             bracket.SettingsActive,
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		settings.ID = s.state.newID()
		settings.CreatedAt = s.state.now().UTC()

		kept := state.TournamentSettings[:0]
		for _, existing := range state.TournamentSettings {
			if existing.Destination == settings.Destination && existing.Status == bracket.SettingsActive {
				continue
			}
			kept = append(kept, existing)
		}
		state.TournamentSettings = append(kept, settings)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) GetSettings(ctx context.Context, destination string) (*bracket.SettingsView, error) {
	state, err := s.state.read(ctx)
	if err != nil {
		return nil, err
	}

	settings, ok := state.ActiveSettings(destination)
	if !ok {
		return nil, fmt.Errorf("%w: no active settings for %s", bracket.ErrNotFound, destination)
	}
	view := settings.View(s.state.now())
	return &view, nil
}

// CheckAutoStart starts a tournament for every active settings record that is due and has
// enough submissions, then marks the record completed so it never fires twice. It returns
// the tournaments started by this call.
func (s *SettingsService) CheckAutoStart(ctx context.Context) ([]bracket.Tournament, error) {
	started := []bracket.Tournament{}

	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		now := s.state.now()
		for i := range state.TournamentSettings {
			settings := &state.TournamentSettings[i]
			if settings.Status != bracket.SettingsActive || !settings.Due(now) {
				continue
			}
			if len(state.SubmissionsFor(settings.Destination)) < settings.MinSubmissions {
				continue
			}

			t, err := s.state.generate(state, settings.Destination)
			if err != nil {
				return false, err
			}
			t.AutoStarted = true
			t.SettingsID = settings.ID
			settings.Status = bracket.SettingsCompleted
			started = append(started, *t)
		}
		return len(started) > 0, nil
	})
	if err != nil {
		metrics.AutoStartChecks.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.AutoStartChecks.WithLabelValues("ok").Inc()
	for _, t := range started {
		metrics.TournamentsGenerated.WithLabelValues(metrics.TriggerAutoStart).Inc()
		slog.Info("tournament auto-started", "tournament_id", t.ID, "destination", t.Destination, "settings_id", t.SettingsID)
	}
	return started, nil
}
