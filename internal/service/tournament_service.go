package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/AdamBeresnev/ski-bracket/internal/metrics"
	"github.com/AdamBeresnev/ski-bracket/internal/store"
	"github.com/AdamBeresnev/ski-bracket/internal/utils"
)

type TournamentService struct {
	state *StateManager
}

func NewTournamentService(state *StateManager) *TournamentService {
	return &TournamentService{state: state}
}

type SubmissionInput struct {
	Destination    string
	GroupSize      int
	Accommodations []bracket.Accommodation
	UserID         string
}

type SubmissionResult struct {
	Submission       bracket.Submission
	TotalSubmissions int
}

func (s *TournamentService) Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error) {
	submission := bracket.Submission{
		Destination:    input.Destination,
		GroupSize:      input.GroupSize,
		Accommodations: input.Accommodations,
	}
	if err := submission.Validate(); err != nil {
		return nil, err
	}

	var result SubmissionResult
	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		submission.ID = s.state.newID()
		submission.SubmittedAt = s.state.now().UTC()
		submission.UserID = utils.Coalesce(input.UserID, "user_"+s.state.newID())

		state.Submissions = append(state.Submissions, submission)
		result = SubmissionResult{Submission: submission, TotalSubmissions: len(state.Submissions)}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SubmissionsTotal.Inc()
	return &result, nil
}

// Submissions lists stored submissions, all of them when destination is empty.
func (s *TournamentService) Submissions(ctx context.Context, destination string) ([]bracket.Submission, error) {
	state, err := s.state.read(ctx)
	if err != nil {
		return nil, err
	}
	if destination == "" {
		return state.Submissions, nil
	}
	submissions := state.SubmissionsFor(destination)
	if submissions == nil {
		submissions = []bracket.Submission{}
	}
	return submissions, nil
}

func (s *TournamentService) Generate(ctx context.Context, destination string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		t, err := s.state.generate(state, destination)
		if err != nil {
			return false, err
		}
		tournament = *t
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TournamentsGenerated.WithLabelValues(metrics.TriggerManual).Inc()
	slog.Info("tournament generated", "tournament_id", tournament.ID, "destination", destination,
		"total_rounds", tournament.Bracket.TotalRounds)
	return &tournament, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	state, err := s.state.read(ctx)
	if err != nil {
		return nil, err
	}
	tournament, ok := state.Tournament(id)
	if !ok {
		return nil, fmt.Errorf("%w: tournament %s", bracket.ErrNotFound, id)
	}
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	state, err := s.state.read(ctx)
	if err != nil {
		return nil, err
	}
	return state.Tournaments, nil
}
