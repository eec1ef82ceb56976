package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/AdamBeresnev/ski-bracket/internal/metrics"
	"github.com/AdamBeresnev/ski-bracket/internal/store"
)

type MatchService struct {
	state *StateManager
}

func NewMatchService(state *StateManager) *MatchService {
	return &MatchService{state: state}
}

func findTournament(state *store.State, id string) (*bracket.Tournament, error) {
	tournament, ok := state.Tournament(id)
	if !ok {
		return nil, fmt.Errorf("%w: tournament %s", bracket.ErrNotFound, id)
	}
	return tournament, nil
}

// Vote records one vote for side in a matchup of the tournament's current round.
func (s *MatchService) Vote(ctx context.Context, tournamentID, matchID string, side bracket.Side) (*bracket.Matchup, error) {
	var matchup bracket.Matchup
	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		tournament, err := findTournament(state, tournamentID)
		if err != nil {
			return false, err
		}
		m, err := tournament.Vote(matchID, side)
		if err != nil {
			return false, err
		}
		matchup = *m
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VotesTotal.Inc()
	return &matchup, nil
}

// Advance closes the current round of the tournament.
func (s *MatchService) Advance(ctx context.Context, tournamentID string) (*bracket.AdvanceResult, error) {
	var result *bracket.AdvanceResult
	err := s.state.update(ctx, func(state *store.State) (bool, error) {
		tournament, err := findTournament(state, tournamentID)
		if err != nil {
			return false, err
		}
		result, err = tournament.Advance()
		return err == nil, err
	})
	if err != nil {
		return nil, err
	}

	metrics.RoundsAdvanced.Inc()
	if result.Status == bracket.TournamentComplete {
		metrics.TournamentsCompleted.Inc()
		slog.Info("tournament complete", "tournament_id", tournamentID, "winner", result.Winner.ID)
	}
	return result, nil
}
