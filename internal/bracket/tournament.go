package bracket

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/utils"
)

type TournamentStatus string

const (
	TournamentActive   TournamentStatus = "active"
	TournamentComplete TournamentStatus = "complete"
)

type Tournament struct {
	ID           string           `json:"id"`
	Destination  string           `json:"destination"`
	Bracket      Bracket          `json:"bracket"`
	CreatedAt    time.Time        `json:"createdAt"`
	Status       TournamentStatus `json:"status"`
	CurrentRound int              `json:"currentRound"`
	Winner       *Competitor      `json:"winner,omitempty"`
	AutoStarted  bool             `json:"autoStarted,omitempty"`
	SettingsID   string           `json:"settingsId,omitempty"`
}

// NewTournament wraps a freshly generated bracket, starting at round 1.
func NewTournament(id, destination string, b Bracket, createdAt time.Time) Tournament {
	return Tournament{
		ID:           id,
		Destination:  destination,
		Bracket:      b,
		CreatedAt:    createdAt,
		Status:       TournamentActive,
		CurrentRound: 1,
	}
}

type AdvanceResult struct {
	Winners      []Competitor     `json:"winners"`
	CurrentRound int              `json:"currentRound"`
	Status       TournamentStatus `json:"status"`
	Winner       *Competitor      `json:"winner,omitempty"`
}

func (t *Tournament) currentRound() (Round, error) {
	if t.CurrentRound < 1 || t.CurrentRound > len(t.Bracket.Rounds) {
		return nil, fmt.Errorf("%w: round %d of tournament %s", ErrNotFound, t.CurrentRound, t.ID)
	}
	return t.Bracket.Rounds[t.CurrentRound-1], nil
}

// Vote casts one vote in a matchup of the current round and returns the updated matchup.
func (t *Tournament) Vote(matchID string, side Side) (*Matchup, error) {
	if _, err := ParseSide(string(side)); err != nil {
		return nil, err
	}
	if t.Status == TournamentComplete {
		return nil, fmt.Errorf("%w: tournament %s is already complete", ErrValidation, t.ID)
	}

	round, err := t.currentRound()
	if err != nil {
		return nil, err
	}

	match := round.Find(matchID)
	if match == nil || match.IsBye() {
		return nil, fmt.Errorf("%w: match %s in round %d", ErrNotFound, matchID, t.CurrentRound)
	}

	match.Matchup.Cast(side)
	return match.Matchup, nil
}

// Advance decides every matchup of the current round and either finishes the tournament
// or builds the next round from the advancing competitors. Nothing changes on error.
func (t *Tournament) Advance() (*AdvanceResult, error) {
	if t.Status == TournamentComplete {
		return nil, fmt.Errorf("%w: tournament %s is already complete", ErrValidation, t.ID)
	}

	round, err := t.currentRound()
	if err != nil {
		return nil, err
	}

	if pending := round.Pending(); pending > 0 {
		return nil, &IncompleteRoundError{Round: t.CurrentRound, Pending: pending}
	}

	winners := make([]Competitor, 0, len(round))
	for i := range round {
		if !round[i].IsBye() {
			round[i].Matchup.Decide()
		}
		winners = append(winners, round[i].Advancing())
	}

	if len(winners) == 1 {
		t.Status = TournamentComplete
		t.Winner = utils.Ptr(winners[0])
		t.Bracket.Status = BracketComplete
	} else {
		t.CurrentRound++
		t.Bracket.Rounds = append(t.Bracket.Rounds[:t.CurrentRound-1], pairRound(t.CurrentRound, winners))
	}

	return &AdvanceResult{
		Winners:      winners,
		CurrentRound: t.CurrentRound,
		Status:       t.Status,
		Winner:       t.Winner,
	}, nil
}
