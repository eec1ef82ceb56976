package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/ski-bracket/internal/utils"
)

type Side string

const (
	Accommodation1 Side = "accommodation1"
	Accommodation2 Side = "accommodation2"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Accommodation1, Accommodation2:
		return Side(s), nil
	}
	return "", fmt.Errorf("%w: choice must be %q or %q", ErrValidation, Accommodation1, Accommodation2)
}

type Matchup struct {
	Accommodation1 Competitor `json:"accommodation1"`
	Accommodation2 Competitor `json:"accommodation2"`
	Votes1         int        `json:"votes1"`
	Votes2         int        `json:"votes2"`
	Winner         *Side      `json:"winner"`
}

// Cast records one vote for side. The side's remaining submission bonus is folded in on
// its first vote only.
func (m *Matchup) Cast(side Side) {
	if side == Accommodation1 {
		m.Votes1 += 1 + m.Accommodation1.takeBonus()
		return
	}
	m.Votes2 += 1 + m.Accommodation2.takeBonus()
}

// Resolvable reports whether the matchup already has a winner or at least one vote.
func (m *Matchup) Resolvable() bool {
	return m.Winner != nil || m.Votes1+m.Votes2 > 0
}

// Decide sets the winner if it is not set yet. Ties fall back to the remaining bonus,
// then the generation-time seed, then accommodation1.
func (m *Matchup) Decide() Side {
	if m.Winner != nil {
		return *m.Winner
	}

	side := Accommodation1
	switch {
	case m.Votes1 != m.Votes2:
		if m.Votes2 > m.Votes1 {
			side = Accommodation2
		}
	case m.Accommodation1.SubmissionCount != m.Accommodation2.SubmissionCount:
		if m.Accommodation2.SubmissionCount > m.Accommodation1.SubmissionCount {
			side = Accommodation2
		}
	case m.Accommodation2.Seed > m.Accommodation1.Seed:
		side = Accommodation2
	}

	m.Winner = utils.Ptr(side)
	return side
}

func (m *Matchup) Competitor(side Side) Competitor {
	if side == Accommodation2 {
		return m.Accommodation2
	}
	return m.Accommodation1
}

// Match is one bracket cell: either a bye carrying a single competitor, or a matchup.
type Match struct {
	ID            string      `json:"id"`
	Round         int         `json:"round"`
	Accommodation *Competitor `json:"accommodation,omitempty"`
	Matchup       *Matchup    `json:"matchup,omitempty"`
}

func (m *Match) IsBye() bool {
	return m.Matchup == nil
}

// Advancing returns the competitor this match sends to the next round. Matchups must be
// decided first.
func (m *Match) Advancing() Competitor {
	if m.IsBye() {
		return utils.OrZero(m.Accommodation)
	}
	return m.Matchup.Competitor(utils.OrZero(m.Matchup.Winner))
}

type Round []Match

func (r Round) Find(matchID string) *Match {
	for i := range r {
		if r[i].ID == matchID {
			return &r[i]
		}
	}
	return nil
}

// Pending counts matchups that can not be decided yet.
func (r Round) Pending() int {
	pending := 0
	for i := range r {
		if !r[i].IsBye() && !r[i].Matchup.Resolvable() {
			pending++
		}
	}
	return pending
}

func matchID(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

// pairRound builds a round from an ordered entrant list. When the count is odd the head of
// the list takes the bye and the rest pair up in order. Winners keep their match order, so
// a bye competitor leads the next list and takes the bye again whenever that list is odd.
func pairRound(number int, entrants []Competitor) Round {
	round := make(Round, 0, (len(entrants)+1)/2)
	rest := entrants

	if len(entrants)%2 == 1 {
		bye := entrants[0]
		round = append(round, Match{
			ID:            matchID(number, 1),
			Round:         number,
			Accommodation: &bye,
		})
		rest = entrants[1:]
	}

	for i := 0; i+1 < len(rest); i += 2 {
		round = append(round, Match{
			ID:    matchID(number, len(round)+1),
			Round: number,
			Matchup: &Matchup{
				Accommodation1: rest[i],
				Accommodation2: rest[i+1],
			},
		})
	}

	return round
}
