package bracket

import (
	"errors"
	"testing"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTournament(picks []Accommodation) *Tournament {
	t := NewTournament("t1", "Utah", Generate(picks, newRand(11)), time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	return &t
}

func identicalPicks() []Accommodation {
	var picks []Accommodation
	for i := 0; i < 3; i++ {
		picks = append(picks, acc("a"), acc("b"), acc("c"))
	}
	return picks
}

func firstMatchup(t *testing.T, r Round) *Match {
	t.Helper()
	for i := range r {
		if !r[i].IsBye() {
			return &r[i]
		}
	}
	require.FailNow(t, "round has no matchup")
	return nil
}

func TestNewTournament(t *testing.T) {
	tournament := newTestTournament(identicalPicks())

	assert.Equal(t, TournamentActive, tournament.Status)
	assert.Equal(t, 1, tournament.CurrentRound)
	assert.Nil(t, tournament.Winner)
	assert.False(t, tournament.AutoStarted)
}

func TestVote_AddsSubmissionBonusOnce(t *testing.T) {
	tournament := newTestTournament(identicalPicks())
	match := firstMatchup(t, tournament.Bracket.Rounds[0])

	matchup, err := tournament.Vote(match.ID, Accommodation1)
	require.NoError(t, err)
	assert.Equal(t, 4, matchup.Votes1)
	assert.Equal(t, 0, matchup.Accommodation1.SubmissionCount)

	matchup, err = tournament.Vote(match.ID, Accommodation1)
	require.NoError(t, err)
	assert.Equal(t, 5, matchup.Votes1)

	// The other side keeps its own bonus until it is voted for
	assert.Equal(t, 0, matchup.Votes2)
	assert.Equal(t, 3, matchup.Accommodation2.SubmissionCount)

	matchup, err = tournament.Vote(match.ID, Accommodation2)
	require.NoError(t, err)
	assert.Equal(t, 4, matchup.Votes2)
	assert.Equal(t, 5, matchup.Votes1)

	// Seeds survive the bonus being spent
	assert.Equal(t, 3, matchup.Accommodation1.Seed)
	assert.Equal(t, 3, matchup.Accommodation2.Seed)

	// The vote landed in the tournament itself
	stored := tournament.Bracket.Rounds[0].Find(match.ID)
	assert.Equal(t, 5, stored.Matchup.Votes1)
	assert.Equal(t, 4, stored.Matchup.Votes2)
}

func TestVote_Errors(t *testing.T) {
	tournament := newTestTournament(identicalPicks())
	bye := tournament.Bracket.Rounds[0][0]
	require.True(t, bye.IsBye())

	_, err := tournament.Vote("R9M9", Accommodation1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tournament.Vote(bye.ID, Accommodation1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tournament.Vote("R1M2", Side("accommodation3"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("accommodation2")
	require.NoError(t, err)
	assert.Equal(t, Accommodation2, side)

	_, err = ParseSide("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdvance_IncompleteRound(t *testing.T) {
	tournament := newTestTournament(popularPicks())

	_, err := tournament.Advance()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteRound)

	var incomplete *IncompleteRoundError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 3, incomplete.Pending)
	assert.Equal(t, 1, incomplete.Round)

	assert.Equal(t, 1, tournament.CurrentRound)
	assert.Len(t, tournament.Bracket.Rounds, 1)
	assert.Equal(t, TournamentActive, tournament.Status)
}

func TestAdvance_TwoCompetitorsCompletes(t *testing.T) {
	tournament := newTestTournament([]Accommodation{acc("a"), acc("a"), acc("b")})
	require.Len(t, tournament.Bracket.Rounds[0], 1)
	match := tournament.Bracket.Rounds[0][0]
	require.False(t, match.IsBye())

	loser := Accommodation1
	winner := Accommodation2
	if match.Matchup.Accommodation1.ID == "b" {
		loser, winner = winner, loser
	}
	_, err := tournament.Vote(match.ID, winner)
	require.NoError(t, err)
	_, err = tournament.Vote(match.ID, winner)
	require.NoError(t, err)
	_, err = tournament.Vote(match.ID, loser)
	require.NoError(t, err)

	// b: 1+1 then +1 = 3, a: 1+2 = 3 would tie, so add one more for b
	_, err = tournament.Vote(match.ID, winner)
	require.NoError(t, err)

	result, err := tournament.Advance()
	require.NoError(t, err)

	assert.Equal(t, TournamentComplete, result.Status)
	assert.Equal(t, 1, result.CurrentRound)
	require.NotNil(t, result.Winner)
	assert.Equal(t, "b", result.Winner.ID)
	assert.Equal(t, "b", tournament.Winner.ID)
	assert.Equal(t, TournamentComplete, tournament.Status)
	assert.Equal(t, BracketComplete, tournament.Bracket.Status)
	assert.Equal(t, winner, *tournament.Bracket.Rounds[0][0].Matchup.Winner)
}

func TestAdvance_SingleCompetitorCompletesImmediately(t *testing.T) {
	tournament := newTestTournament([]Accommodation{acc("solo")})

	result, err := tournament.Advance()
	require.NoError(t, err)

	assert.Equal(t, TournamentComplete, result.Status)
	require.NotNil(t, result.Winner)
	assert.Equal(t, "solo", result.Winner.ID)
	assert.Len(t, result.Winners, 1)
}

func TestAdvance_CompleteTournamentRejectsChanges(t *testing.T) {
	tournament := newTestTournament([]Accommodation{acc("solo")})
	_, err := tournament.Advance()
	require.NoError(t, err)

	_, err = tournament.Advance()
	assert.ErrorIs(t, err, ErrValidation)

	_, err = tournament.Vote("R1M1", Accommodation1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdvance_ByeKeepsUnspentBonus(t *testing.T) {
	tournament := newTestTournament(identicalPicks())
	bye := *tournament.Bracket.Rounds[0][0].Accommodation
	match := firstMatchup(t, tournament.Bracket.Rounds[0])

	_, err := tournament.Vote(match.ID, Accommodation1)
	require.NoError(t, err)

	result, err := tournament.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, result.CurrentRound)
	assert.Equal(t, TournamentActive, result.Status)
	require.Len(t, result.Winners, 2)
	assert.Equal(t, bye.ID, result.Winners[0].ID)

	require.Len(t, tournament.Bracket.Rounds, 2)
	final := tournament.Bracket.Rounds[1]
	require.Len(t, final, 1)
	assert.Equal(t, "R2M1", final[0].ID)
	assert.Equal(t, 2, final[0].Round)
	assert.Equal(t, 3, final[0].Matchup.Accommodation1.SubmissionCount)
	assert.Equal(t, 0, final[0].Matchup.Accommodation2.SubmissionCount)

	// Round 1 ids are no longer votable
	_, err = tournament.Vote(match.ID, Accommodation1)
	assert.ErrorIs(t, err, ErrNotFound)

	matchup, err := tournament.Vote("R2M1", Accommodation1)
	require.NoError(t, err)
	assert.Equal(t, 4, matchup.Votes1)
}

func TestAdvance_PlayThroughKeepsRoundShape(t *testing.T) {
	picks := []Accommodation{
		acc("a"), acc("b"), acc("c"),
		acc("a"), acc("d"), acc("e"),
		acc("f"), acc("g"), acc("b"),
		acc("h"), acc("i"), acc("j"),
	}
	tournament := newTestTournament(picks)
	require.Len(t, tournament.Bracket.Rounds[0], 5)

	for rounds := 0; tournament.Status == TournamentActive; rounds++ {
		require.Less(t, rounds, 10, "tournament did not finish")

		current := tournament.Bracket.Rounds[tournament.CurrentRound-1]
		for _, m := range current {
			if !m.IsBye() {
				_, err := tournament.Vote(m.ID, Accommodation2)
				require.NoError(t, err)
			}
		}
		_, err := tournament.Advance()
		require.NoError(t, err)
	}

	rounds := tournament.Bracket.Rounds
	assert.Len(t, rounds, tournament.Bracket.TotalRounds)
	for n := 1; n < len(rounds); n++ {
		assert.Equal(t, (len(rounds[n-1])+1)/2, len(rounds[n]), "round %d", n+1)
	}
	assert.Len(t, rounds[len(rounds)-1], 1)
	assert.NotNil(t, tournament.Winner)
}

func TestMatchupDecide(t *testing.T) {
	testCases := []struct {
		name     string
		matchup  Matchup
		expected Side
	}{
		{
			name:     "more votes wins",
			matchup:  Matchup{Votes1: 2, Votes2: 5},
			expected: Accommodation2,
		},
		{
			name: "tie falls back to remaining bonus",
			matchup: Matchup{
				Accommodation1: Competitor{SubmissionCount: 2, Seed: 2},
				Accommodation2: Competitor{Seed: 3},
				Votes1:         1,
				Votes2:         1,
			},
			expected: Accommodation1,
		},
		{
			name: "tie falls back to seed",
			matchup: Matchup{
				Accommodation1: Competitor{Seed: 1},
				Accommodation2: Competitor{Seed: 3},
				Votes1:         4,
				Votes2:         4,
			},
			expected: Accommodation2,
		},
		{
			name: "full tie goes to first slot",
			matchup: Matchup{
				Accommodation1: Competitor{Seed: 2},
				Accommodation2: Competitor{Seed: 2},
				Votes1:         3,
				Votes2:         3,
			},
			expected: Accommodation1,
		},
		{
			name:     "existing winner is kept",
			matchup:  Matchup{Votes1: 9, Votes2: 1, Winner: utils.Ptr(Accommodation2)},
			expected: Accommodation2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.matchup
			assert.Equal(t, tc.expected, m.Decide())
			require.NotNil(t, m.Winner)
			assert.Equal(t, tc.expected, *m.Winner)
		})
	}
}

// With five competitors the advancing list is odd twice. The bye competitor leads the
// advancing list, so the top seed takes the bye in round 2 as well and first plays in the
// final.
func TestAdvance_TopSeedKeepsByeWhileListIsOdd(t *testing.T) {
	tournament := newTestTournament([]Accommodation{acc("top"), acc("top"), acc("b"), acc("c"), acc("d"), acc("e")})
	round := tournament.Bracket.Rounds[0]
	require.Len(t, round, 3)
	require.True(t, round[0].IsBye())
	assert.Equal(t, "top", round[0].Accommodation.ID)

	for _, id := range []string{"R1M2", "R1M3"} {
		_, err := tournament.Vote(id, Accommodation1)
		require.NoError(t, err)
	}
	result, err := tournament.Advance()
	require.NoError(t, err)
	require.Len(t, result.Winners, 3)
	assert.Equal(t, "top", result.Winners[0].ID)

	second := tournament.Bracket.Rounds[1]
	require.Len(t, second, 2)
	require.True(t, second[0].IsBye())
	assert.Equal(t, "R2M1", second[0].ID)
	assert.Equal(t, "top", second[0].Accommodation.ID)
	assert.Equal(t, 2, second[0].Accommodation.SubmissionCount, "a second bye still spends no bonus")

	_, err = tournament.Vote("R2M2", Accommodation2)
	require.NoError(t, err)
	_, err = tournament.Advance()
	require.NoError(t, err)

	final := tournament.Bracket.Rounds[2]
	require.Len(t, final, 1)
	require.False(t, final[0].IsBye())
	assert.Equal(t, "top", final[0].Matchup.Accommodation1.ID)
}
