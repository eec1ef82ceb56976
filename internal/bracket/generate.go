package bracket

import (
	"math/rand/v2"
	"sort"
)

type BracketStatus string

const (
	BracketReady    BracketStatus = "ready"
	BracketComplete BracketStatus = "complete"
)

// Bracket holds the rounds played so far. Rounds after the current one are built when the
// previous round is advanced, so len(Rounds) only reaches TotalRounds at the final.
type Bracket struct {
	Rounds      []Round       `json:"rounds"`
	TotalRounds int           `json:"totalRounds"`
	Status      BracketStatus `json:"status"`
}

// Collect merges picks that share an id into one competitor per id, in first-seen order.
func Collect(picks []Accommodation) []Competitor {
	index := make(map[string]int, len(picks))
	competitors := make([]Competitor, 0, len(picks))

	for _, acc := range picks {
		if i, ok := index[acc.ID]; ok {
			competitors[i].SubmissionCount++
			competitors[i].Seed++
			continue
		}
		index[acc.ID] = len(competitors)
		competitors = append(competitors, Competitor{Accommodation: acc, SubmissionCount: 1, Seed: 1})
	}

	return competitors
}

// Rank orders competitors by submission count, highest first. Equal counts end up in a
// random order drawn from rng.
func Rank(competitors []Competitor, rng *rand.Rand) []Competitor {
	ranked := make([]Competitor, len(competitors))
	copy(ranked, competitors)

	rng.Shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SubmissionCount > ranked[j].SubmissionCount
	})

	return ranked
}

// countRounds returns how many rounds a bracket with the given number of competitors
// needs. One competitor still takes a round to collect its bye.
func countRounds(competitors int) int {
	if competitors <= 0 {
		return 0
	}

	rounds := 1
	for matches := (competitors + 1) / 2; matches > 1; matches = (matches + 1) / 2 {
		rounds++
	}
	return rounds
}

// Generate builds the first round of a single elimination bracket from every pick made
// for a destination. Callers must not pass an empty slice.
func Generate(picks []Accommodation, rng *rand.Rand) Bracket {
	ranked := Rank(Collect(picks), rng)

	return Bracket{
		Rounds:      []Round{pairRound(1, ranked)},
		TotalRounds: countRounds(len(ranked)),
		Status:      BracketReady,
	}
}
