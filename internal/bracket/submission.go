package bracket

import (
	"fmt"
	"time"
)

const PicksPerSubmission = 3

type Submission struct {
	ID             string          `json:"id"`
	Destination    string          `json:"destination"`
	GroupSize      int             `json:"groupSize"`
	Accommodations []Accommodation `json:"accommodations"`
	SubmittedAt    time.Time       `json:"submittedAt"`
	UserID         string          `json:"userId"`
}

func (s *Submission) Validate() error {
	if s.Destination == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if s.GroupSize < 1 {
		return fmt.Errorf("%w: groupSize must be at least 1", ErrValidation)
	}
	if len(s.Accommodations) != PicksPerSubmission {
		return fmt.Errorf("%w: exactly %d accommodations are required, got %d", ErrValidation, PicksPerSubmission, len(s.Accommodations))
	}

	seen := make(map[string]bool, len(s.Accommodations))
	for _, acc := range s.Accommodations {
		if acc.ID == "" {
			return fmt.Errorf("%w: every accommodation needs an id", ErrValidation)
		}
		if seen[acc.ID] {
			return fmt.Errorf("%w: accommodation %s was picked twice", ErrValidation, acc.ID)
		}
		seen[acc.ID] = true
	}
	return nil
}

// Picks flattens the accommodations of every submission for destination.
func Picks(submissions []Submission, destination string) []Accommodation {
	var picks []Accommodation
	for _, s := range submissions {
		if s.Destination == destination {
			picks = append(picks, s.Accommodations...)
		}
	}
	return picks
}
