package bracket

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrIncompleteRound = errors.New("round is not complete")
)

// IncompleteRoundError is returned by Advance while matchups in the current round have no
// votes.
type IncompleteRoundError struct {
	Round   int
	Pending int
}

func (e *IncompleteRoundError) Error() string {
	return fmt.Sprintf("not all matches in round %d are complete: %d pending", e.Round, e.Pending)
}

func (e *IncompleteRoundError) Is(target error) bool {
	return target == ErrIncompleteRound
}
