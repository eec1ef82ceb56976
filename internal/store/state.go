package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
)

// State is the whole persisted document. It is always loaded and saved in one piece.
type State struct {
	Submissions        []bracket.Submission `json:"submissions"`
	Tournaments        []bracket.Tournament `json:"tournaments"`
	TournamentSettings []bracket.Settings   `json:"tournamentSettings"`
}

func NewState() *State {
	return &State{
		Submissions:        []bracket.Submission{},
		Tournaments:        []bracket.Tournament{},
		TournamentSettings: []bracket.Settings{},
	}
}

func (s *State) SubmissionsFor(destination string) []bracket.Submission {
	var out []bracket.Submission
	for _, sub := range s.Submissions {
		if sub.Destination == destination {
			out = append(out, sub)
		}
	}
	return out
}

// Tournament returns a pointer into the state so callers can mutate it in place.
func (s *State) Tournament(id string) (*bracket.Tournament, bool) {
	for i := range s.Tournaments {
		if s.Tournaments[i].ID == id {
			return &s.Tournaments[i], true
		}
	}
	return nil, false
}

// ActiveSettings returns the active settings for destination, if any.
func (s *State) ActiveSettings(destination string) (*bracket.Settings, bool) {
	for i := range s.TournamentSettings {
		if s.TournamentSettings[i].Destination == destination && s.TournamentSettings[i].Status == bracket.SettingsActive {
			return &s.TournamentSettings[i], true
		}
	}
	return nil, false
}

func (s *State) normalize() {
	if s.Submissions == nil {
		s.Submissions = []bracket.Submission{}
	}
	if s.Tournaments == nil {
		s.Tournaments = []bracket.Tournament{}
	}
	if s.TournamentSettings == nil {
		s.TournamentSettings = []bracket.Settings{}
	}
}

// decodeState treats an empty or blank document as an empty state.
func decodeState(data []byte) (*State, error) {
	state := NewState()
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("%w: failed to decode state: %v", ErrStorage, err)
	}
	state.normalize()
	return state, nil
}

func encodeState(state *State) ([]byte, error) {
	if state == nil {
		state = NewState()
	}
	state.normalize()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode state: %v", ErrStorage, err)
	}
	return data, nil
}
