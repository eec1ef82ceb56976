package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/AdamBeresnev/ski-bracket/internal/bracket"
	"github.com/AdamBeresnev/ski-bracket/internal/store"
	"github.com/google/uuid"
)

// StateManager runs every read-modify-write cycle against the store, one at a time within
// this process. Separate processes sharing a store still race, last write wins.
type StateManager struct {
	store store.Store
	mu    sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

type Option func(*StateManager)

// WithRand sets the source used to shuffle competitors with equal submission counts.
func WithRand(rng *rand.Rand) Option {
	return func(m *StateManager) { m.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(m *StateManager) { m.now = now }
}

func NewStateManager(st store.Store, opts ...Option) *StateManager {
	m := &StateManager{
		store: st,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *StateManager) read(ctx context.Context) (*store.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Load(ctx)
}

// update loads the state, hands it to fn and saves it if fn asks for it. Nothing is saved
// when fn fails.
func (m *StateManager) update(ctx context.Context, fn func(state *store.State) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	save, err := fn(state)
	if err != nil || !save {
		return err
	}
	return m.store.Save(ctx, state)
}

// generate builds a tournament from every submission for destination and appends it to
// state. Must be called from inside update.
func (m *StateManager) generate(state *store.State, destination string) (*bracket.Tournament, error) {
	if destination == "" {
		return nil, fmt.Errorf("%w: destination is required", bracket.ErrValidation)
	}

	picks := bracket.Picks(state.Submissions, destination)
	if len(picks) == 0 {
		return nil, fmt.Errorf("%w: no submissions found for %s", bracket.ErrValidation, destination)
	}

	t := bracket.NewTournament(m.newID(), destination, bracket.Generate(picks, m.rng), m.now().UTC())
	state.Tournaments = append(state.Tournaments, t)
	return &state.Tournaments[len(state.Tournaments)-1], nil
}
