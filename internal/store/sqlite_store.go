package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	loadStateQuery = "SELECT document FROM tournament_state WHERE id = 1"
	saveStateQuery = `
		INSERT INTO tournament_state (id, document, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`
)

// SQLiteStore keeps the document as a single row. The schema comes from db.RunMigrations.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	var document string
	err := s.db.GetContext(ctx, &document, loadStateQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load state: %v", ErrStorage, err)
	}
	return decodeState([]byte(document))
}

func (s *SQLiteStore) Save(ctx context.Context, state *State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, saveStateQuery, string(data)); err != nil {
		return fmt.Errorf("%w: failed to save state: %v", ErrStorage, err)
	}
	return nil
}
