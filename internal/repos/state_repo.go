package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// StateRepo stores session state in the local_state table.
type StateRepo struct{ db *sqlx.DB }

func NewStateRepo(db *sqlx.DB) *StateRepo { return &StateRepo{db: db} }

func (r *StateRepo) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var v []byte
	err := r.db.GetContext(ctx, &v, `SELECT value FROM local_state WHERE session_id = ? AND key = ?`, sessionID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *StateRepo) Set(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_state(session_id, key, value, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`, sessionID, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *StateRepo) Delete(ctx context.Context, sessionID, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM local_state WHERE session_id = ? AND key = ?`, sessionID, key)
	return err
}

