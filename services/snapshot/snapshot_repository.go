package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Names of the snapshots kept by the portal.
const (
	EquipmentSnapshot = "equipment"
	RequestsSnapshot  = "requests"
	SessionSnapshot   = "session"
)

var ErrNotFound = errors.New("snapshot not found")

type Snapshot struct {
	Name    string    `db:"name"`
	Payload []byte    `db:"payload"`
	SavedAt time.Time `db:"saved_at"`
}

// Repository persists named JSON snapshots. Implementations must return
// ErrNotFound from Load when nothing was saved under the name.
type Repository interface {
	Save(ctx context.Context, name string, payload []byte) error
	Load(ctx context.Context, name string) (Snapshot, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

type SQLRepository struct {
	DB  *sqlx.DB
	now func() time.Time
}

func NewSQLRepository(db *sqlx.DB) Repository {
	return &SQLRepository{DB: db, now: time.Now}
}

func (r *SQLRepository) Save(ctx context.Context, name string, payload []byte) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO snapshots (name, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`),
		name, string(payload), r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %s snapshot: %w", name, err)
	}
	return nil
}

func (r *SQLRepository) Load(ctx context.Context, name string) (Snapshot, error) {
	var row struct {
		Payload string    `db:"payload"`
		SavedAt time.Time `db:"saved_at"`
	}
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(`SELECT payload, saved_at FROM snapshots WHERE name = ?`), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to load %s snapshot: %w", name, err)
	}
	return Snapshot{Name: name, Payload: []byte(row.Payload), SavedAt: row.SavedAt}, nil
}

func (r *SQLRepository) Delete(ctx context.Context, name string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM snapshots WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("failed to delete %s snapshot: %w", name, err)
	}
	return nil
}

func (r *SQLRepository) Close() error {
	return r.DB.Close()
}
