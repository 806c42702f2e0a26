package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot represents one stored net-worth summary.
type Snapshot struct {
	ID           int             `json:"id"`
	OwnerID      int             `json:"ownerId"`
	SnapshotDate time.Time       `json:"snapshotDate"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for net-worth snapshots, keyed by the
// owner key ("character:123" / "corporation:456").
type Repository interface {
	Save(ctx context.Context, ownerID int, date time.Time, data json.RawMessage) error
	GetLatest(ctx context.Context, ownerKey string) (*Snapshot, error)
	GetByDate(ctx context.Context, ownerKey string, date time.Time) (*Snapshot, error)
	GetNearestBefore(ctx context.Context, ownerKey string, date time.Time) (*Snapshot, error)
	List(ctx context.Context, ownerKey string, limit int) ([]Snapshot, error)
	GetOwnerID(ctx context.Context, ownerKey string) (int, error)
	EnsureOwner(ctx context.Context, ownerKey, name string) (int, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, ownerID int, date time.Time, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO networth_snapshots (owner_id, snapshot_date, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (owner_id, snapshot_date)
		 DO UPDATE SET data = $3::jsonb`,
		ownerID, date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, ownerKey string) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx,
		`SELECT ns.id, ns.owner_id, ns.snapshot_date, ns.data, ns.created_at
		 FROM networth_snapshots ns
		 JOIN tracked_owners o ON o.id = ns.owner_id
		 WHERE o.owner_key = $1
		 ORDER BY ns.snapshot_date DESC
		 LIMIT 1`, ownerKey).Scan(&s.ID, &s.OwnerID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) GetByDate(ctx context.Context, ownerKey string, date time.Time) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx,
		`SELECT ns.id, ns.owner_id, ns.snapshot_date, ns.data, ns.created_at
		 FROM networth_snapshots ns
		 JOIN tracked_owners o ON o.id = ns.owner_id
		 WHERE o.owner_key = $1 AND ns.snapshot_date = $2`, ownerKey, date).Scan(&s.ID, &s.OwnerID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting snapshot by date: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) GetNearestBefore(ctx context.Context, ownerKey string, date time.Time) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx,
		`SELECT ns.id, ns.owner_id, ns.snapshot_date, ns.data, ns.created_at
		 FROM networth_snapshots ns
		 JOIN tracked_owners o ON o.id = ns.owner_id
		 WHERE o.owner_key = $1 AND ns.snapshot_date <= $2
		 ORDER BY ns.snapshot_date DESC
		 LIMIT 1`, ownerKey, date).Scan(&s.ID, &s.OwnerID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting nearest snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) List(ctx context.Context, ownerKey string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ns.id, ns.owner_id, ns.snapshot_date, ns.data, ns.created_at
		 FROM networth_snapshots ns
		 JOIN tracked_owners o ON o.id = ns.owner_id
		 WHERE o.owner_key = $1
		 ORDER BY ns.snapshot_date DESC
		 LIMIT $2`, ownerKey, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.SnapshotDate, &s.Data, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *PgRepository) GetOwnerID(ctx context.Context, ownerKey string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM tracked_owners WHERE owner_key = $1`, ownerKey).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("getting owner ID for %s: %w", ownerKey, err)
	}
	return id, nil
}

func (r *PgRepository) EnsureOwner(ctx context.Context, ownerKey, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tracked_owners (owner_key, name)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_key) DO UPDATE SET name = $2
		 RETURNING id`,
		ownerKey, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring owner %s: %w", ownerKey, err)
	}
	return id, nil
}
