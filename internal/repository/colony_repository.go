package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

// ColonyRepository defines persistence operations for cricket colonies.
type ColonyRepository interface {
	Create(ctx context.Context, ownerID int64, name, sizeType string, count int64) (int64, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.ColonyStatus, error)
	ListStatuses(ctx context.Context, ownerID int64) ([]domain.ColonyStatus, error)
	AdjustCount(ctx context.Context, ownerID, id, delta int64) (int64, error)
}

type colonyRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewColonyRepository creates a new SQL-backed colony repository.
func NewColonyRepository(db *sql.DB, log *slog.Logger) ColonyRepository {
	return &colonyRepository{
		db:  db,
		log: log,
	}
}

// Create persists a new colony and returns its identifier.
func (r *colonyRepository) Create(ctx context.Context, ownerID int64, name, sizeType string, count int64) (int64, error) {
	const query = `
		INSERT INTO colonies (owner_id, colony_name, size_type, current_count, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, ownerID, name, sizeType, count).Scan(&id); err != nil {
		if r.log != nil {
			r.log.Error("failed to create colony", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("insert colony: %w", err)
	}

	return id, nil
}

// Get retrieves a single colony status scoped to its owner.
func (r *colonyRepository) Get(ctx context.Context, ownerID, id int64) (*domain.ColonyStatus, error) {
	const query = statusSelect + ` AND c.id = $2`

	row := r.db.QueryRowContext(ctx, query, ownerID, id)

	var s domain.ColonyStatus
	if err := scanStatus(row.Scan, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("select colony: %w", err)
	}

	return &s, nil
}

// ListStatuses returns all of the owner's colonies with projected weeks of
// stock remaining, lowest stock first.
func (r *colonyRepository) ListStatuses(ctx context.Context, ownerID int64) ([]domain.ColonyStatus, error) {
	const query = statusSelect + ` ORDER BY weeks_remaining`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select colonies: %w", err)
	}
	defer rows.Close()

	var out []domain.ColonyStatus
	for rows.Next() {
		var s domain.ColonyStatus
		if err := scanStatus(rows.Scan, &s); err != nil {
			return nil, fmt.Errorf("scan colony: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// AdjustCount applies a signed delta to the colony's count, clamping at
// zero, and returns the resulting count.
func (r *colonyRepository) AdjustCount(ctx context.Context, ownerID, id, delta int64) (int64, error) {
	const query = `
		UPDATE colonies
		SET current_count = GREATEST(current_count + $1, 0)
		WHERE id = $2 AND owner_id = $3
		RETURNING current_count
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, delta, id, ownerID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("adjust colony count: %w", err)
	}

	if r.log != nil {
		r.log.Info("colony count adjusted",
			slog.Int64("colony_id", id),
			slog.Int64("delta", delta),
			slog.Int64("count", count),
		)
	}

	return count, nil
}

// statusSelect projects weeks of stock remaining from the colony's average
// weekly consumption over the last month, defaulting to ten crickets a week
// for colonies with no feeding history yet.
const statusSelect = `
	SELECT
		c.id,
		c.owner_id,
		c.colony_name,
		c.size_type,
		c.current_count,
		c.current_count / GREATEST(COALESCE((
			SELECT SUM(f.cricket_count) / 4.0
			FROM feeding_events f
			WHERE f.colony_id = c.id AND f.fed_at > NOW() - INTERVAL '28 days'
		), 10.0), 1.0) AS weeks_remaining
	FROM colonies c
	WHERE c.owner_id = $1
`

func scanStatus(scan func(...any) error, s *domain.ColonyStatus) error {
	return scan(
		&s.ID,
		&s.OwnerID,
		&s.ColonyName,
		&s.SizeType,
		&s.CurrentCount,
		&s.WeeksRemaining,
	)
}
