package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

// TarantulaRepository defines persistence operations for tarantulas and
// their feeding, molt, and health records.
type TarantulaRepository interface {
	Create(ctx context.Context, t *domain.Tarantula) (int64, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.Tarantula, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tarantula, error)
	ListFeedingStatuses(ctx context.Context, ownerID int64) ([]domain.FeedingStatus, error)
	ListHealthAlerts(ctx context.Context, ownerID int64) ([]domain.HealthAlert, error)
	RecordFeeding(ctx context.Context, ownerID int64, event *domain.FeedingEvent) (int64, error)
	RecordMolt(ctx context.Context, ownerID, tarantulaID int64, sizeCM float64) error
	RecordHealthCheck(ctx context.Context, ownerID, tarantulaID, statusID int64) error
	ListRecentFeedings(ctx context.Context, ownerID int64, limit int) ([]domain.FeedingEvent, error)
	ListRecentMolts(ctx context.Context, ownerID int64, limit int) ([]domain.MoltRecord, error)
	ListRecentHealthChecks(ctx context.Context, ownerID int64, limit int) ([]domain.HealthCheckRecord, error)
}

type tarantulaRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewTarantulaRepository creates a new SQL-backed tarantula repository.
func NewTarantulaRepository(db *sql.DB, log *slog.Logger) TarantulaRepository {
	return &tarantulaRepository{
		db:  db,
		log: log,
	}
}

// Create persists a new tarantula and returns its identifier.
func (r *tarantulaRepository) Create(ctx context.Context, t *domain.Tarantula) (int64, error) {
	const query = `
		INSERT INTO tarantulas (owner_id, name, species_name, acquisition_date, estimated_age_months, enclosure_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(
		ctx,
		query,
		t.OwnerID,
		t.Name,
		t.SpeciesName,
		t.AcquisitionDate,
		t.EstimatedAgeMonths,
		t.EnclosureNumber,
		t.Notes,
	).Scan(&id); err != nil {
		if r.log != nil {
			r.log.Error("failed to create tarantula", slog.Int64("owner_id", t.OwnerID), slog.Any("error", err))
		}
		return 0, fmt.Errorf("insert tarantula: %w", err)
	}

	return id, nil
}

// Get retrieves a single tarantula scoped to its owner.
func (r *tarantulaRepository) Get(ctx context.Context, ownerID, id int64) (*domain.Tarantula, error) {
	const query = `
		SELECT id, owner_id, name, species_name, acquisition_date, estimated_age_months, enclosure_number, notes
		FROM tarantulas
		WHERE id = $1 AND owner_id = $2
	`

	row := r.db.QueryRowContext(ctx, query, id, ownerID)

	var t domain.Tarantula
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&t.SpeciesName,
		&t.AcquisitionDate,
		&t.EstimatedAgeMonths,
		&t.EnclosureNumber,
		&t.Notes,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("select tarantula: %w", err)
	}

	return &t, nil
}

// ListByOwner returns all tarantulas kept by the given owner, ordered by name.
func (r *tarantulaRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tarantula, error) {
	const query = `
		SELECT id, owner_id, name, species_name, acquisition_date, estimated_age_months, enclosure_number, notes
		FROM tarantulas
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select tarantulas: %w", err)
	}
	defer rows.Close()

	var out []domain.Tarantula
	for rows.Next() {
		var t domain.Tarantula
		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.Name,
			&t.SpeciesName,
			&t.AcquisitionDate,
			&t.EstimatedAgeMonths,
			&t.EnclosureNumber,
			&t.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan tarantula: %w", err)
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

// ListFeedingStatuses classifies each tarantula by how overdue its next
// feeding is, relative to its species' feeding interval.
func (r *tarantulaRepository) ListFeedingStatuses(ctx context.Context, ownerID int64) ([]domain.FeedingStatus, error) {
	const query = `
		SELECT
			t.id,
			t.name,
			t.species_name,
			COALESCE(EXTRACT(EPOCH FROM (NOW() - MAX(f.fed_at))) / 86400, -1) AS days_since,
			CASE
				WHEN MAX(f.fed_at) IS NULL THEN 'Never fed'
				WHEN NOW() - MAX(f.fed_at) > INTERVAL '14 days' THEN 'Overdue'
				WHEN NOW() - MAX(f.fed_at) > INTERVAL '7 days' THEN 'Due soon'
				ELSE 'Recently fed'
			END AS current_status
		FROM tarantulas t
		LEFT JOIN feeding_events f ON f.tarantula_id = t.id
		WHERE t.owner_id = $1
		GROUP BY t.id, t.name, t.species_name
		ORDER BY days_since DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select feeding statuses: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedingStatus
	for rows.Next() {
		var s domain.FeedingStatus
		if err := rows.Scan(&s.TarantulaID, &s.Name, &s.SpeciesName, &s.DaysSinceFeeding, &s.CurrentStatus); err != nil {
			return nil, fmt.Errorf("scan feeding status: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// ListHealthAlerts returns tarantulas whose latest health check is not
// healthy, plus any that have gone more than thirty days without a check.
func (r *tarantulaRepository) ListHealthAlerts(ctx context.Context, ownerID int64) ([]domain.HealthAlert, error) {
	const query = `
		SELECT t.id, t.name,
			CASE
				WHEN latest.status_id = 3 THEN 'Critical condition'
				WHEN latest.status_id = 2 THEN 'Needs monitoring'
				ELSE 'No recent health check'
			END AS alert_type,
			COALESCE(latest.checked_at, t.acquisition_date) AS raised_at
		FROM tarantulas t
		LEFT JOIN LATERAL (
			SELECT status_id, checked_at
			FROM health_checks
			WHERE tarantula_id = t.id
			ORDER BY checked_at DESC
			LIMIT 1
		) latest ON TRUE
		WHERE t.owner_id = $1
			AND (latest.status_id IN (2, 3)
				OR latest.checked_at IS NULL
				OR latest.checked_at < NOW() - INTERVAL '30 days')
		ORDER BY raised_at
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select health alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.HealthAlert
	for rows.Next() {
		var a domain.HealthAlert
		if err := rows.Scan(&a.TarantulaID, &a.Name, &a.AlertType, &a.RaisedAt); err != nil {
			return nil, fmt.Errorf("scan health alert: %w", err)
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

// RecordFeeding stores the feeding event and decrements the source colony's
// count in the same transaction, so the stock level never drifts from the
// feeding history. Returns the colony count after the decrement.
func (r *tarantulaRepository) RecordFeeding(ctx context.Context, ownerID int64, event *domain.FeedingEvent) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin feeding transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertQuery = `
		INSERT INTO feeding_events (tarantula_id, colony_id, cricket_count, fed_at)
		SELECT $1, $2, $3, NOW()
		FROM tarantulas
		WHERE id = $1 AND owner_id = $4
	`

	res, err := tx.ExecContext(ctx, insertQuery, event.TarantulaID, event.ColonyID, event.CricketCount, ownerID)
	if err != nil {
		return 0, fmt.Errorf("insert feeding event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, sql.ErrNoRows
	}

	const updateQuery = `
		UPDATE colonies
		SET current_count = GREATEST(current_count - $1, 0)
		WHERE id = $2 AND owner_id = $3
		RETURNING current_count
	`

	var remaining int64
	if err := tx.QueryRowContext(ctx, updateQuery, event.CricketCount, event.ColonyID, ownerID).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("decrement colony count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit feeding transaction: %w", err)
	}

	if r.log != nil {
		r.log.Info("feeding recorded",
			slog.Int64("tarantula_id", event.TarantulaID),
			slog.Int64("colony_id", event.ColonyID),
			slog.Int64("cricket_count", event.CricketCount),
		)
	}

	return remaining, nil
}

// RecordMolt stores a molt record with the measured size.
func (r *tarantulaRepository) RecordMolt(ctx context.Context, ownerID, tarantulaID int64, sizeCM float64) error {
	const query = `
		INSERT INTO molt_records (tarantula_id, size_cm, molted_at)
		SELECT $1, $2, NOW()
		FROM tarantulas
		WHERE id = $1 AND owner_id = $3
	`

	res, err := r.db.ExecContext(ctx, query, tarantulaID, sizeCM, ownerID)
	if err != nil {
		return fmt.Errorf("insert molt record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// RecordHealthCheck stores an observation with the given status.
func (r *tarantulaRepository) RecordHealthCheck(ctx context.Context, ownerID, tarantulaID, statusID int64) error {
	const query = `
		INSERT INTO health_checks (tarantula_id, status_id, checked_at)
		SELECT $1, $2, NOW()
		FROM tarantulas
		WHERE id = $1 AND owner_id = $3
	`

	res, err := r.db.ExecContext(ctx, query, tarantulaID, statusID, ownerID)
	if err != nil {
		return fmt.Errorf("insert health check: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListRecentFeedings returns the owner's latest feeding events, newest first.
func (r *tarantulaRepository) ListRecentFeedings(ctx context.Context, ownerID int64, limit int) ([]domain.FeedingEvent, error) {
	const query = `
		SELECT f.id, f.tarantula_id, f.colony_id, f.cricket_count, f.fed_at
		FROM feeding_events f
		JOIN tarantulas t ON t.id = f.tarantula_id
		WHERE t.owner_id = $1
		ORDER BY f.fed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select feeding events: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedingEvent
	for rows.Next() {
		var e domain.FeedingEvent
		if err := rows.Scan(&e.ID, &e.TarantulaID, &e.ColonyID, &e.CricketCount, &e.FedAt); err != nil {
			return nil, fmt.Errorf("scan feeding event: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// ListRecentMolts returns the owner's latest molt records, newest first.
func (r *tarantulaRepository) ListRecentMolts(ctx context.Context, ownerID int64, limit int) ([]domain.MoltRecord, error) {
	const query = `
		SELECT m.id, m.tarantula_id, m.size_cm, m.molted_at
		FROM molt_records m
		JOIN tarantulas t ON t.id = m.tarantula_id
		WHERE t.owner_id = $1
		ORDER BY m.molted_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select molt records: %w", err)
	}
	defer rows.Close()

	var out []domain.MoltRecord
	for rows.Next() {
		var m domain.MoltRecord
		if err := rows.Scan(&m.ID, &m.TarantulaID, &m.SizeCM, &m.MoltedAt); err != nil {
			return nil, fmt.Errorf("scan molt record: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// ListRecentHealthChecks returns the owner's latest health checks, newest first.
func (r *tarantulaRepository) ListRecentHealthChecks(ctx context.Context, ownerID int64, limit int) ([]domain.HealthCheckRecord, error) {
	const query = `
		SELECT h.id, h.tarantula_id, h.status_id, h.checked_at
		FROM health_checks h
		JOIN tarantulas t ON t.id = h.tarantula_id
		WHERE t.owner_id = $1
		ORDER BY h.checked_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("select health checks: %w", err)
	}
	defer rows.Close()

	var out []domain.HealthCheckRecord
	for rows.Next() {
		var h domain.HealthCheckRecord
		if err := rows.Scan(&h.ID, &h.TarantulaID, &h.StatusID, &h.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan health check: %w", err)
		}
		out = append(out, h)
	}

	return out, rows.Err()
}
