package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/arachnolog/broodkeeper/internal/domain"
)

// AlertRepository computes the alert sets the notification scheduler fans
// out, and handles record retention.
type AlertRepository interface {
	ListDueAlerts(ctx context.Context, category domain.AlertCategory) ([]domain.AlertItem, error)
	PurgeRecordsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type alertRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewAlertRepository creates a new SQL-backed alert repository.
func NewAlertRepository(db *sql.DB, log *slog.Logger) AlertRepository {
	return &alertRepository{
		db:  db,
		log: log,
	}
}

// ListDueAlerts returns the current alert set for one category across all
// keepers. The scheduler calls this once per tick and reuses the result for
// every recipient.
func (r *alertRepository) ListDueAlerts(ctx context.Context, category domain.AlertCategory) ([]domain.AlertItem, error) {
	var query string
	switch category {
	case domain.CategoryFeeding:
		query = feedingAlertQuery
	case domain.CategoryHealth:
		query = healthAlertQuery
	case domain.CategoryColony:
		query = colonyAlertQuery
	default:
		return nil, fmt.Errorf("unknown alert category %q", category)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s alerts: %w", category, err)
	}
	defer rows.Close()

	var out []domain.AlertItem
	for rows.Next() {
		var item domain.AlertItem
		if err := rows.Scan(&item.EntityID, &item.Name, &item.Detail, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan %s alert: %w", category, err)
		}
		out = append(out, item)
	}

	return out, rows.Err()
}

// PurgeRecordsOlderThan deletes feeding, molt, and health records older than
// the cutoff and returns how many rows were removed in total.
func (r *alertRepository) PurgeRecordsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	statements := []struct {
		table string
		query string
	}{
		{"feeding_events", `DELETE FROM feeding_events WHERE fed_at < $1`},
		{"molt_records", `DELETE FROM molt_records WHERE molted_at < $1`},
		{"health_checks", `DELETE FROM health_checks WHERE checked_at < $1`},
	}

	var total int64
	for _, st := range statements {
		res, err := r.db.ExecContext(ctx, st.query, cutoff)
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", st.table, err)
		}

		n, _ := res.RowsAffected()
		total += n

		if r.log != nil && n > 0 {
			r.log.Info("old records purged", slog.String("table", st.table), slog.Int64("rows", n))
		}
	}

	return total, nil
}

const feedingAlertQuery = `
	SELECT
		t.id,
		t.name,
		CASE
			WHEN MAX(f.fed_at) IS NULL THEN 'Never fed'
			WHEN NOW() - MAX(f.fed_at) > INTERVAL '14 days' THEN 'Overdue'
			ELSE 'Due soon'
		END AS detail,
		COALESCE(EXTRACT(EPOCH FROM (NOW() - MAX(f.fed_at))) / 86400, -1) AS quantity
	FROM tarantulas t
	LEFT JOIN feeding_events f ON f.tarantula_id = t.id
	GROUP BY t.id, t.name
	HAVING MAX(f.fed_at) IS NULL OR NOW() - MAX(f.fed_at) > INTERVAL '7 days'
	ORDER BY quantity DESC
`

const healthAlertQuery = `
	SELECT t.id, t.name,
		CASE
			WHEN latest.status_id = 3 THEN 'Critical condition'
			WHEN latest.status_id = 2 THEN 'Needs monitoring'
			ELSE 'No recent health check'
		END AS detail,
		0.0 AS quantity
	FROM tarantulas t
	LEFT JOIN LATERAL (
		SELECT status_id, checked_at
		FROM health_checks
		WHERE tarantula_id = t.id
		ORDER BY checked_at DESC
		LIMIT 1
	) latest ON TRUE
	WHERE latest.status_id IN (2, 3)
		OR latest.checked_at IS NULL
		OR latest.checked_at < NOW() - INTERVAL '30 days'
	ORDER BY t.name
`

const colonyAlertQuery = `
	SELECT
		c.id,
		c.colony_name,
		c.size_type,
		c.current_count / GREATEST(COALESCE((
			SELECT SUM(f.cricket_count) / 4.0
			FROM feeding_events f
			WHERE f.colony_id = c.id AND f.fed_at > NOW() - INTERVAL '28 days'
		), 10.0), 1.0) AS quantity
	FROM colonies c
	WHERE c.current_count / GREATEST(COALESCE((
			SELECT SUM(f.cricket_count) / 4.0
			FROM feeding_events f
			WHERE f.colony_id = c.id AND f.fed_at > NOW() - INTERVAL '28 days'
		), 10.0), 1.0) < 2.0
	ORDER BY quantity
`
