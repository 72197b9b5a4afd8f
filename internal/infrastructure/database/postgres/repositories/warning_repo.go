// Package repositories provides the PostgreSQL-backed implementation of
// the warning domain's Repository interface.
package repositories

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	appErrors "github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

// DB is the subset of pgxpool.Pool the repository uses. Abstracted so
// tests can substitute a mock.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner abstracts pgx.Row and pgx.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

const warningColumns = `id, source, source_country, bureau, title, link, publish_time,
	matched_keywords, coordinates, notified, notified_at,
	scrape_time, created_at, updated_at`

// WarningRepository is the PostgreSQL implementation of
// warning.Repository. Every method takes a context for cancellation and
// uses parameterised queries exclusively.
type WarningRepository struct {
	db     DB
	logger Logger
}

// NewWarningRepository constructs a ready-to-use WarningRepository.
func NewWarningRepository(db DB, logger Logger) *WarningRepository {
	if logger == nil {
		logger = NopLogger{}
	}
	return &WarningRepository{db: db, logger: logger}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save
// ─────────────────────────────────────────────────────────────────────────────

// Save upserts a bulletin on its natural key inside one transaction.
// An existing record is left untouched except that coordinates are
// backfilled when the stored record has none and the incoming one does.
func (r *WarningRepository) Save(ctx context.Context, w *warning.Warning) (*warning.SaveResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var existingID common.ID
	var existingCoords []byte
	err = tx.QueryRow(ctx, `
		SELECT id, coordinates FROM warnings
		WHERE source = $1 AND bureau = $2 AND title = $3 AND publish_time = $4
		FOR UPDATE`,
		string(w.Source), w.Bureau, w.Title, w.PublishTime,
	).Scan(&existingID, &existingCoords)

	switch {
	case err == pgx.ErrNoRows:
		coordsJSON, err := encodeCoordinates(w.Coordinates)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO warnings (`+warningColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			w.ID, string(w.Source), w.Source.Country(), w.Bureau, w.Title, w.Link, w.PublishTime,
			w.MatchedKeywords, coordsJSON, w.Notified, w.NotifiedAt,
			w.ScrapeTime, w.CreatedAt, w.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("WarningRepository.Save: insert", "error", err, "title", w.Title)
			return nil, appErrors.Wrap(err, appErrors.CodeWarningSaveFailed, "failed to insert warning")
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to commit transaction")
		}
		r.logger.Debug("WarningRepository.Save: new warning stored", "warning_id", w.ID, "source", w.Source)
		return &warning.SaveResult{ID: w.ID, IsNew: true}, nil

	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to look up warning")
	}

	result := &warning.SaveResult{ID: existingID}
	if w.HasCoordinates() && coordinatesEmpty(existingCoords) {
		coordsJSON, err := encodeCoordinates(w.Coordinates)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE warnings SET coordinates = $1, updated_at = $2 WHERE id = $3`,
			coordsJSON, time.Now().UTC(), existingID,
		)
		if err != nil {
			r.logger.Error("WarningRepository.Save: backfill", "error", err, "warning_id", existingID)
			return nil, appErrors.Wrap(err, appErrors.CodeWarningSaveFailed, "failed to backfill coordinates")
		}
		result.CoordinatesBackfilled = true
		r.logger.Debug("WarningRepository.Save: coordinates backfilled", "warning_id", existingID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to commit transaction")
	}
	return result, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────────────────

// GetByID loads a single warning.
func (r *WarningRepository) GetByID(ctx context.Context, id common.ID) (*warning.Warning, error) {
	w, err := scanWarning(r.db.QueryRow(ctx, `
		SELECT `+warningColumns+` FROM warnings WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, appErrors.New(appErrors.CodeWarningNotFound, "warning not found: "+id.String())
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load warning")
	}
	return w, nil
}

// List returns a filtered page of warnings, newest first, together with
// the total match count.
func (r *WarningRepository) List(ctx context.Context, filter warning.ListFilter) ([]*warning.Warning, int64, error) {
	where, args := buildListWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM warnings`+where, args...).Scan(&total); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to count warnings")
	}

	query := `SELECT ` + warningColumns + ` FROM warnings` + where + ` ORDER BY created_at DESC`
	if filter.Pagination.PageSize > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to list warnings")
	}
	defer rows.Close()

	warnings, err := collectWarnings(rows)
	if err != nil {
		return nil, 0, err
	}
	return warnings, total, nil
}

// FindUnnotified returns warnings not yet delivered, oldest first so
// notification order follows arrival order. A zero source matches all.
func (r *WarningRepository) FindUnnotified(ctx context.Context, source warning.Source) ([]*warning.Warning, error) {
	query := `SELECT ` + warningColumns + ` FROM warnings WHERE notified = FALSE`
	var args []any
	if source != "" {
		query += ` AND source = $1`
		args = append(args, string(source))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to find unnotified warnings")
	}
	defer rows.Close()
	return collectWarnings(rows)
}

// FindWithCoordinates returns warnings whose extraction produced at
// least one position. A zero source matches all.
func (r *WarningRepository) FindWithCoordinates(ctx context.Context, source warning.Source) ([]*warning.Warning, error) {
	query := `SELECT ` + warningColumns + ` FROM warnings
		WHERE coordinates IS NOT NULL AND jsonb_array_length(coordinates) > 0`
	var args []any
	if source != "" {
		query += ` AND source = $1`
		args = append(args, string(source))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to find warnings with coordinates")
	}
	defer rows.Close()
	return collectWarnings(rows)
}

// MarkNotified records a delivery. Repeated calls keep the first
// notified_at timestamp.
func (r *WarningRepository) MarkNotified(ctx context.Context, id common.ID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE warnings
		SET notified = TRUE,
		    notified_at = COALESCE(notified_at, $1),
		    updated_at = $1
		WHERE id = $2`,
		at.UTC(), id,
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to mark warning notified")
	}
	if tag.RowsAffected() == 0 {
		return appErrors.New(appErrors.CodeWarningNotFound, "warning not found: "+id.String())
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Statistics / retention
// ─────────────────────────────────────────────────────────────────────────────

// Statistics aggregates counts over the whole store.
func (r *WarningRepository) Statistics(ctx context.Context) (*warning.Statistics, error) {
	stats := &warning.Statistics{
		BySource:  make(map[warning.Source]int64),
		ByBureau:  make(map[string]int64),
		ByKeyword: make(map[string]int64),
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE notified),
		       COUNT(*) FILTER (WHERE coordinates IS NOT NULL AND jsonb_array_length(coordinates) > 0),
		       COALESCE(SUM(CASE WHEN coordinates IS NOT NULL THEN jsonb_array_length(coordinates) ELSE 0 END), 0)
		FROM warnings`,
	).Scan(&stats.Total, &stats.Notified, &stats.WithCoordinates, &stats.CoordinatePoints)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load warning totals")
	}
	stats.Unnotified = stats.Total - stats.Notified

	if err := r.countBy(ctx, `SELECT source, COUNT(*) FROM warnings GROUP BY source`, func(key string, n int64) {
		stats.BySource[warning.Source(key)] = n
	}); err != nil {
		return nil, err
	}

	if err := r.countBy(ctx, `SELECT bureau, COUNT(*) FROM warnings GROUP BY bureau`, func(key string, n int64) {
		stats.ByBureau[key] = n
	}); err != nil {
		return nil, err
	}

	if err := r.countBy(ctx, `
		SELECT k, COUNT(*) FROM warnings, unnest(matched_keywords) AS k GROUP BY k`, func(key string, n int64) {
		stats.ByKeyword[key] = n
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *WarningRepository) countBy(ctx context.Context, query string, add func(key string, n int64)) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to load warning breakdown")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan warning breakdown")
		}
		add(key, n)
	}
	return rows.Err()
}

// CleanupOlderThan deletes warnings created before cutoff and reports
// how many rows were removed.
func (r *WarningRepository) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM warnings WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to clean up warnings")
	}
	removed := tag.RowsAffected()
	if removed > 0 {
		r.logger.Info("WarningRepository.CleanupOlderThan", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func scanWarning(row rowScanner) (*warning.Warning, error) {
	var (
		w             warning.Warning
		source        string
		sourceCountry string
		coordsJSON    []byte
	)
	err := row.Scan(
		&w.ID, &source, &sourceCountry, &w.Bureau, &w.Title, &w.Link, &w.PublishTime,
		&w.MatchedKeywords, &coordsJSON, &w.Notified, &w.NotifiedAt,
		&w.ScrapeTime, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Source = warning.Source(source)

	if !coordinatesEmpty(coordsJSON) {
		var points []maritime.GeoPoint
		if err := json.Unmarshal(coordsJSON, &points); err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeSerialization, "failed to decode stored coordinates")
		}
		w.Coordinates = points
	}
	return &w, nil
}

func collectWarnings(rows pgx.Rows) ([]*warning.Warning, error) {
	var warnings []*warning.Warning
	for rows.Next() {
		w, err := scanWarning(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to scan warning")
		}
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeDatabaseError, "failed to read warnings")
	}
	return warnings, nil
}

func encodeCoordinates(points []maritime.GeoPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(points)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSerialization, "failed to encode coordinates")
	}
	return data, nil
}

// coordinatesEmpty treats NULL, "null" and "[]" all as "no coordinates"
// so backfill does not depend on how the empty state was written.
func coordinatesEmpty(raw []byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null" || trimmed == "[]"
}

// buildListWhere translates a ListFilter into a WHERE clause and its
// positional arguments. Zero-valued filter fields add no predicate.
func buildListWhere(filter warning.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func() string { return "$" + strconv.Itoa(len(args)) }

	if filter.Source != "" {
		args = append(args, string(filter.Source))
		conds = append(conds, "source = "+next())
	}
	if filter.Bureau != "" {
		args = append(args, filter.Bureau)
		conds = append(conds, "bureau = "+next())
	}
	if filter.OnlyWithGeo {
		conds = append(conds, "coordinates IS NOT NULL AND jsonb_array_length(coordinates) > 0")
	}
	if filter.OnlyNotified != nil {
		args = append(args, *filter.OnlyNotified)
		conds = append(conds, "notified = "+next())
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since.UTC())
		conds = append(conds, "created_at >= "+next())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
