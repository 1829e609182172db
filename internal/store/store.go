// Package store persists finished ranking runs to Postgres or SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"prefecture-growth/internal/growth"
)

var ErrNoRuns = errors.New("no stored runs")

type Config struct {
	Driver string
	DSN    string
	Schema string
}

type Store struct {
	db      *sql.DB
	dialect dialect
}

// Run is one finished report together with the settings that produced it.
type Run struct {
	Tag       string
	Source    string
	Options   growth.Options
	Report    *growth.Report
	CreatedAt time.Time
}

type RunSummary struct {
	ID          uuid.UUID
	Tag         string
	Source      string
	EarlierYear int64
	LaterYear   int64
	Regions     int
	CreatedAt   time.Time
}

type StoredRanking struct {
	Position    int
	Region      string
	PopulationA growth.Count
	PopulationB growth.Count
	Ratio       sql.NullFloat64
	RatioText   string
}

func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := newDialect(cfg.Driver, cfg.Schema)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open(d.driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveRun writes the run and all of its ranking entries in one transaction
// and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, run Run) (runID uuid.UUID, err error) {
	if run.Report == nil {
		return uuid.Nil, errors.New("run has no report")
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	runID = uuid.New()
	stats := run.Report.Stats
	query, args, err := s.dialect.builder().
		Insert(s.dialect.table("growth_runs")).
		Columns(
			"id", "run_tag", "source", "earlier_year", "later_year",
			"line_count", "qualifying_count", "skipped_count", "region_count",
			"duplicate_count", "created_unix_ns",
		).
		Values(
			runID, nullString(run.Tag), nullString(run.Source), run.Options.EarlierYear, run.Options.LaterYear,
			stats.Lines, stats.Qualifying, stats.Skipped, stats.Regions,
			len(run.Report.Duplicates), createdAt.UnixNano(),
		).
		ToSql()
	if err != nil {
		return uuid.Nil, err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, entry := range run.Report.Entries {
		item := entry.Record
		ratio, _ := item.Ratio.Value()
		query, args, err = s.dialect.builder().
			Insert(s.dialect.table("growth_rankings")).
			Columns("id", "run_id", "position", "region", "population_a", "population_b", "ratio", "ratio_text").
			Values(
				uuid.New(), runID, entry.Position, item.Region,
				nullCount(item.PopulationA), nullCount(item.PopulationB),
				nullFloat(ratio), item.Ratio.String(),
			).
			ToSql()
		if err != nil {
			return uuid.Nil, err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return uuid.Nil, fmt.Errorf("insert ranking %q: %w", item.Region, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return runID, nil
}

func (s *Store) LatestRun(ctx context.Context) (RunSummary, error) {
	query, args, err := s.dialect.builder().
		Select("id", "run_tag", "source", "earlier_year", "later_year", "region_count", "created_unix_ns").
		From(s.dialect.table("growth_runs")).
		OrderBy("created_unix_ns DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return RunSummary{}, err
	}

	var (
		summary RunSummary
		tag     sql.NullString
		source  sql.NullString
		created int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&summary.ID, &tag, &source, &summary.EarlierYear, &summary.LaterYear, &summary.Regions, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, ErrNoRuns
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("latest run: %w", err)
	}
	summary.Tag = tag.String
	summary.Source = source.String
	summary.CreatedAt = time.Unix(0, created)
	return summary, nil
}

func (s *Store) Rankings(ctx context.Context, runID uuid.UUID) ([]StoredRanking, error) {
	query, args, err := s.dialect.builder().
		Select("position", "region", "population_a", "population_b", "ratio", "ratio_text").
		From(s.dialect.table("growth_rankings")).
		Where(sq.Eq{"run_id": runID.String()}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rankings: %w", err)
	}
	defer rows.Close()

	var rankings []StoredRanking
	for rows.Next() {
		var (
			item StoredRanking
			a, b sql.NullInt64
		)
		if err := rows.Scan(&item.Position, &item.Region, &a, &b, &item.Ratio, &item.RatioText); err != nil {
			return nil, err
		}
		item.PopulationA = countFromNull(a)
		item.PopulationB = countFromNull(b)
		rankings = append(rankings, item)
	}
	return rankings, rows.Err()
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullCount(value growth.Count) sql.NullInt64 {
	if value.NaN {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.N, Valid: true}
}

func nullFloat(value float64) sql.NullFloat64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: value, Valid: true}
}

func countFromNull(value sql.NullInt64) growth.Count {
	if !value.Valid {
		return growth.Count{NaN: true}
	}
	return growth.CountOf(value.Int64)
}
