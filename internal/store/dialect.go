package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var validSchema = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type dialect struct {
	driver      string
	schema      string
	placeholder sq.PlaceholderFormat
	idType      string
	floatType   string
}

func newDialect(driver, schema string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres, "postgres", "postgresql":
		clean, err := sanitizeSchema(schema)
		if err != nil {
			return dialect{}, err
		}
		return dialect{
			driver:      DriverPostgres,
			schema:      clean,
			placeholder: sq.Dollar,
			idType:      "uuid",
			floatType:   "double precision",
		}, nil
	case DriverSQLite, "sqlite3":
		return dialect{
			driver:      DriverSQLite,
			placeholder: sq.Question,
			idType:      "text",
			floatType:   "real",
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported db driver: %q (want %s or %s)", driver, DriverPostgres, DriverSQLite)
	}
}

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	if !validSchema.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

func (d dialect) table(name string) string {
	if d.schema == "" {
		return name
	}
	return d.schema + "." + name
}

func (d dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.placeholder)
}

func (d dialect) schemaStatements() []string {
	var stmts []string
	if d.schema != "" {
		stmts = append(stmts, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, d.schema))
	}
	stmts = append(stmts,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id %s PRIMARY KEY,
			run_tag text,
			source text,
			earlier_year integer NOT NULL,
			later_year integer NOT NULL,
			line_count integer NOT NULL,
			qualifying_count integer NOT NULL,
			skipped_count integer NOT NULL,
			region_count integer NOT NULL,
			duplicate_count integer NOT NULL,
			created_unix_ns bigint NOT NULL
		)`, d.table("growth_runs"), d.idType),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id %s PRIMARY KEY,
			run_id %s NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			position integer NOT NULL,
			region text NOT NULL,
			population_a bigint,
			population_b bigint,
			ratio %s,
			ratio_text text NOT NULL
		)`, d.table("growth_rankings"), d.idType, d.idType, d.table("growth_runs"), d.floatType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (run_id, position)`, d.indexName("growth_rankings_run_idx"), d.table("growth_rankings")),
	)
	return stmts
}

func (d dialect) indexName(name string) string {
	if d.schema == "" {
		return name
	}
	return d.schema + "_" + name
}
