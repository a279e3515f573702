package rules

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Pool is the minimal pgx pool surface the rules source uses. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres reads and writes the rule table in Postgres. The table keeps the
// spreadsheet's Czech column headers; the quoted identifiers below are the
// real schema.
type Postgres struct {
	pool     Pool
	table    string
	ownsPool bool
}

var _ Source = (*Postgres)(nil)

// Config configures the Postgres rules source.
type Config struct {
	URL   string `yaml:"database_url" mapstructure:"database_url"`
	Table string `yaml:"table" mapstructure:"table"`
}

// NewPostgres connects to the rules database and verifies the connection.
func NewPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "rules: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "rules: ping")
	}
	return newPostgres(pool, cfg, true), nil
}

// NewPostgresFromPool creates a rules source over an existing pool. The
// source does not own the pool; Close is a no-op.
func NewPostgresFromPool(pool Pool, cfg Config) *Postgres {
	return newPostgres(pool, cfg, false)
}

func newPostgres(pool Pool, cfg Config, owns bool) *Postgres {
	table := cfg.Table
	if table == "" {
		table = "leceni"
	}
	return &Postgres{pool: pool, table: table, ownsPool: owns}
}

// Close releases the connection pool if this source owns it.
func (p *Postgres) Close() {
	if p.ownsPool {
		p.pool.Close()
	}
}

const ruleColumns = `"ID", "Problém", COALESCE("EO 1", ''), COALESCE("EO 2", ''), COALESCE("EO 3", ''), COALESCE("Prawtein", ''), COALESCE("TČM wan", ''), COALESCE("Aloe", ''), COALESCE("Merkaba", ''), COALESCE("Poznámka", '')`

// FindByProblems returns rows matching any of the labels, case-insensitively.
// Empty input matches all rows.
func (p *Postgres) FindByProblems(ctx context.Context, problems []string) ([]model.Rule, error) {
	var (
		sql  string
		args []any
	)
	if len(problems) == 0 {
		sql = fmt.Sprintf(`SELECT %s FROM %s`, ruleColumns, p.table)
	} else {
		sql = fmt.Sprintf(
			`SELECT %s FROM %s WHERE EXISTS (SELECT 1 FROM unnest($1::text[]) AS q WHERE UPPER("Problém") = UPPER(q))`,
			ruleColumns, p.table,
		)
		args = []any{problems}
	}

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "rules: query by problems")
	}

	return scanRules(rows)
}

// Problems returns the distinct non-empty problem labels in the table.
func (p *Postgres) Problems(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf(
		`SELECT DISTINCT "Problém" FROM %s WHERE "Problém" IS NOT NULL AND TRIM("Problém") <> '' ORDER BY "Problém"`,
		p.table,
	)
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrap(err, "rules: query problems")
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, eris.Wrap(err, "rules: scan problem")
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "rules: rows iteration")
	}
	return labels, nil
}

// ReplaceAll swaps the table contents for the given rules. Used by the XLSX
// importer, which always carries the complete sheet.
func (p *Postgres) ReplaceAll(ctx context.Context, rules []model.Rule) error {
	if _, err := p.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, p.table)); err != nil {
		return eris.Wrap(err, "rules: clear table")
	}

	insert := fmt.Sprintf(
		`INSERT INTO %s ("ID", "Problém", "EO 1", "EO 2", "EO 3", "Prawtein", "TČM wan", "Aloe", "Merkaba", "Poznámka") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.table,
	)
	for _, r := range rules {
		_, err := p.pool.Exec(ctx, insert,
			r.ID, r.Problem, r.EO1, r.EO2, r.EO3,
			r.Prawtein, r.TCMWan, r.Aloe, r.Merkaba, r.Note,
		)
		if err != nil {
			return eris.Wrapf(err, "rules: insert rule %q", r.Problem)
		}
	}
	return nil
}

func scanRules(rows pgx.Rows) ([]model.Rule, error) {
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var r model.Rule
		err := rows.Scan(
			&r.ID, &r.Problem, &r.EO1, &r.EO2, &r.EO3,
			&r.Prawtein, &r.TCMWan, &r.Aloe, &r.Merkaba, &r.Note,
		)
		if err != nil {
			return nil, eris.Wrap(err, "rules: scan rule")
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "rules: rows iteration")
	}
	return rules, nil
}
