package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// defaultPageSize caps each page of the full-feed read. The hosted feed
// service enforces a server-side max-rows limit around this size, so a
// single unbounded SELECT is not an option.
const defaultPageSize = 1000

// Pool is the minimal pgx pool surface the catalog uses. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres reads the product feed from a Postgres table.
type Postgres struct {
	pool     Pool
	table    string
	pageSize int
	ownsPool bool
}

var _ Source = (*Postgres)(nil)

// Config configures the Postgres catalog source.
type Config struct {
	URL      string `yaml:"database_url" mapstructure:"database_url"`
	Table    string `yaml:"table" mapstructure:"table"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// NewPostgres connects to the feed database and verifies the connection.
func NewPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "catalog: ping")
	}
	return newPostgres(pool, cfg, true), nil
}

// NewPostgresFromPool creates a catalog source over an existing pool. The
// source does not own the pool; Close is a no-op.
func NewPostgresFromPool(pool Pool, cfg Config) *Postgres {
	return newPostgres(pool, cfg, false)
}

func newPostgres(pool Pool, cfg Config, owns bool) *Postgres {
	table := cfg.Table
	if table == "" {
		table = "product_feed"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Postgres{pool: pool, table: table, pageSize: pageSize, ownsPool: owns}
}

// Close releases the connection pool if this source owns it.
func (p *Postgres) Close() {
	if p.ownsPool {
		p.pool.Close()
	}
}

const productColumns = `product_code, product_name, COALESCE(pinyin_name, ''), COALESCE(category, ''), COALESCE(price, 0), COALESCE(currency, ''), COALESCE(url, ''), COALESCE(thumbnail, '')`

// All pages through the full feed. The server caps result sets, so the read
// walks LIMIT/OFFSET pages until a short page signals the end.
func (p *Postgres) All(ctx context.Context) ([]model.Product, error) {
	sql := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY product_code LIMIT $1 OFFSET $2`,
		productColumns, p.table,
	)

	var all []model.Product
	for offset := 0; ; offset += p.pageSize {
		rows, err := p.pool.Query(ctx, sql, p.pageSize, offset)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: query feed page")
		}

		page, err := scanProducts(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)

		if len(page) < p.pageSize {
			break
		}
	}

	zap.L().Debug("catalog: loaded feed", zap.Int("products", len(all)))
	return all, nil
}

// ByCodes fetches the records for the given product codes.
func (p *Postgres) ByCodes(ctx context.Context, codes []string) ([]model.Product, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	sql := fmt.Sprintf(
		`SELECT %s FROM %s WHERE product_code = ANY($1)`,
		productColumns, p.table,
	)
	rows, err := p.pool.Query(ctx, sql, codes)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: query by codes")
	}

	return scanProducts(rows)
}

// SearchName returns the first record whose name contains fragment,
// optionally restricted to a category.
func (p *Postgres) SearchName(ctx context.Context, fragment, category string) (*model.Product, error) {
	var (
		sql  string
		args []any
	)
	if category != "" {
		sql = fmt.Sprintf(
			`SELECT %s FROM %s WHERE product_name ILIKE $1 AND category = $2 LIMIT 1`,
			productColumns, p.table,
		)
		args = []any{"%" + fragment + "%", category}
	} else {
		sql = fmt.Sprintf(
			`SELECT %s FROM %s WHERE product_name ILIKE $1 LIMIT 1`,
			productColumns, p.table,
		)
		args = []any{"%" + fragment + "%"}
	}

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: search name")
	}

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.Code, &p.Name, &p.PinyinName, &p.Category,
			&p.Price, &p.Currency, &p.URL, &p.Thumbnail,
		)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: rows iteration")
	}
	return products, nil
}
