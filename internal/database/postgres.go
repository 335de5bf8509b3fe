package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/domain"
)

const uniqueViolation = "23505"

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo stores every order as one JSONB document keyed by its uid.
type Repo struct {
	db db
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{db: pool} }

// Connect opens a pool with query tracing and checks connectivity.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(logger),
		LogLevel: tracelog.LogLevelDebug,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			uid  TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InsertOrder writes a new order. An existing uid is rejected with
// domain.ErrDuplicateOrder; nothing is ever updated in place.
func (r *Repo) InsertOrder(ctx context.Context, o domain.Order) error {
	rec, err := newRecord(o)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO orders (uid, data) VALUES ($1, $2)`, rec.UID(), rec.data)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert order %s: %w", rec.UID(), domain.ErrDuplicateOrder)
		}
		return fmt.Errorf("insert order %s: %w", rec.UID(), err)
	}
	return nil
}

func (r *Repo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT uid, data FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.uid, &rec.data); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o, err := rec.decode()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// record is the persisted form of an order.
type record struct {
	uid  string
	data []byte
}

func newRecord(o domain.Order) (record, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return record{}, fmt.Errorf("encode order %s: %w", o.UID(), err)
	}
	return record{uid: o.UID(), data: data}, nil
}

func (r record) UID() string { return r.uid }

func (r record) decode() (domain.Order, error) {
	var o domain.Order
	if err := json.Unmarshal(r.data, &o); err != nil {
		return domain.Order{}, fmt.Errorf("decode order %s: %w", r.uid, err)
	}
	if o.UID() != r.uid {
		return domain.Order{}, fmt.Errorf("decode order %s: document uid %q does not match key", r.uid, o.UID())
	}
	return o, nil
}
