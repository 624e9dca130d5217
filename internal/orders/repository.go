// Package orders keeps a local history of orders placed from this machine.
package orders

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

var ErrOrderNotFound = errors.New("order not found")

const DefaultListLimit = 20

type OrderRepository interface {
	Save(ctx context.Context, order domain.OrderConfirmation) error
	Get(ctx context.Context, id string) (*domain.OrderConfirmation, error)
	List(ctx context.Context, username string, limit int) ([]*domain.OrderConfirmation, error)
	Close() error
}

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the sqlite file at dbPath and
// brings its schema up to date.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.runMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) runMigrations() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, order domain.OrderConfirmation) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (id, username, address_id, subtotal, new_balance, items, placed_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		order.OrderID,
		order.Username,
		order.AddressID,
		order.Subtotal,
		order.NewBalance,
		string(itemsJSON),
		order.PlacedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.OrderConfirmation, error) {
	query := `SELECT id, username, address_id, subtotal, new_balance, items, placed_at
	          FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

// List returns the user's most recent orders first. A non-positive limit
// means DefaultListLimit.
func (r *Repository) List(ctx context.Context, username string, limit int) ([]*domain.OrderConfirmation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, username, address_id, subtotal, new_balance, items, placed_at
	          FROM orders WHERE username = ? ORDER BY placed_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders by username: %w", err)
	}
	defer rows.Close()

	var out []*domain.OrderConfirmation
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.OrderConfirmation, error) {
	var (
		order     domain.OrderConfirmation
		itemsJSON string
		placedAt  string
	)
	err := s.Scan(
		&order.OrderID,
		&order.Username,
		&order.AddressID,
		&order.Subtotal,
		&order.NewBalance,
		&itemsJSON,
		&placedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	order.PlacedAt, err = time.Parse(time.RFC3339Nano, placedAt)
	if err != nil {
		return nil, fmt.Errorf("parse placed_at: %w", err)
	}
	return &order, nil
}
