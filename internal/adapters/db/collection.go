// Package db stores the marketplace documents in PostgreSQL. Each collection
// is a table of JSONB documents keyed by id, with a version column used for
// compare-and-swap on auctions and flash deals.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type collection[T any] struct {
	conn     *Connection
	table    string
	noun     string
	notFound error
}

func newCollection[T any](conn *Connection, table, noun string, notFound error) *collection[T] {
	return &collection[T]{conn: conn, table: table, noun: noun, notFound: notFound}
}

func (c *collection[T]) insert(ctx context.Context, ex execer, id uuid.UUID, version int64, v *T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.noun, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, version, doc) VALUES ($1, $2, $3)`, c.table)
	if _, err := ex.ExecContext(ctx, query, id, version, doc); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s already exists", shared.ErrConflict, c.noun, id)
		}
		return fmt.Errorf("failed to create %s: %w", c.noun, err)
	}
	return nil
}

func (c *collection[T]) upsert(ctx context.Context, id uuid.UUID, v *T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.noun, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, version, doc) VALUES ($1, 1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, version = %s.version + 1
	`, c.table, c.table)
	if _, err := c.conn.GetDB().ExecContext(ctx, query, id, doc); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s collides with an existing record", shared.ErrConflict, c.noun, id)
		}
		return fmt.Errorf("failed to save %s: %w", c.noun, err)
	}
	return nil
}

func (c *collection[T]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, c.table)

	var doc []byte
	if err := c.conn.GetDB().QueryRowContext(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.notFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", c.noun, err)
	}
	return c.decode(doc)
}

// replace overwrites a document regardless of its version
func (c *collection[T]) replace(ctx context.Context, id uuid.UUID, v *T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.noun, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $2, version = version + 1 WHERE id = $1`, c.table)
	return c.expectOne(c.conn.GetDB().ExecContext(ctx, query, id, doc))
}

// swap overwrites a document only while its stored version equals expected.
// v must already carry the next version.
func (c *collection[T]) swap(ctx context.Context, id uuid.UUID, expected int64, v *T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.noun, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc = $3, version = version + 1 WHERE id = $1 AND version = $2`, c.table)
	res, err := c.conn.GetDB().ExecContext(ctx, query, id, expected, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", c.noun, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var stored int64
	query = fmt.Sprintf(`SELECT version FROM %s WHERE id = $1`, c.table)
	if err := c.conn.GetDB().QueryRowContext(ctx, query, id).Scan(&stored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.notFound
		}
		return fmt.Errorf("failed to read %s version: %w", c.noun, err)
	}
	return fmt.Errorf("%w: %s %s is at version %d, not %d", shared.ErrConflict, c.noun, id, stored, expected)
}

func (c *collection[T]) remove(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, c.table)
	return c.expectOne(c.conn.GetDB().ExecContext(ctx, query, id))
}

// find decodes the documents selected by clause, which follows the FROM table part of the query
func (c *collection[T]) find(ctx context.Context, clause string, args ...any) ([]*T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s %s`, c.table, clause)

	rows, err := c.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", c.noun, err)
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c.noun, err)
		}
		v, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", c.noun, err)
	}
	return out, nil
}

// findOne returns the first match of clause, or nil when nothing matches
func (c *collection[T]) findOne(ctx context.Context, clause string, args ...any) (*T, error) {
	found, err := c.find(ctx, clause+" LIMIT 1", args...)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (c *collection[T]) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.conn.GetDB().ExecContext(ctx, fmt.Sprintf(query, c.table), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", c.noun, err)
	}
	return res.RowsAffected()
}

func (c *collection[T]) decode(doc []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(doc, v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.noun, err)
	}
	return v, nil
}

func (c *collection[T]) expectOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", c.noun, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return c.notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
