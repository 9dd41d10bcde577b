// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// postgresCollection stores records as JSONB rows of the shared documents
// table, one row per record, keyed by (collection, id).
type postgresCollection[T Record] struct {
	name       string
	collection string
	db         *sql.DB
	timeout    time.Duration
}

func newPostgresCollection[T Record](db *sql.DB, collection, name string, timeout time.Duration) *postgresCollection[T] {
	return &postgresCollection[T]{name: name, collection: collection, db: db, timeout: timeout}
}

func (c *postgresCollection[T]) Name() string { return c.name }

func (c *postgresCollection[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT body FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`, c.collection)
	if err != nil {
		return nil, unavailable("list", c.name, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, unavailable("scan", c.name, err)
		}
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, unavailable("decode", c.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", c.name, err)
	}
	return items, nil
}

func (c *postgresCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.findOne(ctx, `SELECT body FROM documents WHERE collection = $1 AND id = $2`, id)
}

func (c *postgresCollection[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	return c.findOne(ctx, `
		SELECT body FROM documents
		WHERE collection = $1 AND slug = $2
		ORDER BY created_at, id
		LIMIT 1
	`, slug)
}

func (c *postgresCollection[T]) findOne(ctx context.Context, query, arg string) (*T, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var body []byte
	err := c.db.QueryRowContext(ctx, query, c.collection, arg).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("find", c.name, err)
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, unavailable("decode", c.name, err)
	}
	return &item, nil
}

func (c *postgresCollection[T]) Insert(ctx context.Context, item T) error {
	body, err := json.Marshal(item)
	if err != nil {
		return unavailable("encode", c.name, err)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, slug, created_at, body)
		VALUES ($1, $2, $3, $4, $5)
	`, c.collection, item.RecordID(), item.RecordSlug(), item.RecordCreatedAt(), body)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return unavailable("insert", c.name, err)
	}
	return nil
}

func (c *postgresCollection[T]) Update(ctx context.Context, item T) error {
	body, err := json.Marshal(item)
	if err != nil {
		return unavailable("encode", c.name, err)
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, `
		UPDATE documents SET slug = $3, body = $4
		WHERE collection = $1 AND id = $2
	`, c.collection, item.RecordID(), item.RecordSlug(), body)
	if err != nil {
		return unavailable("update", c.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("update", c.name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.collection, id)
	if err != nil {
		return unavailable("delete", c.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete", c.name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection[T]) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = $1`, c.collection).Scan(&n)
	if err != nil {
		return 0, unavailable("count", c.name, err)
	}
	return n, nil
}

// Upsert writes all items in one transaction, replacing rows by id.
func (c *postgresCollection[T]) Upsert(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", c.name, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (collection, id, slug, created_at, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE SET
			slug = EXCLUDED.slug,
			created_at = EXCLUDED.created_at,
			body = EXCLUDED.body
	`)
	if err != nil {
		return unavailable("prepare upsert", c.name, err)
	}
	defer stmt.Close()

	for _, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			return unavailable("encode", c.name, err)
		}
		if _, err := stmt.ExecContext(ctx, c.collection, item.RecordID(), item.RecordSlug(), item.RecordCreatedAt(), body); err != nil {
			return unavailable("upsert", c.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", c.name, err)
	}
	return nil
}
