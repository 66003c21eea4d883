package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate row")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// prefixFields qualifies a comma-separated column list with a table alias
// so field constants can be reused in joins.
func prefixFields(alias, fields string) string {
	parts := strings.Split(fields, ",")
	for i, f := range parts {
		parts[i] = alias + "." + strings.TrimSpace(f)
	}
	return strings.Join(parts, ", ")
}

// nextSequence atomically increments and returns the named counter.
// Both product SKUs and order numbers are allocated through it, so
// concurrent writers can never observe the same value.
func nextSequence(ctx context.Context, q querier, name string) (int64, error) {
	var value int64
	err := q.QueryRow(ctx,
		`INSERT INTO counters (name, value) VALUES ($1, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
		name,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %q: %w", name, err)
	}
	return value, nil
}
