package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring_back_end_go/models"
)

const uniqueViolation = "23505"

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type txKey struct{}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// conn returns the transaction carried by ctx, or the pool.
func (s *Store) conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithinTx runs fn in a transaction. Store calls made with the ctx passed
// to fn join it; the transaction commits only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// duplicateField maps a unique index violation to the identity field it
// guards. Index names follow <table>_<column>_key.
func duplicateField(err error) (models.IdentityField, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}
	for _, f := range models.IdentityCheckOrder {
		if strings.HasSuffix(pgErr.ConstraintName, "_"+string(f)+"_key") {
			return f, true
		}
	}
	return "", false
}

func encodeSubjects(subjects []string) (string, error) {
	if subjects == nil {
		subjects = []string{}
	}
	raw, err := json.Marshal(subjects)
	if err != nil {
		return "", fmt.Errorf("encode subjects: %w", err)
	}
	return string(raw), nil
}

func decodeSubjects(raw []byte) []string {
	subjects := []string{}
	if len(raw) == 0 {
		return subjects
	}
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return []string{}
	}
	return subjects
}
