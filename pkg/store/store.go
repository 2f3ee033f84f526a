// Package store persists conversations, branches, messages, and bug reports
// in Postgres. Access scoping follows the schema's row-level policies: a
// user sees their own conversations plus ownerless shared ones, and every
// owner-scoped query repeats that predicate in SQL so it holds even on
// connections without the session setting.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	nanoid "github.com/matoous/go-nanoid/v2"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

type txKey struct{}

// WithTx runs fn inside a transaction carried through the context. Nested
// calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	ctx = context.WithValue(ctx, txKey{}, tx)

	if err := fn(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func txFromContext(ctx context.Context) querier {
	q, _ := ctx.Value(txKey{}).(querier)
	return q
}

func (s *Store) conn(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// wrapNotFound converts pgx.ErrNoRows into ErrNotFound, wrapping anything
// else with the operation name.
func wrapNotFound(operation string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", operation, err)
}

const idLength = 21

// ID prefixes per entity.
const (
	prefixUser         = "usr"
	prefixConversation = "conv"
	prefixBranch       = "br"
	prefixMessage      = "msg"
	prefixBug          = "bug"
)

func newID(prefix string) string {
	id, err := nanoid.New(idLength)
	if err != nil {
		panic("nanoid generation failed: " + err.Error())
	}
	return prefix + "_" + id
}

func NewUserID() string         { return newID(prefixUser) }
func NewConversationID() string { return newID(prefixConversation) }
func NewBranchID() string       { return newID(prefixBranch) }
func NewMessageID() string      { return newID(prefixMessage) }
func NewBugID() string          { return newID(prefixBug) }
