package database

import (
	"context"

	"gorm.io/gorm"
)

// Session is one scoped unit of work: a transaction pinned to a single pooled
// connection. Nothing is persisted until Commit. Close releases the
// connection and discards uncommitted work.
type Session struct {
	tx       *gorm.DB
	finished bool
}

// OpenSession acquires a connection from the pool and begins a session on it.
// Driver errors are returned as-is.
func OpenSession(ctx context.Context, db Database) (*Session, error) {
	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Session{tx: tx}, nil
}

// DB returns the GORM handle for executing statements inside the session.
func (s *Session) DB() *gorm.DB {
	return s.tx
}

// Finished reports whether the session has been committed or released.
func (s *Session) Finished() bool {
	return s.finished
}

// Commit persists the session's work and releases its connection.
// Committing a finished session is a no-op.
func (s *Session) Commit() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.tx.Commit().Error
}

// Rollback discards the session's work and releases its connection.
// Rolling back a finished session is a no-op.
func (s *Session) Rollback() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.tx.Rollback().Error
}

// Close releases the session, rolling back anything not yet committed.
// It is safe to call more than once and after Commit.
func (s *Session) Close() error {
	return s.Rollback()
}

// WithSession runs fn inside a fresh session. The session is committed when fn
// returns nil and rolled back when fn returns an error or panics; in every case
// its connection goes back to the pool. fn's error is returned unmodified.
func WithSession(ctx context.Context, db Database, fn func(s *Session) error) error {
	s, err := OpenSession(ctx, db)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := fn(s); err != nil {
		return err
	}
	return s.Commit()
}

// WithSessionResult is WithSession for functions that produce a value.
func WithSessionResult[T any](ctx context.Context, db Database, fn func(s *Session) (T, error)) (T, error) {
	var result T

	s, err := OpenSession(ctx, db)
	if err != nil {
		return result, err
	}
	defer func() { _ = s.Close() }()

	result, err = fn(s)
	if err != nil {
		return result, err
	}
	if err := s.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
