package database

import (
	"context"
	"errors"
	"testing"
)

func newItemsDatabase(t *testing.T) Database {
	t.Helper()
	db := newTestDatabase(t)
	err := db.Session(context.Background()).
		Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)").Error
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func countItems(t *testing.T, db Database) int64 {
	t.Helper()
	var count int64
	if err := db.Session(context.Background()).Raw("SELECT COUNT(*) FROM test_items").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestOpenSession(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	s, err := OpenSession(ctx, db)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if s.DB() == nil {
		t.Error("DB() returned nil")
	}
	if s.Finished() {
		t.Error("new session should not be finished")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !s.Finished() {
		t.Error("closed session should be finished")
	}
}

func TestSession_Commit(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	s, err := OpenSession(ctx, db)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := countItems(t, db); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}

	// Later calls are no-ops.
	if err := s.Commit(); err != nil {
		t.Errorf("second Commit should not error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close after Commit should not error: %v", err)
	}
	if got := countItems(t, db); got != 1 {
		t.Errorf("Close after Commit discarded data, count %d", got)
	}
}

func TestSession_CloseDiscardsUncommitted(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	s, err := OpenSession(ctx, db)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should not error: %v", err)
	}

	if got := countItems(t, db); got != 0 {
		t.Errorf("expected count 0, got %d", got)
	}
}

func TestSession_ReleasesConnection(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	s, err := OpenSession(ctx, db)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if _, inUse := db.Stats(); inUse != 1 {
		t.Errorf("expected 1 connection in use, got %d", inUse)
	}
	_ = s.Close()
	if _, inUse := db.Stats(); inUse != 0 {
		t.Errorf("expected 0 connections in use after Close, got %d", inUse)
	}
}

func TestWithSession_Success(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	err := WithSession(ctx, db, func(s *Session) error {
		return s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error
	})
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}

	if got := countItems(t, db); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
}

func TestWithSession_Error(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)
	testErr := errors.New("test error")

	err := WithSession(ctx, db, func(s *Session) error {
		if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
			return err
		}
		return testErr
	})
	if err != testErr {
		t.Errorf("expected the callback's error unmodified, got %v", err)
	}

	if got := countItems(t, db); got != 0 {
		t.Errorf("expected count 0 after rollback, got %d", got)
	}
	if _, inUse := db.Stats(); inUse != 0 {
		t.Errorf("expected 0 connections in use, got %d", inUse)
	}
}

func TestWithSession_Panic(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("expected panic to propagate, got %v", r)
			}
		}()
		_ = WithSession(ctx, db, func(s *Session) error {
			if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if got := countItems(t, db); got != 0 {
		t.Errorf("expected count 0 after panic, got %d", got)
	}
	if _, inUse := db.Stats(); inUse != 0 {
		t.Errorf("expected 0 connections in use, got %d", inUse)
	}
}

func TestWithSession_DriverErrorUnmodified(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	err := WithSession(ctx, db, func(s *Session) error {
		return s.DB().Exec("INSERT INTO test_items (id, name) VALUES (?, NULL)", 1).Error
	})
	if err == nil {
		t.Fatal("expected not-null violation")
	}
	if !IsNotNullViolation(err) {
		t.Errorf("expected not-null violation, got %v", err)
	}
}

func TestWithSessionResult_Success(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)

	result, err := WithSessionResult(ctx, db, func(s *Session) (int64, error) {
		if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
			return 0, err
		}
		var count int64
		err := s.DB().Raw("SELECT COUNT(*) FROM test_items").Scan(&count).Error
		return count, err
	})
	if err != nil {
		t.Fatalf("WithSessionResult: %v", err)
	}
	if result != 1 {
		t.Errorf("expected result 1, got %d", result)
	}
	if got := countItems(t, db); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
}

func TestWithSessionResult_Error(t *testing.T) {
	ctx := context.Background()
	db := newItemsDatabase(t)
	testErr := errors.New("test error")

	_, err := WithSessionResult(ctx, db, func(s *Session) (string, error) {
		if err := s.DB().Exec("INSERT INTO test_items (name) VALUES (?)", "item1").Error; err != nil {
			return "", err
		}
		return "", testErr
	})
	if !errors.Is(err, testErr) {
		t.Errorf("expected testErr, got %v", err)
	}
	if got := countItems(t, db); got != 0 {
		t.Errorf("expected count 0 after rollback, got %d", got)
	}
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	if _, ok := FromContext(ctx); ok {
		t.Error("expected no session in a bare context")
	}

	s, err := OpenSession(ctx, db)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	defer func() { _ = s.Close() }()

	got, ok := FromContext(NewContext(ctx, s))
	if !ok || got != s {
		t.Error("expected the stored session back")
	}
	if _, ok := FromContext(NewContext(ctx, nil)); ok {
		t.Error("expected a nil session to be reported as absent")
	}
}
