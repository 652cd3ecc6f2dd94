package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/roach88/ticketboard/internal/model"
)

// createTestStore creates a new SQLite store in a temp directory.
func createTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRedis creates a Redis store backed by miniredis.
func createTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRedis(client, "test")
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

// backends returns every Store implementation under a fresh instance.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	r, _ := createTestRedis(t)
	return map[string]Store{
		"sqlite": createTestStore(t),
		"redis":  r,
		"memory": NewMemory(),
	}
}

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC)

// createTestTicket creates a ticket with minimal required fields.
func createTestTicket(title, listID string, order int) model.Ticket {
	return model.Ticket{
		Title:       title,
		Description: title + " description",
		ListID:      listID,
		Order:       order,
		CreatedAt:   testTime,
	}
}

// mustPut inserts a ticket and returns its id.
func mustPut(t *testing.T, s Store, ticket model.Ticket) int64 {
	t.Helper()
	id, err := s.PutTicket(context.Background(), ticket)
	if err != nil {
		t.Fatalf("PutTicket() failed: %v", err)
	}
	return id
}
