package board

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/reorder"
	"github.com/roach88/ticketboard/internal/store"
	"github.com/roach88/ticketboard/internal/testutil"
)

var errInjected = errors.New("injected failure")

// flakyStore wraps the memory store and fails selected BulkPutTickets calls.
// Calls are numbered from 1. It does not implement store.Transactor, so the
// controller falls back to its compensating journal.
type flakyStore struct {
	*store.Memory

	mu        sync.Mutex
	bulkCalls int
	failBulk  map[int]bool
	failLists bool

	// afterTicketsByList runs once, after the next TicketsByList read has
	// been taken but before it is returned.
	afterTicketsByList func()
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Memory: store.NewMemory(), failBulk: map[int]bool{}}
}

func (f *flakyStore) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	f.mu.Lock()
	f.bulkCalls++
	fail := f.failBulk[f.bulkCalls]
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.Memory.BulkPutTickets(ctx, tickets)
}

func (f *flakyStore) Lists(ctx context.Context) ([]model.ListColumn, error) {
	f.mu.Lock()
	fail := f.failLists
	f.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return f.Memory.Lists(ctx)
}

func (f *flakyStore) TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error) {
	tickets, err := f.Memory.TicketsByList(ctx, listID)
	f.mu.Lock()
	hook := f.afterTicketsByList
	f.afterTicketsByList = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return tickets, err
}

// failOn arms the n-th BulkPutTickets call from now on, counting from 1.
func (f *flakyStore) failOn(calls ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range calls {
		f.failBulk[f.bulkCalls+n] = true
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestController builds an initialized controller with a deterministic
// clock and op ids.
func newTestController(t *testing.T, s store.Store, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithLogger(quietLogger()),
		WithClock(testutil.NewDeterministicClock().Now),
		WithOpIDGenerator(testutil.NewSequentialOpIDs("test")),
	}
	c := New(s, append(base, opts...)...)
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

type backend struct {
	name string
	open func(t *testing.T) store.Store
}

// backends returns one constructor per store implementation.
func backends() []backend {
	return []backend{
		{"memory", func(t *testing.T) store.Store { return store.NewMemory() }},
		{"sqlite", func(t *testing.T) store.Store {
			s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "board.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
		{"redis", func(t *testing.T) store.Store {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			t.Cleanup(mr.Close)
			return store.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "board")
		}},
	}
}

// seed adds tickets to a list in order and returns their ids by title.
func seed(t *testing.T, c *Controller, listID string, titles ...string) map[string]int64 {
	t.Helper()
	ids := make(map[string]int64, len(titles))
	for _, title := range titles {
		id, err := c.AddTicket(context.Background(), listID, title, "")
		require.NoError(t, err)
		require.NotZero(t, id)
		ids[title] = id
	}
	return ids
}

// titles returns the projected titles of a list in order.
func titles(c *Controller, listID string) []string {
	tickets := c.Tickets(listID)
	out := make([]string, len(tickets))
	for i, tk := range tickets {
		out[i] = tk.Title
	}
	return out
}

// requireDense asserts every list in the store occupies orders 0..n-1.
func requireDense(t *testing.T, c *Controller) {
	t.Helper()
	ctx := context.Background()
	for _, id := range c.ListIDs() {
		tickets, err := c.TicketsByList(ctx, id)
		require.NoError(t, err)
		require.NoError(t, reorder.CheckDense(itemsOf(tickets)), "list %s", id)
	}
}
