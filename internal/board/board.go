package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/store"
)

// Controller owns the board projection and every mutation of the store.
type Controller struct {
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time
	opIDs    OpIDGenerator
	strict   bool
	defaults []model.ListColumn

	// writeMu serialises mutating operations end to end.
	writeMu sync.Mutex

	// mu guards projection.
	mu         sync.RWMutex
	projection model.Projection
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithOpIDGenerator sets the operation id source.
func WithOpIDGenerator(g OpIDGenerator) Option {
	return func(c *Controller) {
		if g != nil {
			c.opIDs = g
		}
	}
}

// WithStrictReferences controls whether adds and moves into unknown lists
// are rejected (true, the default) or allowed to create dangling references.
func WithStrictReferences(strict bool) Option {
	return func(c *Controller) {
		c.strict = strict
	}
}

// WithDefaultLists replaces the columns Initialize creates.
func WithDefaultLists(lists []model.ListColumn) Option {
	return func(c *Controller) {
		c.defaults = append([]model.ListColumn(nil), lists...)
	}
}

// New creates a controller over s. Call Initialize before use.
func New(s store.Store, opts ...Option) *Controller {
	if s == nil {
		panic("board.New: store is nil")
	}
	c := &Controller{
		store:      s,
		logger:     slog.Default(),
		now:        time.Now,
		opIDs:      UUIDv7Generator{},
		strict:     true,
		defaults:   model.DefaultLists(),
		projection: model.NewProjection(nil, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "board")
	return c
}

// Store returns the backing store.
func (c *Controller) Store() store.Store {
	return c.store
}

// Initialize creates any missing default list and loads the projection.
// Existing lists are never overwritten.
func (c *Controller) Initialize(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for _, l := range c.defaults {
		_, err := c.store.GetList(ctx, l.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("initialize: check list %q: %w", l.ID, err)
		}
		if err := c.store.PutList(ctx, l); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		c.logger.Info("created list", "list", l.ID)
	}

	return c.reload(ctx)
}

// Load replaces the projection with a fresh read of the store.
func (c *Controller) Load(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.reload(ctx)
}

// reload reads lists and tickets and swaps the projection. On error the
// previous projection is kept. Callers hold writeMu.
func (c *Controller) reload(ctx context.Context) error {
	lists, err := c.store.Lists(ctx)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}
	tickets, err := c.store.AllTickets(ctx)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}

	p := model.NewProjection(lists, tickets)
	c.mu.Lock()
	c.projection = p
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current projection.
func (c *Controller) Snapshot() model.Projection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection.Clone()
}

// Lists returns the columns in board order.
func (c *Controller) Lists() []model.ListColumn {
	return c.Snapshot().Lists
}

// ListIDs returns the column ids in board order.
func (c *Controller) ListIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection.ListIDs()
}

// Tickets returns the projected tickets of one list.
func (c *Controller) Tickets(listID string) []model.Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src := c.projection.Tickets(listID)
	out := make([]model.Ticket, len(src))
	copy(out, src)
	return out
}

// checkList enforces strict references. It returns an UNKNOWN_LIST error
// with a suggestion when listID has no column.
func (c *Controller) checkList(ctx context.Context, listID string) error {
	if !c.strict {
		return nil
	}
	_, err := c.store.GetList(ctx, listID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check list %q: %w", listID, err)
	}

	lists, lerr := c.store.Lists(ctx)
	if lerr != nil {
		return NewUnknownListError(listID, "")
	}
	known := make([]string, len(lists))
	for i, l := range lists {
		known[i] = l.ID
	}
	return NewUnknownListError(listID, closestListID(listID, known))
}
