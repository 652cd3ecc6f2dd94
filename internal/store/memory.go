package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/ticketboard/internal/model"
)

// Memory is an in-process Store. It has no transactions: every write is
// visible as soon as it returns.
type Memory struct {
	mu      sync.RWMutex
	tickets map[int64]model.Ticket
	lists   map[string]model.ListColumn
	nextID  int64
	closed  bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tickets: make(map[int64]model.Ticket),
		lists:   make(map[string]model.ListColumn),
	}
}

func (m *Memory) checkOpen() error {
	if m.closed {
		return fmt.Errorf("memory store: closed")
	}
	return nil
}

// GetTicket implements Reader.
func (m *Memory) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen(); err != nil {
		return model.Ticket{}, err
	}

	t, ok := m.tickets[id]
	if !ok {
		return model.Ticket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	return t, nil
}

// TicketsByList implements Reader.
func (m *Memory) TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	out := []model.Ticket{}
	for _, t := range m.tickets {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	model.SortTickets(out)
	return out, nil
}

// AllTickets implements Reader.
func (m *Memory) AllTickets(ctx context.Context) ([]model.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]model.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, t)
	}
	model.SortTickets(out)
	return out, nil
}

// GetList implements Reader.
func (m *Memory) GetList(ctx context.Context, id string) (model.ListColumn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen(); err != nil {
		return model.ListColumn{}, err
	}

	l, ok := m.lists[id]
	if !ok {
		return model.ListColumn{}, fmt.Errorf("list %q: %w", id, ErrNotFound)
	}
	return l, nil
}

// Lists implements Reader.
func (m *Memory) Lists(ctx context.Context) ([]model.ListColumn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen(); err != nil {
		return nil, err
	}

	out := make([]model.ListColumn, 0, len(m.lists))
	for _, l := range m.lists {
		out = append(out, l)
	}
	model.SortLists(out)
	return out, nil
}

// PutTicket implements Writer. Ids are assigned from a monotonic counter.
func (m *Memory) PutTicket(ctx context.Context, t model.Ticket) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return 0, err
	}

	if t.ID == 0 {
		m.nextID++
		t.ID = m.nextID
	} else if t.ID > m.nextID {
		m.nextID = t.ID
	}
	m.tickets[t.ID] = t
	return t.ID, nil
}

// BulkPutTickets implements Writer.
func (m *Memory) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	if err := validateBulk(tickets); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}

	for _, t := range tickets {
		if t.ID > m.nextID {
			m.nextID = t.ID
		}
		m.tickets[t.ID] = t
	}
	return nil
}

// DeleteTicket implements Writer.
func (m *Memory) DeleteTicket(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}

	delete(m.tickets, id)
	return nil
}

// PutList implements Writer.
func (m *Memory) PutList(ctx context.Context, l model.ListColumn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}

	m.lists[l.ID] = l
	return nil
}

// Close marks the store closed. Later calls fail.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
