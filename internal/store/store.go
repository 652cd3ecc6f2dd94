package store

import (
	"context"
	"errors"

	"github.com/roach88/ticketboard/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Writer is the mutating half of a Store. Inside a transaction it is the only
// surface available to the callback.
type Writer interface {
	// PutTicket inserts or replaces a ticket. A zero ID asks the store to
	// assign one; the assigned or existing ID is returned.
	PutTicket(ctx context.Context, t model.Ticket) (int64, error)

	// BulkPutTickets replaces every given ticket. IDs must be non-zero.
	BulkPutTickets(ctx context.Context, tickets []model.Ticket) error

	// DeleteTicket removes a ticket. Deleting a missing id is not an error.
	DeleteTicket(ctx context.Context, id int64) error

	// PutList inserts or replaces a list column.
	PutList(ctx context.Context, l model.ListColumn) error
}

// Reader is the query half of a Store.
type Reader interface {
	// GetTicket returns ErrNotFound when the id is absent.
	GetTicket(ctx context.Context, id int64) (model.Ticket, error)

	// TicketsByList returns the tickets whose ListID equals listID.
	TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error)

	// AllTickets returns every ticket.
	AllTickets(ctx context.Context) ([]model.Ticket, error)

	// GetList returns ErrNotFound when the id is absent.
	GetList(ctx context.Context, id string) (model.ListColumn, error)

	// Lists returns every list column.
	Lists(ctx context.Context) ([]model.ListColumn, error)
}

// Store is a persistent collection of lists and tickets.
type Store interface {
	Reader
	Writer
	Close() error
}

// Transactor is implemented by stores that can apply several writes atomically.
type Transactor interface {
	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back on error or panic.
	InTx(ctx context.Context, fn func(w Writer) error) error
}

// validateBulk rejects tickets without ids before any write happens.
func validateBulk(tickets []model.Ticket) error {
	for _, t := range tickets {
		if t.ID == 0 {
			return errors.New("bulk put: ticket without id")
		}
	}
	return nil
}
