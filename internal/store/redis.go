package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/ticketboard/internal/model"
)

// DefaultRedisPrefix namespaces every key written by the Redis store.
const DefaultRedisPrefix = "ticketboard"

// Redis stores the board in three keys under a prefix:
//
//	<prefix>:tickets     hash id -> ticket JSON
//	<prefix>:lists       hash id -> list JSON
//	<prefix>:ticket_seq  counter for new ticket ids
//
// Queries read the whole hash and sort client-side, which is fine for a
// personal board.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var (
	_ Store      = (*Redis)(nil)
	_ Transactor = (*Redis)(nil)
)

// NewRedis wraps an existing client. Close closes the client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("store.NewRedis: client is nil")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
		logger: slog.Default().With("component", "store", "driver", "redis"),
	}
}

// OpenRedis parses a redis:// URL, connects, and pings the server.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

func (r *Redis) ticketsKey() string { return r.prefix + ":tickets" }
func (r *Redis) listsKey() string   { return r.prefix + ":lists" }
func (r *Redis) seqKey() string     { return r.prefix + ":ticket_seq" }

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// GetTicket implements Reader.
func (r *Redis) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	data, err := r.client.HGet(ctx, r.ticketsKey(), strconv.FormatInt(id, 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Ticket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	var t model.Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return model.Ticket{}, fmt.Errorf("decode ticket %d: %w", id, err)
	}
	return t, nil
}

// TicketsByList implements Reader.
func (r *Redis) TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error) {
	all, err := r.AllTickets(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Ticket{}
	for _, t := range all {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	return out, nil
}

// AllTickets implements Reader.
func (r *Redis) AllTickets(ctx context.Context) ([]model.Ticket, error) {
	raw, err := r.client.HGetAll(ctx, r.ticketsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("query all tickets: %w", err)
	}
	out := make([]model.Ticket, 0, len(raw))
	for field, data := range raw {
		var t model.Ticket
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode ticket %s: %w", field, err)
		}
		out = append(out, t)
	}
	model.SortTickets(out)
	return out, nil
}

// GetList implements Reader.
func (r *Redis) GetList(ctx context.Context, id string) (model.ListColumn, error) {
	data, err := r.client.HGet(ctx, r.listsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.ListColumn{}, fmt.Errorf("list %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.ListColumn{}, fmt.Errorf("get list %q: %w", id, err)
	}
	var l model.ListColumn
	if err := json.Unmarshal(data, &l); err != nil {
		return model.ListColumn{}, fmt.Errorf("decode list %q: %w", id, err)
	}
	return l, nil
}

// Lists implements Reader.
func (r *Redis) Lists(ctx context.Context) ([]model.ListColumn, error) {
	raw, err := r.client.HGetAll(ctx, r.listsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	out := make([]model.ListColumn, 0, len(raw))
	for field, data := range raw {
		var l model.ListColumn
		if err := json.Unmarshal([]byte(data), &l); err != nil {
			return nil, fmt.Errorf("decode list %s: %w", field, err)
		}
		out = append(out, l)
	}
	model.SortLists(out)
	return out, nil
}

// PutTicket implements Writer.
func (r *Redis) PutTicket(ctx context.Context, t model.Ticket) (int64, error) {
	var id int64
	err := r.InTx(ctx, func(w Writer) error {
		var err error
		id, err = w.PutTicket(ctx, t)
		return err
	})
	return id, err
}

// BulkPutTickets implements Writer. All tickets land in one MULTI/EXEC.
func (r *Redis) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	return r.InTx(ctx, func(w Writer) error {
		return w.BulkPutTickets(ctx, tickets)
	})
}

// DeleteTicket implements Writer.
func (r *Redis) DeleteTicket(ctx context.Context, id int64) error {
	if err := r.client.HDel(ctx, r.ticketsKey(), strconv.FormatInt(id, 10)).Err(); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	return nil
}

// PutList implements Writer.
func (r *Redis) PutList(ctx context.Context, l model.ListColumn) error {
	return r.InTx(ctx, func(w Writer) error {
		return w.PutList(ctx, l)
	})
}

// InTx implements Transactor.
//
// Writes made through the Writer are buffered and sent as one MULTI/EXEC
// block after fn returns nil. Ids for new tickets are reserved with INCR
// before the block, so a rolled-back insert leaves a gap in the id sequence.
func (r *Redis) InTx(ctx context.Context, fn func(w Writer) error) error {
	w := &redisTxWriter{r: r}
	if err := fn(w); err != nil {
		return err
	}
	if len(w.ops) == 0 {
		return nil
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range w.ops {
			op(ctx, pipe)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("exec redis tx: %w", err)
	}
	r.logger.Debug("redis tx committed", "ops", len(w.ops))
	return nil
}

// redisTxWriter queues commands for a MULTI/EXEC block.
type redisTxWriter struct {
	r   *Redis
	ops []func(ctx context.Context, pipe redis.Pipeliner)
}

func (w *redisTxWriter) PutTicket(ctx context.Context, t model.Ticket) (int64, error) {
	if t.ID == 0 {
		id, err := w.r.client.Incr(ctx, w.r.seqKey()).Result()
		if err != nil {
			return 0, fmt.Errorf("reserve ticket id: %w", err)
		}
		t.ID = id
	}
	if err := w.queueTicket(t); err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (w *redisTxWriter) BulkPutTickets(ctx context.Context, tickets []model.Ticket) error {
	if err := validateBulk(tickets); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := w.queueTicket(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *redisTxWriter) DeleteTicket(ctx context.Context, id int64) error {
	key := w.r.ticketsKey()
	field := strconv.FormatInt(id, 10)
	w.ops = append(w.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.HDel(ctx, key, field)
	})
	return nil
}

func (w *redisTxWriter) PutList(ctx context.Context, l model.ListColumn) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode list %q: %w", l.ID, err)
	}
	key := w.r.listsKey()
	w.ops = append(w.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, l.ID, data)
	})
	return nil
}

func (w *redisTxWriter) queueTicket(t model.Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode ticket %d: %w", t.ID, err)
	}
	key := w.r.ticketsKey()
	field := strconv.FormatInt(t.ID, 10)
	w.ops = append(w.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, field, data)
	})
	return nil
}
