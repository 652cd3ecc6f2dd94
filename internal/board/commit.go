package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/reorder"
	"github.com/roach88/ticketboard/internal/store"
)

// step is one logical write plus what is needed to undo it.
type step struct {
	name    string
	deletes []int64
	puts    []model.Ticket

	// prior holds the versions of every record the step overwrites or
	// deletes, as they were before the operation began.
	prior []model.Ticket
}

func (s step) apply(ctx context.Context, w store.Writer) error {
	for _, id := range s.deletes {
		if err := w.DeleteTicket(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if len(s.puts) > 0 {
		if err := w.BulkPutTickets(ctx, s.puts); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (s step) undo(ctx context.Context, w store.Writer) error {
	if len(s.prior) == 0 {
		return nil
	}
	if err := w.BulkPutTickets(ctx, s.prior); err != nil {
		return fmt.Errorf("undo %s: %w", s.name, err)
	}
	return nil
}

// journal is the compensating-action log for stores without transactions.
type journal struct {
	opID    string
	logger  *slog.Logger
	applied []step
}

// rollback undoes applied steps newest first. Undo writes only restore prior
// versions, so replaying them is safe.
func (j *journal) rollback(ctx context.Context, w store.Writer) error {
	var errs []error
	for i := len(j.applied) - 1; i >= 0; i-- {
		if err := j.applied[i].undo(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		j.logger.Error("compensation failed", "op_id", j.opID, "steps", len(j.applied))
		return errors.Join(errs...)
	}
	j.logger.Warn("compensated failed commit", "op_id", j.opID, "steps", len(j.applied))
	return nil
}

// commit applies steps as a single logical write.
//
// With a transactional store all steps share one transaction. Otherwise the
// steps run in order and a failure triggers compensation of every step that
// ran, including the failing one, since it may have landed partially.
func (c *Controller) commit(ctx context.Context, opID string, steps ...step) error {
	if tx, ok := c.store.(store.Transactor); ok {
		err := tx.InTx(ctx, func(w store.Writer) error {
			for _, s := range steps {
				if err := s.apply(ctx, w); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	}

	j := &journal{opID: opID, logger: c.logger}
	for _, s := range steps {
		j.applied = append(j.applied, s)
		if err := s.apply(ctx, c.store); err != nil {
			if undoErr := j.rollback(ctx, c.store); undoErr != nil {
				return NewPartialWriteError(opID, err, undoErr)
			}
			return fmt.Errorf("commit: %w", err)
		}
	}
	return nil
}

// itemsOf converts tickets into planner items.
func itemsOf(tickets []model.Ticket) []reorder.Item {
	items := make([]reorder.Item, len(tickets))
	for i, t := range tickets {
		items[i] = reorder.Item{ID: t.ID, Order: t.Order}
	}
	return items
}

// applyPlan returns the records of pool rewritten per plan, in plan order.
// Every assigned record takes the plan's list id.
func applyPlan(plan reorder.Plan, pool ...[]model.Ticket) ([]model.Ticket, error) {
	byID := make(map[int64]model.Ticket)
	for _, tickets := range pool {
		for _, t := range tickets {
			byID[t.ID] = t
		}
	}

	out := make([]model.Ticket, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		t, ok := byID[a.ID]
		if !ok {
			return nil, fmt.Errorf("plan for list %q names unknown ticket %d", plan.ListID, a.ID)
		}
		t.Order = a.Order
		t.ListID = plan.ListID
		out = append(out, t)
	}
	return out, nil
}
