package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/reorder"
	"github.com/roach88/ticketboard/internal/store"
)

// AddTicket appends a ticket to listID and returns its id.
//
// A title that is empty after trimming is silently rejected: nothing is
// written and the returned id is 0.
func (c *Controller) AddTicket(ctx context.Context, listID, title, description string) (int64, error) {
	t, err := c.CreateTicket(ctx, listID, title, description)
	return t.ID, err
}

// CreateTicket is AddTicket returning the stored record. A rejected title
// yields the zero Ticket.
func (c *Controller) CreateTicket(ctx context.Context, listID, title, description string) (model.Ticket, error) {
	title = model.NormalizeTitle(title)
	if title == "" {
		return model.Ticket{}, nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	opID := c.opID(ctx)
	if err := c.checkList(ctx, listID); err != nil {
		return model.Ticket{}, err
	}

	siblings, err := c.store.TicketsByList(ctx, listID)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("add ticket: %w", err)
	}
	if err := c.heal(ctx, opID, listID, siblings); err != nil {
		return model.Ticket{}, fmt.Errorf("add ticket: %w", err)
	}

	ticket := model.Ticket{
		Title:       title,
		Description: description,
		ListID:      listID,
		Order:       len(siblings),
		CreatedAt:   c.now().UTC(),
	}
	id, err := c.store.PutTicket(ctx, ticket)
	if err != nil {
		c.logger.Warn("add ticket failed", "op_id", opID, "list", listID, "error", err)
		return model.Ticket{}, fmt.Errorf("add ticket: %w", err)
	}
	ticket.ID = id
	c.logger.Debug("added ticket", "op_id", opID, "id", id, "list", listID, "order", ticket.Order)

	return ticket, c.reload(ctx)
}

// heal renumbers a list whose stored orders are not 0..n-1, so an append
// lands on a free position.
func (c *Controller) heal(ctx context.Context, opID, listID string, siblings []model.Ticket) error {
	list := reorder.List{ID: listID, Items: itemsOf(siblings)}
	if reorder.CheckDense(list.Items) == nil {
		return nil
	}
	records, err := applyPlan(reorder.Compact(list), siblings)
	if err != nil {
		return err
	}
	if err := c.commit(ctx, opID, step{name: "heal " + listID, puts: records, prior: siblings}); err != nil {
		return err
	}
	c.logger.Warn("healed sparse list", "op_id", opID, "list", listID, "count", len(records))
	return nil
}

// DeleteTicket removes a ticket and compacts the list it was in.
//
// An id of zero or less is treated as absent and ignored. Deleting an id the
// store does not know is already satisfied and returns nil.
func (c *Controller) DeleteTicket(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	opID := c.opID(ctx)
	ticket, err := c.store.GetTicket(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.logger.Debug("delete of missing ticket", "op_id", opID, "id", id)
		return c.reload(ctx)
	}
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}

	siblings, err := c.store.TicketsByList(ctx, ticket.ListID)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}

	steps := []step{{name: "delete", deletes: []int64{id}, prior: []model.Ticket{ticket}}}
	if plan, ok := reorder.RemoveAndCompact(reorder.List{ID: ticket.ListID, Items: itemsOf(siblings)}, id); ok && plan.Len() > 0 {
		records, err := applyPlan(plan, siblings)
		if err != nil {
			return fmt.Errorf("delete ticket: %w", err)
		}
		steps = append(steps, step{name: "compact " + ticket.ListID, puts: records, prior: without(siblings, id)})
	}

	if err := c.commit(ctx, opID, steps...); err != nil {
		c.logger.Warn("delete ticket failed", "op_id", opID, "id", id, "error", err)
		return err
	}
	c.logger.Debug("deleted ticket", "op_id", opID, "id", id, "list", ticket.ListID)

	return c.reload(ctx)
}

// UpdateTicket merges title and description into an existing ticket.
// List and order are never changed here. A patched title that is empty after
// trimming is ignored. Unknown ids return an error wrapping store.ErrNotFound.
func (c *Controller) UpdateTicket(ctx context.Context, id int64, patch model.TicketPatch) error {
	if patch.Empty() {
		return nil
	}
	_, err := c.EditTicket(ctx, id, patch)
	return err
}

// EditTicket is UpdateTicket returning the ticket as stored afterwards. An
// empty patch still reads the ticket.
func (c *Controller) EditTicket(ctx context.Context, id int64, patch model.TicketPatch) (model.Ticket, error) {
	if id <= 0 {
		return model.Ticket{}, nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	opID := c.opID(ctx)
	ticket, err := c.store.GetTicket(ctx, id)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("update ticket: %w", err)
	}

	dirty := false
	if patch.Title != nil {
		if title := model.NormalizeTitle(*patch.Title); title != "" && title != ticket.Title {
			ticket.Title = title
			dirty = true
		}
	}
	if patch.Description != nil && *patch.Description != ticket.Description {
		ticket.Description = *patch.Description
		dirty = true
	}
	if !dirty {
		return ticket, nil
	}

	if _, err := c.store.PutTicket(ctx, ticket); err != nil {
		c.logger.Warn("update ticket failed", "op_id", opID, "id", id, "error", err)
		return model.Ticket{}, fmt.Errorf("update ticket: %w", err)
	}
	c.logger.Debug("updated ticket", "op_id", opID, "id", id)

	return ticket, c.reload(ctx)
}

// MoveTicket applies a drop event.
//
// Events with an empty list id or a source index outside the source list
// are ignored, as are drops back onto the same position. The target index is
// clamped to the target list.
func (c *Controller) MoveTicket(ctx context.Context, ev model.DropEvent) error {
	if ev.SourceListID == "" || ev.TargetListID == "" || ev.SourceIndex < 0 {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.moveLocked(ctx, c.opID(ctx), ev)
}

// moveLocked runs a drop event. The caller holds writeMu.
func (c *Controller) moveLocked(ctx context.Context, opID string, ev model.DropEvent) error {
	if err := c.checkList(ctx, ev.TargetListID); err != nil {
		return err
	}

	source, err := c.store.TicketsByList(ctx, ev.SourceListID)
	if err != nil {
		return fmt.Errorf("move ticket: %w", err)
	}

	var steps []step
	if ev.SameList() {
		plan, ok := reorder.MoveWithinList(reorder.List{ID: ev.SourceListID, Items: itemsOf(source)}, ev.SourceIndex, ev.TargetIndex)
		if !ok {
			return nil
		}
		records, err := applyPlan(plan, source)
		if err != nil {
			return fmt.Errorf("move ticket: %w", err)
		}
		steps = []step{{name: "reorder " + ev.SourceListID, puts: records, prior: source}}
	} else {
		target, err := c.store.TicketsByList(ctx, ev.TargetListID)
		if err != nil {
			return fmt.Errorf("move ticket: %w", err)
		}
		cp, ok := reorder.MoveAcrossLists(
			reorder.List{ID: ev.SourceListID, Items: itemsOf(source)},
			reorder.List{ID: ev.TargetListID, Items: itemsOf(target)},
			ev.SourceIndex, ev.TargetIndex,
		)
		if !ok {
			return nil
		}
		steps, err = crossSteps(cp, source, target)
		if err != nil {
			return fmt.Errorf("move ticket: %w", err)
		}
	}

	if err := c.commit(ctx, opID, steps...); err != nil {
		c.logger.Warn("move ticket failed", "op_id", opID,
			"from", ev.SourceListID, "to", ev.TargetListID, "error", err)
		return err
	}
	c.logger.Debug("moved ticket", "op_id", opID,
		"from", ev.SourceListID, "from_index", ev.SourceIndex,
		"to", ev.TargetListID, "to_index", ev.TargetIndex)

	return c.reload(ctx)
}

// crossSteps builds the two writes of a cross-list move: the target list
// first, then the compacted source list.
func crossSteps(cp reorder.CrossPlan, source, target []model.Ticket) ([]step, error) {
	targetRecords, err := applyPlan(cp.Target, target, source)
	if err != nil {
		return nil, err
	}
	sourceRecords, err := applyPlan(cp.Source, source)
	if err != nil {
		return nil, err
	}

	// The moved ticket's prior version lives in the source list; restoring it
	// is part of undoing the target write.
	targetPrior := append([]model.Ticket(nil), target...)
	for _, t := range source {
		if t.ID == cp.MovedID {
			targetPrior = append(targetPrior, t)
		}
	}

	steps := []step{{name: "insert into " + cp.Target.ListID, puts: targetRecords, prior: targetPrior}}
	if len(sourceRecords) > 0 {
		steps = append(steps, step{
			name:  "compact " + cp.Source.ListID,
			puts:  sourceRecords,
			prior: without(source, cp.MovedID),
		})
	}
	return steps, nil
}

// MoveTicketTo moves ticket id to position index of listID, resolving the
// drop event from the ticket's current position. Unknown ids are ignored.
func (c *Controller) MoveTicketTo(ctx context.Context, id int64, listID string, index int) error {
	if id <= 0 || listID == "" {
		return nil
	}

	// Resolve and move under one lock so the index still names id.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	ticket, err := c.store.GetTicket(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("move ticket: %w", err)
	}
	siblings, err := c.store.TicketsByList(ctx, ticket.ListID)
	if err != nil {
		return fmt.Errorf("move ticket: %w", err)
	}
	from := -1
	for i, t := range siblings {
		if t.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil
	}

	return c.moveLocked(ctx, c.opID(ctx), model.DropEvent{
		SourceListID: ticket.ListID,
		TargetListID: listID,
		SourceIndex:  from,
		TargetIndex:  index,
	})
}

// ReorderList rewrites the order of listID to follow ids. ids must name every
// ticket of the list exactly once, otherwise an ORDER_MISMATCH error is
// returned and nothing is written.
func (c *Controller) ReorderList(ctx context.Context, listID string, ids []int64) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	opID := c.opID(ctx)
	if err := c.checkList(ctx, listID); err != nil {
		return err
	}

	siblings, err := c.store.TicketsByList(ctx, listID)
	if err != nil {
		return fmt.Errorf("reorder list: %w", err)
	}
	plan, err := reorder.Resequence(reorder.List{ID: listID, Items: itemsOf(siblings)}, ids)
	if err != nil {
		return &Error{Code: ErrCodeOrderMismatch, Message: "reorder ids do not match list", ListID: listID, OpID: opID, Err: err}
	}
	if plan.Len() == 0 {
		return nil
	}
	records, err := applyPlan(plan, siblings)
	if err != nil {
		return fmt.Errorf("reorder list: %w", err)
	}

	if err := c.commit(ctx, opID, step{name: "reorder " + listID, puts: records, prior: siblings}); err != nil {
		c.logger.Warn("reorder list failed", "op_id", opID, "list", listID, "error", err)
		return err
	}
	c.logger.Debug("reordered list", "op_id", opID, "list", listID, "count", len(ids))

	return c.reload(ctx)
}

// AllTickets reads every ticket straight from the store.
func (c *Controller) AllTickets(ctx context.Context) ([]model.Ticket, error) {
	return c.store.AllTickets(ctx)
}

// TicketsByList reads one list straight from the store.
func (c *Controller) TicketsByList(ctx context.Context, listID string) ([]model.Ticket, error) {
	return c.store.TicketsByList(ctx, listID)
}

// without returns tickets minus the one with the given id.
func without(tickets []model.Ticket, id int64) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
