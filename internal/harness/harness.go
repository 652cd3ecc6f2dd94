package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/ticketboard/internal/board"
	"github.com/roach88/ticketboard/internal/model"
	"github.com/roach88/ticketboard/internal/store"
	"github.com/roach88/ticketboard/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and operation ids.
type Harness struct {
	board   *board.Controller
	clock   *testutil.DeterministicClock
	aliases map[string]int64
	names   map[int64]string
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs on a fresh in-memory store for isolation.
//
// Execution flow:
// 1. Create a fresh store and initialize the default lists
// 2. Execute setup steps, which must succeed
// 3. Execute flow steps, recording each in the trace
// 4. Capture the final board and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with controller logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st := store.NewMemory()
	defer st.Close()

	ctrl := board.New(st,
		board.WithLogger(logger),
		board.WithClock(testutil.NewDeterministicClock().Now),
		board.WithOpIDGenerator(testutil.NewSequentialOpIDs(scenario.Name)),
		board.WithStrictReferences(scenario.StrictReferences()),
	)

	ctx := context.Background()
	if err := ctrl.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize board: %w", err)
	}

	h := &Harness{
		board:   ctrl,
		clock:   testutil.NewDeterministicClock(),
		aliases: make(map[string]int64),
		names:   make(map[int64]string),
		logger:  logger,
	}

	for i, step := range scenario.Setup {
		if _, err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Op, err)
		}
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		event, err := h.execute(ctx, step)
		event.Outcome = outcome(event.Outcome, err)
		result.Trace = append(result.Trace, event)

		switch {
		case step.ExpectError != "" && event.Outcome != step.ExpectError:
			result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got %s", i, step.Op, step.ExpectError, event.Outcome))
		case step.ExpectError == "" && err != nil:
			result.AddError(fmt.Sprintf("flow[%d] %s: %v", i, step.Op, err))
		}
	}

	result.Board = h.aliasBoard()
	for _, msg := range EvaluateAssertions(h, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute runs one step and returns its trace event. The event's Outcome is
// only set for outcomes that are not derived from the error.
func (h *Harness) execute(ctx context.Context, st Step) (TraceEvent, error) {
	ev := TraceEvent{Seq: h.clock.Next(), Op: st.Op, Ticket: st.Ticket}

	switch st.Op {
	case OpAdd:
		alias := st.As
		if alias == "" {
			alias = *st.Title
		}
		ev.Ticket, ev.List = alias, st.List
		desc := ""
		if st.Description != nil {
			desc = *st.Description
		}
		id, err := h.board.AddTicket(ctx, st.List, *st.Title, desc)
		if err != nil {
			return ev, err
		}
		if id == 0 {
			ev.Outcome = OutcomeIgnored
			return ev, nil
		}
		h.aliases[alias] = id
		h.names[id] = alias
		return ev, nil

	case OpDelete:
		return ev, h.board.DeleteTicket(ctx, h.aliases[st.Ticket])

	case OpUpdate:
		patch := model.TicketPatch{Title: st.Title, Description: st.Description}
		return ev, h.board.UpdateTicket(ctx, h.aliases[st.Ticket], patch)

	case OpMove:
		if d := st.Drop; d != nil {
			from, to := d.SourceIndex, d.TargetIndex
			ev.List, ev.To, ev.From, ev.Index = d.SourceList, d.TargetList, &from, &to
			return ev, h.board.MoveTicket(ctx, model.DropEvent{
				SourceListID: d.SourceList,
				TargetListID: d.TargetList,
				SourceIndex:  d.SourceIndex,
				TargetIndex:  d.TargetIndex,
			})
		}
		idx := *st.Index
		ev.To, ev.Index = st.To, &idx
		return ev, h.board.MoveTicketTo(ctx, h.aliases[st.Ticket], st.To, idx)

	case OpReorder:
		ev.List, ev.Order = st.List, st.Order
		ids := make([]int64, len(st.Order))
		for i, alias := range st.Order {
			ids[i] = h.aliases[alias]
		}
		return ev, h.board.ReorderList(ctx, st.List, ids)
	}
	return ev, fmt.Errorf("unknown op %q", st.Op)
}

// outcome folds a step error into a trace outcome.
func outcome(preset string, err error) string {
	if err != nil {
		var be *board.Error
		if errors.As(err, &be) {
			return string(be.Code)
		}
		return OutcomeError
	}
	if preset != "" {
		return preset
	}
	return OutcomeOK
}

// aliasBoard returns the projected board with tickets named by alias.
func (h *Harness) aliasBoard() map[string][]string {
	snap := h.board.Snapshot()
	out := make(map[string][]string, len(snap.TicketsByList))
	for listID, tickets := range snap.TicketsByList {
		names := make([]string, len(tickets))
		for i, t := range tickets {
			names[i] = h.name(t.ID)
		}
		out[listID] = names
	}
	return out
}

func (h *Harness) name(id int64) string {
	if n, ok := h.names[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", id)
}
