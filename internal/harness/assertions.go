package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/ticketboard/internal/reorder"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion against the harness board and
// returns the failure messages.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(h, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(h *Harness, a Assertion) error {
	switch a.Type {
	case AssertListOrder:
		return assertListOrder(h, a)
	case AssertListCount:
		return assertListCount(h, a)
	case AssertTicketList:
		return assertTicketList(h, a)
	case AssertDense:
		return assertDense(h)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertListOrder(h *Harness, a Assertion) error {
	got := h.aliasBoard()[a.List]
	want := a.Tickets
	if len(got) == len(want) {
		same := true
		for i := range got {
			if got[i] != want[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertListOrder,
		Expected: fmt.Sprintf("%s = %v", a.List, want),
		Actual:   fmt.Sprintf("%s = %v", a.List, got),
	}
}

func assertListCount(h *Harness, a Assertion) error {
	got := len(h.board.Tickets(a.List))
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertListCount,
		Expected: fmt.Sprintf("%d tickets in %s", *a.Count, a.List),
		Actual:   fmt.Sprintf("%d tickets", got),
	}
}

func assertTicketList(h *Harness, a Assertion) error {
	id, ok := h.aliases[a.Ticket]
	if !ok {
		return &AssertionError{
			Type:     AssertTicketList,
			Expected: fmt.Sprintf("ticket %s exists", a.Ticket),
			Actual:   "never added",
		}
	}
	t, _, found := h.board.Snapshot().Find(id)
	if !found {
		return &AssertionError{
			Type:     AssertTicketList,
			Expected: fmt.Sprintf("ticket %s in %s", a.Ticket, a.List),
			Actual:   "not on the board",
		}
	}
	if t.ListID != a.List || (a.Order != nil && t.Order != *a.Order) {
		expected := fmt.Sprintf("ticket %s in %s", a.Ticket, a.List)
		if a.Order != nil {
			expected += fmt.Sprintf(" at %d", *a.Order)
		}
		return &AssertionError{
			Type:     AssertTicketList,
			Expected: expected,
			Actual:   fmt.Sprintf("in %s at %d", t.ListID, t.Order),
		}
	}
	return nil
}

// assertDense reads the store directly so a stale projection cannot hide a
// broken order sequence.
func assertDense(h *Harness) error {
	ctx := context.Background()
	for listID := range h.board.Snapshot().TicketsByList {
		tickets, err := h.board.TicketsByList(ctx, listID)
		if err != nil {
			return err
		}
		items := make([]reorder.Item, len(tickets))
		for i, t := range tickets {
			items[i] = reorder.Item{ID: t.ID, Order: t.Order}
		}
		if err := reorder.CheckDense(items); err != nil {
			return &AssertionError{
				Type:     AssertDense,
				Expected: fmt.Sprintf("%s occupies 0..%d", listID, len(items)-1),
				Actual:   err.Error(),
			}
		}
	}
	return nil
}
