// Package harness runs YAML board scenarios against a real controller.
//
// Each scenario executes on a fresh in-memory store with a deterministic
// clock and operation ids, so the same file always produces the same trace.
//
// # Scenario Format
//
//	name: move_across_lists
//	description: "Cross-list move renumbers both lists"
//	setup:
//	  - op: add
//	    list: todo
//	    title: A
//	flow:
//	  - op: move
//	    ticket: A
//	    to: done
//	    index: 0
//	  - op: add
//	    list: nowhere
//	    title: B
//	    expect_error: UNKNOWN_LIST
//	assertions:
//	  - type: list_order
//	    list: done
//	    tickets: [A]
//	  - type: dense
//
// Tickets are referred to by alias: the "as" field of the add step, or its
// title when "as" is empty. An alias that was never added resolves to no
// ticket, which exercises the missing-id paths.
//
// # Operations
//
//   - add: list, title, description, as
//   - delete: ticket
//   - update: ticket, title, description
//   - move: ticket, to, index; or drop with the raw event fields
//   - reorder: list, order
//
// # Assertion Types
//
//   - list_order: the aliases of list, in order
//   - list_count: the number of tickets in list
//   - ticket_list: ticket sits in list, optionally at order
//   - dense: every list occupies orders 0..n-1
//
// # Golden Traces
//
// RunWithGolden compares the step trace and final board against
// testdata/golden/<name>.golden. Timestamps and ids are excluded, so traces
// are stable across runs. Regenerate with:
//
//	go test ./internal/harness -update
package harness
