// Package reorder computes position plans for ordered lists of tickets.
//
// Every function here is pure: it reads in-memory items and returns a Plan,
// never touching storage. A Plan is the complete (id, order) assignment for
// every record of one list after the operation, so applying it twice yields
// the same state as applying it once.
//
// DENSITY:
//
// Each list holds n items at orders 0..n-1 with no gaps or duplicates.
// Inputs are first sorted by (order, id) and every output plan assigns
// positions by index, so a plan is dense even when its input was not.
//
// CROSS-LIST MOVES:
//
// MoveAcrossLists returns two plans that must be committed together. A reader
// that observes only one of them sees the moved ticket missing from both lists
// or present in both. Callers commit them in one transaction when the store
// allows it.
package reorder
