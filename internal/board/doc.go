// Package board implements the ticketboard controller.
//
// The Controller turns user intents (add, delete, update, move, reorder) into
// position plans from package reorder, writes those plans to a store.Store,
// and then rebuilds its in-memory Projection from the store.
//
// ARCHITECTURE:
//
// Read Model:
// The projection is a cache of the store, never a second source of truth.
// It is replaced wholesale by Load after every successful mutation and left
// untouched when a mutation fails.
//
// Single Writer:
// Mutating operations are serialised by a controller-wide mutex, so two
// moves can never interleave their read-plan-write sequences. Snapshot takes
// only a read lock and can run alongside a mutation.
//
// Multi-Record Commits:
// Plans touching several records are written in one transaction when the
// store implements store.Transactor. Otherwise the controller keeps a
// compensating journal: each step records the prior versions of what it
// overwrites, and a failed step undoes every step already applied. If the
// undo itself fails the caller gets a PARTIAL_WRITE error.
//
// Validation:
// Empty titles, missing ids and out-of-range drop indexes are absorbed as
// no-ops without error. Unknown list ids are rejected with UNKNOWN_LIST when
// strict references are enabled (the default).
package board
