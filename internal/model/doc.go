// Package model defines the records shared by every ticketboard layer.
//
// Two record kinds are persisted:
//   - ListColumn: a named, ordered bucket of tickets (todo, in-progress, done)
//   - Ticket: a card that lives in exactly one list at a dense, zero-based position
//
// The Projection type is the read model handed to presentation layers. It is
// always rebuilt from the store and never patched in place.
package model
