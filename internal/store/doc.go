// Package store provides durable storage for ticketboard lists and tickets.
//
// The Store interface covers the two record kinds with get, put, bulk put,
// delete, and ordered queries. Three backends implement it:
//   - SQLite: the default local database file
//   - Redis: hashes under a key prefix, for boards shared with other tools
//   - Memory: process-local maps, used by tests and the scenario harness
//
// # Transactions
//
// SQLite and Redis also implement Transactor. InTx hands a Writer to the
// callback and commits only if the callback returns nil; any error or panic
// rolls everything back. Memory has no transactions, so callers that need
// atomic multi-record writes must compensate on failure themselves.
//
// # Ordering
//
// Ticket queries return rows sorted by order then id, and list queries by
// order then id. Callers never re-sort store output.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Schema changes live in migrations/ and are applied with golang-migrate on open.
package store
