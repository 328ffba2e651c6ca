// Package service implements business logic for the kanban board.
//
// This package sits between the HTTP handlers (or CLI) and the repository
// layer. It forwards every operation to a repository.Store, logs rejected
// operations, and publishes change events.
//
// # Services
//
// BoardService exposes the user, tag and work item operations and moves
// whole boards in and out of the store through codec.Board snapshots.
//
// # Event System
//
// Every Created, Updated or Deleted result is published on the EventBus
// as a typed Event (user_created, tag_deleted, work_item_updated, ...).
// The HTTP server relays these to connected clients via Server-Sent Events.
// Publishing never blocks; a subscriber that falls behind misses events.
//
// # Design Principles
//
// - Repositories own the rules; services never second-guess a Result
// - Event-driven for real-time updates
// - Context-aware for cancellation and timeouts
package service
