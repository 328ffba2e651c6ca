// Package domain defines the core types of the kanban task tracker.
//
// This package contains the entities and value objects shared by the
// repository, service and HTTP layers.
//
// # Core Types
//
// User is a person work items can be assigned to. Emails are unique.
//
// Tag is a label attached to work items. Names are unique.
//
// WorkItem is a card on the board. It carries a lifecycle State, the time
// that state was last assigned, an optional assignee and a set of tags.
// Associations are held as ids, never as live references to other entities.
//
// # Lifecycle
//
// State is a closed set: New, Active, Resolved, Closed, Removed. A state is
// only ever assigned through WorkItem.SetState, which stamps StateUpdated.
// State.DeleteOutcome encodes what a delete request does in each state.
//
// # Results
//
// Mutating repository operations report a Result (Created, Updated,
// Deleted, NotFound, BadRequest, Conflict) instead of an error. Errors are
// reserved for faults of the underlying database and for ErrNotFound on
// single-record reads.
//
// # Design Principles
//
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
// - Typed string enumerations for states and results
package domain
