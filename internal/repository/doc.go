// Package repository defines the data access interfaces for the kanban board.
//
// This package provides the repository abstraction layer for persisting
// and retrieving users, tags and work items. The actual implementation is in
// the sqlite subpackage.
//
// # Repository Interfaces
//
// UserRepository, TagRepository and WorkItemRepository each expose the
// create/read/update/delete operations of one entity. Mutating operations
// return a domain.Result describing the outcome; a non-nil error always
// means the database itself failed. Single-record reads return
// domain.ErrNotFound when nothing matches.
//
// Store groups the three repositories over one persistence context.
//
// # SQLite Implementation
//
// The sqlite implementation maps the entities through GORM:
//
// - One transaction per mutating operation
// - Many-to-many work item tags through a join table
// - Assignees as a nullable foreign key
// - Automatic schema migration on open
//
// # Testing
//
// The sqlite repository is tested against throwaway database files to
// cover every result code and lifecycle transition.
package repository
