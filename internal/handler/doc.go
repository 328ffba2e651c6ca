// Package handler implements HTTP request handlers for the kanban API.
//
// This package provides the HTTP layer for the board: users, tags and work
// items, plus whole-board import and export.
//
// # Handlers
//
// BoardHandler maps every BoardService operation onto a REST route.
// NewRouter registers those routes together with the SSE hub and wraps
// them in the middleware chain.
//
// Middleware provides panic recovery, request ids, request logging and CORS
// support.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// # Response Format
//
// Repository results map onto status codes: Created 201, Updated 200,
// Deleted 204, NotFound 404, BadRequest 400, Conflict 409. Create responses
// carry the new id, and a conflicting create carries the id of the record
// that already holds the name.
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /events endpoint streams change events (user_created,
// work_item_updated, ...) as they are published.
package handler
