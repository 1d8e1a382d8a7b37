// Package events publishes task lifecycle events to in-process handlers.
//
// The task service emits an event after each successful create, update and
// delete. Handlers run synchronously in registration order; the bundled
// AuditLogHandler writes one structured log line per event.
package events
