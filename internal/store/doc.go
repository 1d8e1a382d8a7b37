// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Implementations must report missing rows with the entity-specific
// not-found errors and unique violations with the duplicate errors defined
// here, so callers can classify failures with errors.Is.
package store
