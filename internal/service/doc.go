// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features:
// registration and login, task management scoped by ownership, default
// administrator seeding and the admin dashboard.
//
// Services receive dependencies through constructor injection and depend on
// store interfaces, never on a specific database. Authorization decisions are
// delegated to internal/service/authz; services only decide when to ask.
package service
