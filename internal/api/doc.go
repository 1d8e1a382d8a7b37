// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between HTTP clients and the
// internal services: handlers decode and validate input, call a service with
// the caller's identity, and translate results and errors into the JSON
// envelope defined in package shared.
package api
