// Package testdb opens the PostgreSQL database used by integration tests.
//
// Tests call Open to get a migrated *sql.DB and WithTx to run each case in a
// transaction that is rolled back afterwards. Without a configured database
// URL the test is skipped locally and fails in CI.
package testdb
