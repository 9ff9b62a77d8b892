// Package database manages the SQLite connection backing the audit trail.
//
// The catalog itself lives in a JSON document (see internal/catalog); the
// database only records who changed what and when. SQLite is opened with
// WAL mode and a busy timeout, and schema changes are applied from
// embedded migration files at startup.
package database
