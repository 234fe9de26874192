// Package storage is the console's persistent key/value storage: a single
// SQLite table shared by every console process that opens the same database
// file. It plays the role browser localStorage plays for a web dashboard,
// including the lack of cross-process coordination.
//
// Open creates the file (and its directory), applies the embedded goose
// migrations and returns the handle; NewSQLiteStore wraps a handle (or a
// transaction) as a Store; Watcher reports changes to the database file made
// by other processes.
package storage
