// Package sqlite implements driven.PersistentStore on an SQLite database
// using the pure-Go modernc.org/sqlite driver. The latest export document
// and the search cache live in a single key-value table.
package sqlite
