// Package postgres provides PostgreSQL implementations of the store
// interfaces, plus the embedded schema migrations. All implementations work
// against the store.DBTX abstraction so they can run on a connection or
// inside a transaction.
package postgres
