// Package store defines the authorization store: the narrow read/update
// interface through which the edge consults the relational database, and the
// records that cross it.
//
// The store is the only shared mutable resource in the subsystem. All methods
// take a context and are safe for concurrent use; the Postgres implementation
// rides on a pgxpool. The edge never holds locks across store calls.
package store
