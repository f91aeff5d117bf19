// Package pg connects the application to PostgreSQL: a pgxpool with retrying
// startup, a healthcheck closure for the health endpoint, and goose schema
// migrations bridged onto the pool.
package pg
