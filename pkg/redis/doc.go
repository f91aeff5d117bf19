// Package redis connects the application to Redis with retrying startup and
// provides a healthcheck closure. Redis backs the edge rate limiter only; no
// authorization state is cached there.
package redis
