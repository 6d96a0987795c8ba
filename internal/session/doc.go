// Package session defines the durable model of one pipeline run: the
// originating generation request, the per-stage results, the aggregate
// progress and status, and the final artifact. It also provides the
// Store contract with a SQLite implementation and an in-memory fallback
// used when persistence is unavailable.
package session
