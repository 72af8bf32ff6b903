// Package store provides core.RunStore implementations: PostgreSQL for shared
// deployments and an in-memory store used when no database is configured.
package store
