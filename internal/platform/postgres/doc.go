// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. It also owns the schema: the goose
// migrations under migrations/ are embedded in the binary and applied by
// Migrate at server start.
package postgres
