// Package store defines the server's persistence interfaces and the errors
// they return, plus a transaction helper shared by every database/sql backed
// store (the Postgres stores on the server and the SQLite key-value store on
// the client).
package store
