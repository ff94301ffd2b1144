// Package kvstore provides the client's key-value persistence.
//
// Two implementations share the Store interface: SQLite, a file-backed store
// built on modernc.org/sqlite that survives process restarts, and Memory,
// a map guarded by a mutex for tests and for throwaway sessions. The client
// opens one durable store under the user's config directory and a second,
// short-lived one in the OS temp directory.
package kvstore
