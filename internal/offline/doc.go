// Package offline groups the client's offline-aware data layer.
//
// The subpackages, leaf to root:
//
//   - cache: the durable card/category snapshot
//   - connectivity: the online flag and sync status machine
//   - coordinator: decides per load cycle between remote and cache
//   - progress: persists an interrupted study session
package offline
