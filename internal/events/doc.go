// Package events provides a small in-process publish/subscribe mechanism.
//
// Components emit events without knowing who listens. The connectivity
// monitor publishes online/offline transitions and sync status changes; the
// offline data coordinator and the CLI subscribe to them.
//
// The primary components are:
// - Event: a typed envelope with a JSON payload
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
package events
