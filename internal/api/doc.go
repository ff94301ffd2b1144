// Package api is the server's HTTP surface: authentication, the card and
// category listings the offline client caches, the synchronization probe and
// notification settings. Handlers decode and validate requests, call the
// stores and translate their errors into status codes and safe messages.
package api
