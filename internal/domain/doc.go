// Package domain contains the flashcard entities shared by the server and the
// offline client: cards, categories, users, notification settings, the sync
// summary and the in-progress study session. Types here carry validation but
// no persistence or transport concerns.
package domain
