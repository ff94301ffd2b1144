// Package remote talks to the flashdeck HTTP API.
//
// Gateway wraps the read endpoints (cards, categories), the sync liveness
// probe and the settings endpoints. AuthClient owns the signed-in session
// and hands bearer tokens to the Gateway. Every remote failure, whatever
// its cause, surfaces as a *FetchError.
package remote
