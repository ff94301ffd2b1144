// Package mocks provides centralized mock implementations for testing.
//
// Mocks follow one pattern: a function field per interface method, with a
// simple default behavior when the field is nil. Call counters are safe for
// concurrent use because the offline coordinator calls the gateway from
// several goroutines.
//
// Usage:
//
//	gw := &mocks.MockGateway{
//	    FetchCardsFn: func(ctx context.Context) ([]domain.Card, error) {
//	        return nil, &remote.FetchError{Op: "fetch cards", StatusCode: 500}
//	    },
//	}
package mocks
