// Package httpapi is the optional JSON-over-HTTP binding for the Control
// Surface (spec's "transport is outside core scope" carve-out). It is a
// thin chi router: every handler parses its request, calls the matching
// control.Surface method, and serializes the result — no business logic
// lives here.
//
// # Basic Usage
//
//	router := httpapi.New(surface)
//	http.ListenAndServe(addr, router)
package httpapi
