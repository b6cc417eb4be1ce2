// Package crawler implements the crawl synchronization engine: it drives
// a browser page, waits for the web app's background GraphQL responses,
// detects redirect-based deauthentication, and for list views drives
// keyboard-triggered infinite scroll until the server declares the
// timeline finished.
package crawler

import "context"

// KeyEnd is the keyboard key sent to trigger the page's lazy loading.
const KeyEnd = "End"

// ResponseEvent is one intercepted network response. Body suspends until
// the browser hands over the response bytes.
type ResponseEvent struct {
	URL  string
	Body func(ctx context.Context) ([]byte, error)
}

// Page is the minimal capability the engine needs from the
// browser-automation runtime. Session/cookie state is configured by the
// caller before a crawl starts; the engine never touches it.
//
// Listener registration returns a release handle. Crawlers release every
// handle on every exit path so a reused page handle does not accumulate
// stale callbacks.
type Page interface {
	// Navigate loads url and suspends until navigation settles.
	Navigate(ctx context.Context, url string) error

	// OnResponse registers a handler invoked for every network response
	// the page emits, in emission order.
	OnResponse(handler func(ResponseEvent)) (release func())

	// OnFrameNavigated registers a handler invoked when the main frame
	// navigates, with the new URL.
	OnFrameNavigated(handler func(url string)) (release func())

	// SendKey simulates one keystroke and suspends until the browser
	// acknowledges it.
	SendKey(ctx context.Context, key string) error
}
