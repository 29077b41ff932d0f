// Package httpapi defines the interface for the HTTP transport used by
// upload operations. This abstraction allows for testing with mock
// implementations and swapping the underlying client without changing
// the transfer logic.
package httpapi

import "net/http"

// Doer is the interface covering the single HTTP operation transfers
// perform. It matches the Do method of *http.Client, which is the
// production implementation.
type Doer interface {
	// Do sends an HTTP request and returns the HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Ensure *http.Client implements the Doer interface.
var _ Doer = (*http.Client)(nil)
