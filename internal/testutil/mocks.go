// Package testutil provides test utilities and mocks for upload operations.
// This package is internal and should only be used for testing within the upload module.
package testutil

import (
	"net/http"

	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/httpapi"
)

// MockTransport is a mock implementation of the httpapi.Doer interface for
// testing. The behavior of Do is customized through the DoFunc field.
type MockTransport struct {
	DoFunc func(*http.Request) (*http.Response, error)
}

// Do executes the configured DoFunc, or acknowledges the request with
// 204 No Content when no function is set.
func (m *MockTransport) Do(req *http.Request) (*http.Response, error) {
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return NewResponse(req, http.StatusNoContent, ""), nil
}

// Ensure MockTransport implements the httpapi.Doer interface
var _ httpapi.Doer = (*MockTransport)(nil)
