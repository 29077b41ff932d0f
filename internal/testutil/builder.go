// Package testutil provides a builder for creating mock transports.
package testutil

import (
	"io"
	"net/http"
)

// CapturedRequest holds a copy of the request a mock transport received,
// with the body fully drained so tests can inspect the submitted form.
type CapturedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// MockBuilder provides a fluent interface for building MockTransport instances.
type MockBuilder struct {
	statusCode int
	body       string
	header     http.Header
	err        error
	captured   *CapturedRequest
}

// NewMockBuilder creates a new MockBuilder that acknowledges requests with
// 204 No Content until configured otherwise.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		statusCode: http.StatusNoContent,
		header:     make(http.Header),
	}
}

// Build returns the configured MockTransport.
func (b *MockBuilder) Build() *MockTransport {
	return &MockTransport{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			if b.captured != nil {
				body, err := io.ReadAll(req.Body)
				if err != nil {
					return nil, err
				}
				b.captured.Method = req.Method
				b.captured.URL = req.URL.String()
				b.captured.Header = req.Header.Clone()
				b.captured.Body = body
			}
			if b.err != nil {
				return nil, b.err
			}
			resp := NewResponse(req, b.statusCode, b.body)
			for key, values := range b.header {
				resp.Header[key] = values
			}
			return resp, nil
		},
	}
}

// WithStatus configures the response status code.
func (b *MockBuilder) WithStatus(statusCode int) *MockBuilder {
	b.statusCode = statusCode
	return b
}

// WithBody configures the response body.
func (b *MockBuilder) WithBody(body string) *MockBuilder {
	b.body = body
	return b
}

// WithHeader adds a response header.
func (b *MockBuilder) WithHeader(key, value string) *MockBuilder {
	b.header.Set(key, value)
	return b
}

// WithError configures the transport to fail with the given error instead of
// producing a response.
func (b *MockBuilder) WithError(err error) *MockBuilder {
	b.err = err
	return b
}

// WithRequestCapture records each received request into the given sink,
// draining its body. The last request wins.
func (b *MockBuilder) WithRequestCapture(captured *CapturedRequest) *MockBuilder {
	b.captured = captured
	return b
}

// WithSuccessfulUpload configures the transport to acknowledge uploads the way
// object stores acknowledge form POSTs.
func (b *MockBuilder) WithSuccessfulUpload() *MockBuilder {
	b.statusCode = http.StatusNoContent
	b.body = ""
	return b
}

// WithAccessDenied configures the transport to reject uploads with an
// object-store style access denied response.
func (b *MockBuilder) WithAccessDenied() *MockBuilder {
	b.statusCode = http.StatusForbidden
	b.body = `<?xml version="1.0" encoding="UTF-8"?>` +
		`<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`
	b.header.Set("Content-Type", "application/xml")
	return b
}
