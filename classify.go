package upload

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"

	uperrors "github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// unreadableBody is reported in place of a response body that could not
// be read. The body is the only diagnostic the endpoint gives back, so
// an unreadable one is flagged rather than silently dropped.
const unreadableBody = "N/A"

// failureClass pairs a transport error predicate with the sentinel and
// outcome category it maps to.
type failureClass struct {
	match    func(error) bool
	sentinel error
	category uploadtypes.Category
}

// failureClasses is consulted in order; the first matching class wins.
// Name resolution is probed first because resolver errors also look
// like dial errors, and timeouts are probed before connection faults
// because Go wraps dial timeouts in the same error type as refused
// connections.
var failureClasses = []failureClass{
	{isHostLookupFailure, uperrors.ErrHostLookup, uploadtypes.CategoryDisconnect},
	{isTimeoutFailure, uperrors.ErrTimeout, uploadtypes.CategoryTimeout},
	{isConnectionFailure, uperrors.ErrConnection, uploadtypes.CategoryDisconnect},
}

// classifyFailure resolves a transport error that produced no response
// into its sentinel and outcome category. The fallback for unmatched
// errors is decided by the caller, which knows whether the transfer was
// cancelled.
func classifyFailure(err error) (sentinel error, category uploadtypes.Category, ok bool) {
	for _, class := range failureClasses {
		if class.match(err) {
			return class.sentinel, class.category, true
		}
	}
	return nil, "", false
}

// isHostLookupFailure reports whether the destination host could not be
// resolved.
func isHostLookupFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isTimeoutFailure reports whether the request ran out of time, either
// through the HTTP client's own limit or a context deadline.
func isTimeoutFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectionFailure reports whether the socket or TLS layer failed.
func isConnectionFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	return errors.As(err, &certErr)
}

// categoryForStatusCode maps a non-success HTTP status to its outcome
// category.
func categoryForStatusCode(statusCode int) uploadtypes.Category {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return uploadtypes.CategoryAccessDenied
	case http.StatusBadRequest:
		return uploadtypes.CategoryBadRequest
	default:
		return uploadtypes.CategoryUnknown
	}
}

// isSuccess reports whether the status code is in the 2xx range.
func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// readBodyText extracts the response body for diagnostics.
func readBodyText(body io.Reader) string {
	text, err := io.ReadAll(body)
	if err != nil {
		return unreadableBody
	}
	return string(text)
}

// requestOrigin reports the host and TLS mode of the request a response
// was produced by. Redirects can leave these different from the
// configured destination.
func requestOrigin(resp *http.Response) (origin string, tlsEnabled bool) {
	if resp.Request == nil || resp.Request.URL == nil {
		return "", false
	}
	return resp.Request.URL.Hostname(), resp.Request.URL.Scheme == "https"
}
