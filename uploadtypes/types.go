// Package uploadtypes provides shared type definitions for the upload module.
package uploadtypes

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// Operation identifies the remote operation a status or error refers to.
type Operation string

// Predefined operations
const (
	// OperationFileUpload is the multipart form upload of a single file.
	OperationFileUpload Operation = "file-upload"
)

// Category is the coarse classification of an upload outcome. Callers use
// it to decide whether to retry, re-authenticate, or give up.
type Category string

// Predefined outcome categories
const (
	// Success.

	// CategoryAcknowledgment indicates the endpoint accepted the upload.
	CategoryAcknowledgment Category = "ACKNOWLEDGMENT"

	// Request rejections.

	// CategoryAccessDenied indicates the endpoint rejected the request with 401 or 403.
	CategoryAccessDenied Category = "ACCESS_DENIED"

	// CategoryBadRequest indicates the endpoint rejected the request with 400,
	// or the request failed for a reason with no more specific classification.
	CategoryBadRequest Category = "BAD_REQUEST"

	// Transport failures.

	// CategoryTimeout indicates the request exceeded its time limit.
	CategoryTimeout Category = "TIMEOUT"

	// CategoryDisconnect indicates the destination host could not be reached,
	// whether through name resolution, socket, or TLS failure.
	CategoryDisconnect Category = "DISCONNECT"

	// Caller-driven.

	// CategoryCancelled indicates the caller cancelled the transfer mid-flight.
	CategoryCancelled Category = "CANCELLED"

	// Fallback.

	// CategoryUnknown indicates an outcome that fits no other category.
	CategoryUnknown Category = "UNKNOWN"
)

// FormField is one key/value pair contributed to a multipart form body.
// Field order is significant: storage providers require the object-key
// field to precede the file content.
type FormField struct {
	// Key is the form field name. Must be non-empty.
	Key string

	// Value is the literal field value.
	Value string
}

// Destination describes a pre-authorized upload endpoint: where to post
// the form and which fields the issuer requires.
type Destination struct {
	// URL is the endpoint the multipart form is posted to.
	URL string

	// KeyField is the mandatory object-key field. It is always written
	// first in the assembled body, and any entry in Fields sharing its
	// key is dropped.
	KeyField FormField

	// Fields holds the remaining form fields in the order the issuer
	// returned them. A Content-Type entry, when present, also selects
	// the media type of the file part.
	Fields []FormField
}

// Request describes one file upload. It is immutable once constructed;
// Body is consumed at most once, by the transfer that owns the request.
type Request struct {
	// FileName is the name recorded in the file part of the form.
	FileName string

	// Body is the payload source. It is drained exactly once during
	// request preparation and must not be shared with other transfers.
	Body io.Reader

	// CipherKey encrypts the payload before upload when non-empty.
	// It overrides the client-wide default key for this request only.
	CipherKey string

	// Destination is the pre-authorized endpoint the payload goes to.
	Destination Destination
}

// Cryptor transforms a plaintext stream into ciphertext bytes. It is the
// boundary behind which key derivation and the cipher itself live;
// implementations must drain r exactly once.
type Cryptor interface {
	Encrypt(key string, r io.Reader) ([]byte, error)
}

// Status is the outcome of one transfer attempt. Both success and
// failure are reported through it; a callback-driven transfer receives
// exactly one Status.
type Status struct {
	// Error reports whether the transfer failed.
	Error bool

	// ErrorData carries failure details. Nil on success.
	ErrorData *ErrorData

	// StatusCode is the HTTP status the endpoint answered with.
	// Zero when the failure produced no response.
	StatusCode int

	// TLSEnabled reports whether the executed request traveled over TLS.
	// Only meaningful when a response was received.
	TLSEnabled bool

	// Origin is the host the executed request was sent to. Empty when
	// the failure produced no response.
	Origin string

	// Operation identifies the remote operation this outcome belongs to.
	Operation Operation

	// Category is the resolved outcome classification.
	Category Category

	// AffectedCall is the executed HTTP request this outcome belongs
	// to, for diagnostic correlation. Nil when the transfer never
	// produced a request.
	AffectedCall *http.Request
}

// ErrorData describes why a transfer failed.
type ErrorData struct {
	// Message is the response body text when a response exists, or the
	// underlying error message otherwise. Unreadable bodies are
	// reported as "N/A".
	Message string

	// Cause is the underlying error.
	Cause error
}

// Callback receives the outcome of a callback-driven transfer. It runs
// on a transfer-managed goroutine, never the caller's, and is invoked
// at most once per transfer.
type Callback func(status *Status)

// Configuration types for functional options

// ClientConfig holds configuration for the upload client.
type ClientConfig struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	CipherKey   string
	Cryptor     Cryptor
	Concurrency int
	UserAgent   string
	Filesystem  fs.Filesystem // Filesystem abstraction for file-path uploads
	Logger      *slog.Logger
}

// TransferConfig holds per-transfer configuration via functional options.
type TransferConfig struct {
	CipherKey         string
	DisableEncryption bool
	ContentType       string
}

// Option is a functional option for configuring the upload client.
type (
	Option func(*ClientConfig)
	// TransferOption is a functional option for configuring a single transfer.
	TransferOption func(*TransferConfig)
)
