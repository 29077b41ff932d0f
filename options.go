// Package upload provides functional options for configuring client behavior.
// These options follow the functional options pattern for clean, composable configuration.
package upload

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/form"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts, proxies,
// and TLS settings. When supplied, WithTimeout is ignored; configure the
// timeout on the client itself.
func WithHTTPClient(client *http.Client) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the timeout for individual transfers.
// Default is DefaultTimeout. Set to 0 to disable the timeout entirely.
func WithTimeout(timeout time.Duration) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithCipherKey sets a client-wide passphrase; every transfer encrypts its
// payload under it unless overridden per transfer.
// Default is no encryption.
func WithCipherKey(cipherKey string) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.CipherKey = cipherKey
	}
}

// WithCryptor sets a custom encryption implementation.
// Only consulted when a cipher key is in effect. Default is AES-256-GCM.
func WithCryptor(cryptor uploadtypes.Cryptor) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.Cryptor = cryptor
	}
}

// WithConcurrency sets the maximum number of callback-driven transfers
// executing at once. Default is 5 concurrent transfers.
func WithConcurrency(concurrency int) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		if concurrency > 0 {
			c.Concurrency = concurrency
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		if userAgent != "" {
			c.UserAgent = userAgent
		}
	}
}

// WithFilesystem sets a custom filesystem implementation for file operations.
// This allows using in-memory filesystems for testing or virtual filesystems.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger sets a structured logger for transfer lifecycle events.
// If not specified, the client stays silent.
func WithLogger(logger *slog.Logger) uploadtypes.Option {
	return func(c *uploadtypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithTransferCipherKey overrides the client-wide cipher key for a single
// transfer.
func WithTransferCipherKey(cipherKey string) uploadtypes.TransferOption {
	return func(c *uploadtypes.TransferConfig) {
		c.CipherKey = cipherKey
	}
}

// WithoutEncryption sends a single transfer's payload in plaintext even
// when the client carries a cipher key.
func WithoutEncryption() uploadtypes.TransferOption {
	return func(c *uploadtypes.TransferConfig) {
		c.DisableEncryption = true
	}
}

// WithContentType sets the media type for a single transfer's file part.
// It takes precedence over any Content-Type form field the endpoint
// supplied.
func WithContentType(contentType string) uploadtypes.TransferOption {
	return func(c *uploadtypes.TransferConfig) {
		if contentType != "" {
			c.ContentType = contentType
		}
	}
}

// DefaultContentType is the media type used when neither the caller nor
// the endpoint's form fields specify one.
const DefaultContentType = form.DefaultContentType
