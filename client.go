// Package upload provides client initialization and configuration.
//
// The Client provides a high-level interface for delivering files to
// pre-authorized storage endpoints, supporting blocking and callback-driven
// transfers with optional payload encryption, cancellation, and a uniform
// failure taxonomy.
package upload

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/upload/cryptox"
	"github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/executor"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/httpapi"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// DefaultTimeout bounds a single transfer when no custom HTTP client is
// supplied. Uploads larger than a few hundred megabytes over slow links
// may need a longer limit via WithTimeout.
const DefaultTimeout = 5 * time.Minute

// defaultUserAgent identifies the module on the wire when the caller
// does not override it.
const defaultUserAgent = "catalyst-forge-upload/1.0"

// Client represents an upload client with configurable options.
// It provides thread-safe access to transfer operations with built-in
// payload encryption, concurrency control, and failure classification.
type Client struct {
	// httpClient is the underlying HTTP transport requests go through
	httpClient httpapi.Doer

	// cryptor seals payloads when a cipher key is in effect
	cryptor uploadtypes.Cryptor

	// cipherKey is the client-wide passphrase; empty means plaintext uploads
	cipherKey string

	// executor schedules callback-driven transfers on background goroutines
	executor *executor.Executor

	// userAgent is sent with every request
	userAgent string

	// logger records transfer lifecycle events when configured
	logger *slog.Logger

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem
}

// New creates a new upload client with the provided options.
//
// Example:
//
//	client, err := upload.New(
//	    upload.WithTimeout(2*time.Minute),
//	    upload.WithCipherKey("enigma"),
//	)
func New(opts ...uploadtypes.Option) (*Client, error) {
	clientCfg := &uploadtypes.ClientConfig{
		Timeout:     DefaultTimeout,
		Concurrency: executor.DefaultConcurrency,
		UserAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	if clientCfg.Timeout < 0 {
		return nil, errors.NewError("client initialization", errors.ErrInvalidInput).
			WithMessage("timeout cannot be negative")
	}

	// Use the supplied HTTP client or build one bounded by the timeout
	var httpClient httpapi.Doer
	if clientCfg.HTTPClient != nil {
		httpClient = clientCfg.HTTPClient
	} else {
		httpClient = &http.Client{Timeout: clientCfg.Timeout}
	}

	// Use the supplied cryptor or default to AES-GCM
	cryptor := clientCfg.Cryptor
	if cryptor == nil {
		cryptor = cryptox.AESGCM{}
	}

	// Initialize filesystem - use provided one or default to OS filesystem
	var filesystem fs.Filesystem
	if clientCfg.Filesystem != nil {
		filesystem = clientCfg.Filesystem
	} else {
		// Default to OS filesystem rooted at /
		filesystem = billy.NewOSFS("/")
	}

	client := &Client{
		httpClient: httpClient,
		cryptor:    cryptor,
		cipherKey:  clientCfg.CipherKey,
		executor:   executor.New(clientCfg.Concurrency),
		userAgent:  clientCfg.UserAgent,
		logger:     clientCfg.Logger,
		fs:         filesystem,
	}

	return client, nil
}

// NewWithTransport creates a new upload client with a custom transport
// implementation. This is primarily used for testing with mocked transports.
func NewWithTransport(transport httpapi.Doer, opts ...uploadtypes.Option) *Client {
	clientCfg := &uploadtypes.ClientConfig{
		Concurrency: executor.DefaultConcurrency,
		UserAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	cryptor := clientCfg.Cryptor
	if cryptor == nil {
		cryptor = cryptox.AESGCM{}
	}

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	return &Client{
		httpClient: transport,
		cryptor:    cryptor,
		cipherKey:  clientCfg.CipherKey,
		executor:   executor.New(clientCfg.Concurrency),
		userAgent:  clientCfg.UserAgent,
		logger:     clientCfg.Logger,
		fs:         filesystem,
	}
}

// SetFilesystem sets the filesystem implementation for the client.
// This is useful for testing or when the filesystem needs to be changed after creation.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

// filesystem returns the current filesystem implementation.
func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}

// Close waits for callback-driven transfers still in flight and releases
// any resources held by the client.
func (c *Client) Close() error {
	c.executor.Wait()
	return nil
}
