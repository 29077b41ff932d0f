// Package upload provides comprehensive tests for client initialization and configuration.
package upload

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	uperrors "github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// TestClient_New tests the New() constructor with default configuration.
func TestClient_New(t *testing.T) {
	tests := []struct {
		name    string
		opts    []uploadtypes.Option
		wantErr bool
	}{
		{
			name:    "default configuration",
			opts:    nil,
			wantErr: false,
		},
		{
			name:    "with timeout option",
			opts:    []uploadtypes.Option{WithTimeout(30 * time.Second)},
			wantErr: false,
		},
		{
			name:    "with multiple options",
			opts:    []uploadtypes.Option{WithCipherKey("secret"), WithConcurrency(3)},
			wantErr: false,
		},
		{
			name:    "negative timeout",
			opts:    []uploadtypes.Option{WithTimeout(-time.Second)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, uperrors.IsInvalidInput(err))
				assert.Nil(t, client)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.httpClient)
			assert.NotNil(t, client.cryptor)
			assert.NotNil(t, client.executor)
			assert.NotNil(t, client.fs)
		})
	}
}

// TestClient_New_WithDefaults tests that default values are applied correctly.
func TestClient_New_WithDefaults(t *testing.T) {
	client, err := New()
	require.NoError(t, err)
	require.NotNil(t, client)

	httpClient, ok := client.httpClient.(*http.Client)
	require.True(t, ok, "default transport should be a net/http client")
	assert.Equal(t, DefaultTimeout, httpClient.Timeout)

	assert.Equal(t, defaultUserAgent, client.userAgent)
	assert.Empty(t, client.cipherKey)
	assert.Nil(t, client.logger)
}

// TestClient_New_ConcurrentSafety tests that client creation is safe for concurrent use.
func TestClient_New_ConcurrentSafety(t *testing.T) {
	const numGoroutines = 10
	const numCreations = 50

	var wg sync.WaitGroup
	clients := make([]*Client, 0, numGoroutines*numCreations)
	var clientsMu sync.Mutex

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numCreations; j++ {
				client, err := New(WithTimeout(time.Minute))
				assert.NoError(t, err)
				assert.NotNil(t, client)

				clientsMu.Lock()
				clients = append(clients, client)
				clientsMu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, clients, numGoroutines*numCreations)
}

// TestNewWithTransport tests the transport-injecting constructor.
func TestNewWithTransport(t *testing.T) {
	mock := testutil.NewMockBuilder().Build()
	client := NewWithTransport(mock)

	require.NotNil(t, client)
	assert.Same(t, mock, client.httpClient.(*testutil.MockTransport))
	assert.Equal(t, defaultUserAgent, client.userAgent)
	assert.NotNil(t, client.cryptor)
	assert.NotNil(t, client.executor)
}

// TestWithHTTPClient tests the WithHTTPClient option.
func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 7 * time.Second}

	client, err := New(WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, client.httpClient.(*http.Client))
}

// TestWithTimeout tests the WithTimeout option.
func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{"zero timeout means no limit", 0},
		{"30 second timeout", 30 * time.Second},
		{"5 minute timeout", 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(WithTimeout(tt.timeout))
			require.NoError(t, err)

			httpClient, ok := client.httpClient.(*http.Client)
			require.True(t, ok)
			assert.Equal(t, tt.timeout, httpClient.Timeout)
		})
	}
}

// TestWithCipherKey tests the WithCipherKey option.
func TestWithCipherKey(t *testing.T) {
	client, err := New(WithCipherKey("enigma"))
	require.NoError(t, err)
	assert.Equal(t, "enigma", client.cipherKey)
}

// TestWithCryptor tests the WithCryptor option.
func TestWithCryptor(t *testing.T) {
	custom := stubCryptor{}

	client, err := New(WithCryptor(custom))
	require.NoError(t, err)
	assert.Equal(t, custom, client.cryptor)
}

// stubCryptor is a no-op Cryptor for option tests.
type stubCryptor struct{}

func (stubCryptor) Encrypt(_ string, r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}

// TestWithConcurrency tests the WithConcurrency option.
func TestWithConcurrency(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		want        int
	}{
		{"concurrency 1", 1, 1},
		{"concurrency 20", 20, 20},
		{"invalid concurrency 0 keeps the default", 0, 5},
		{"invalid concurrency -1 keeps the default", -1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(WithConcurrency(tt.concurrency))
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.executor.GetStats().MaxConcurrency)
		})
	}
}

// TestWithUserAgent tests the WithUserAgent option.
func TestWithUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"custom user agent", "my-service/2.0", "my-service/2.0"},
		{"empty value keeps the default", "", defaultUserAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(WithUserAgent(tt.userAgent))
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.userAgent)
		})
	}
}

// TestWithLogger tests the WithLogger option.
func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := New(WithLogger(logger))
	require.NoError(t, err)
	assert.Same(t, logger, client.logger)
}

// TestWithFilesystem tests the WithFilesystem option.
func TestWithFilesystem(t *testing.T) {
	memFS := billy.NewInMemoryFS()

	client, err := New(WithFilesystem(memFS))
	require.NoError(t, err)
	assert.Equal(t, memFS, client.filesystem())
}

// TestClient_SetFilesystem tests swapping the filesystem after creation.
func TestClient_SetFilesystem(t *testing.T) {
	client, err := New()
	require.NoError(t, err)

	memFS := billy.NewInMemoryFS()
	client.SetFilesystem(memFS)
	assert.Equal(t, memFS, client.filesystem())
}

// TestClient_Close tests that Close drains in-flight async transfers.
func TestClient_Close(t *testing.T) {
	client := NewWithTransport(testutil.NewMockBuilder().Build())
	require.NoError(t, client.Close())
}

// TestOptionOrderIndependence tests that option order doesn't affect the result.
func TestOptionOrderIndependence(t *testing.T) {
	client1, err := New(
		WithCipherKey("secret"),
		WithConcurrency(3),
		WithUserAgent("svc/1.0"),
	)
	require.NoError(t, err)

	client2, err := New(
		WithUserAgent("svc/1.0"),
		WithConcurrency(3),
		WithCipherKey("secret"),
	)
	require.NoError(t, err)

	assert.Equal(t, client1.cipherKey, client2.cipherKey)
	assert.Equal(t, client1.userAgent, client2.userAgent)
	assert.Equal(t,
		client1.executor.GetStats().MaxConcurrency,
		client2.executor.GetStats().MaxConcurrency,
	)
}

// BenchmarkClient_New benchmarks client creation performance.
func BenchmarkClient_New(b *testing.B) {
	for i := 0; i < b.N; i++ {
		client, err := New(WithTimeout(time.Minute))
		if err != nil {
			b.Fatal(err)
		}
		_ = client
	}
}
