// Package upload provides tests for the convenience upload operations.
package upload

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	uperrors "github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// TestClient_Upload tests the blocking convenience wrapper.
func TestClient_Upload(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		var captured testutil.CapturedRequest
		client := NewWithTransport(
			testutil.NewMockBuilder().WithRequestCapture(&captured).WithSuccessfulUpload().Build(),
		)

		status, err := client.Upload(
			context.Background(),
			"report.txt",
			strings.NewReader("quarterly numbers"),
			testDestination("https://bucket.example.com/"),
		)

		require.NoError(t, err)
		assert.Equal(t, uploadtypes.CategoryAcknowledgment, status.Category)

		parts := testutil.ParseMultipartBody(t, captured.Header.Get("Content-Type"), captured.Body)
		filePart := parts[len(parts)-1]
		assert.Equal(t, "report.txt", filePart.FileName)
		assert.Equal(t, "quarterly numbers", filePart.Body)
	})

	t.Run("validation failure is raised", func(t *testing.T) {
		client := NewWithTransport(testutil.NewMockBuilder().Build())

		status, err := client.Upload(
			context.Background(),
			"",
			strings.NewReader("x"),
			testDestination("https://bucket.example.com/"),
		)

		require.Error(t, err)
		assert.Nil(t, status)
		assert.True(t, uperrors.IsInvalidInput(err))
	})
}

// TestClient_UploadAsync tests the callback-driven convenience wrapper.
func TestClient_UploadAsync(t *testing.T) {
	t.Run("successful upload delivers an acknowledgment", func(t *testing.T) {
		client := NewWithTransport(testutil.NewMockBuilder().WithSuccessfulUpload().Build())
		recorder := testutil.NewCallbackRecorder()

		transfer := client.UploadAsync(
			context.Background(),
			"report.txt",
			strings.NewReader("content"),
			testDestination("https://bucket.example.com/"),
			recorder.Callback(),
		)

		require.NotNil(t, transfer)

		status := recorder.Wait(t, 2*time.Second)
		assert.False(t, status.Error)
		assert.Equal(t, uploadtypes.CategoryAcknowledgment, status.Category)
	})

	t.Run("validation failure is delivered through the callback", func(t *testing.T) {
		client := NewWithTransport(testutil.NewMockBuilder().Build())
		recorder := testutil.NewCallbackRecorder()

		transfer := client.UploadAsync(
			context.Background(),
			"report.txt",
			strings.NewReader("content"),
			testDestination("ftp://bucket.example.com/"),
			recorder.Callback(),
		)

		assert.Nil(t, transfer)

		status := recorder.Wait(t, 2*time.Second)
		assert.True(t, status.Error)
		assert.Equal(t, uploadtypes.CategoryUnknown, status.Category)
		require.NotNil(t, status.ErrorData)
		assert.True(t, uperrors.IsInvalidInput(status.ErrorData.Cause))
	})

	t.Run("validation failure with nil callback does not panic", func(t *testing.T) {
		client := NewWithTransport(testutil.NewMockBuilder().Build())

		transfer := client.UploadAsync(
			context.Background(),
			"",
			strings.NewReader("content"),
			testDestination("https://bucket.example.com/"),
			nil,
		)

		assert.Nil(t, transfer)
	})

	t.Run("many concurrent uploads all deliver", func(t *testing.T) {
		const uploads = 10

		client := NewWithTransport(&testutil.MockTransport{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				time.Sleep(10 * time.Millisecond)
				return testutil.NewResponse(req, http.StatusNoContent, ""), nil
			},
		}, WithConcurrency(3))
		recorder := testutil.NewCallbackRecorder()

		for i := 0; i < uploads; i++ {
			transfer := client.UploadAsync(
				context.Background(),
				"report.txt",
				strings.NewReader("content"),
				testDestination("https://bucket.example.com/"),
				recorder.Callback(),
			)
			require.NotNil(t, transfer)
		}

		for i := 0; i < uploads; i++ {
			status := recorder.Wait(t, 5*time.Second)
			assert.Equal(t, uploadtypes.CategoryAcknowledgment, status.Category)
		}

		require.NoError(t, client.Close())
		assert.Equal(t, uploads, recorder.Count())
	})
}

// TestClient_UploadFile tests uploads sourced from the client's filesystem.
func TestClient_UploadFile(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		setupFS     func(*billy.FS) error
		wantErr     bool
		errContains string
		wantBody    string
	}{
		{
			name: "successful file upload from memory fs",
			path: "/data/report.txt",
			setupFS: func(fs *billy.FS) error {
				if err := fs.MkdirAll("/data", 0o755); err != nil {
					return err
				}
				return fs.WriteFile("/data/report.txt", []byte("Hello from memory filesystem!"), 0o644)
			},
			wantBody: "Hello from memory filesystem!",
		},
		{
			name:        "empty path",
			path:        "",
			wantErr:     true,
			errContains: "path cannot be empty",
		},
		{
			name:        "missing file",
			path:        "/data/missing.txt",
			wantErr:     true,
			errContains: "uploadFile",
		},
		{
			name: "path points to a directory",
			path: "/data",
			setupFS: func(fs *billy.FS) error {
				return fs.MkdirAll("/data", 0o755)
			},
			wantErr:     true,
			errContains: "directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFS := billy.NewInMemoryFS()
			if tt.setupFS != nil {
				require.NoError(t, tt.setupFS(memFS), "Failed to setup filesystem")
			}

			var captured testutil.CapturedRequest
			client := NewWithTransport(
				testutil.NewMockBuilder().WithRequestCapture(&captured).WithSuccessfulUpload().Build(),
				WithFilesystem(memFS),
			)

			status, err := client.UploadFile(
				context.Background(),
				tt.path,
				testDestination("https://bucket.example.com/"),
			)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, status)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, uploadtypes.CategoryAcknowledgment, status.Category)

			parts := testutil.ParseMultipartBody(t, captured.Header.Get("Content-Type"), captured.Body)
			filePart := parts[len(parts)-1]
			assert.Equal(t, "report.txt", filePart.FileName)
			assert.Equal(t, tt.wantBody, filePart.Body)
		})
	}
}

// TestClient_UploadFile_EncryptedRoundTrip tests file uploads with the
// client-wide cipher key in effect.
func TestClient_UploadFile_EncryptedRoundTrip(t *testing.T) {
	memFS := billy.NewInMemoryFS()
	require.NoError(t, memFS.MkdirAll("/secrets", 0o755))
	require.NoError(t, memFS.WriteFile("/secrets/keys.bin", []byte("do not leak"), 0o600))

	var captured testutil.CapturedRequest
	client := NewWithTransport(
		testutil.NewMockBuilder().WithRequestCapture(&captured).WithSuccessfulUpload().Build(),
		WithFilesystem(memFS),
		WithCipherKey("vault-key"),
	)

	status, err := client.UploadFile(
		context.Background(),
		"/secrets/keys.bin",
		testDestination("https://bucket.example.com/"),
	)
	require.NoError(t, err)
	assert.False(t, status.Error)

	parts := testutil.ParseMultipartBody(t, captured.Header.Get("Content-Type"), captured.Body)
	assert.NotEqual(t, "do not leak", parts[len(parts)-1].Body)
}

// TestClient_DetectContentType tests media type detection for files and paths.
func TestClient_DetectContentType(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

	memFS := billy.NewInMemoryFS()
	require.NoError(t, memFS.MkdirAll("/files", 0o755))
	require.NoError(t, memFS.WriteFile("/files/image.dat", pngHeader, 0o644))
	require.NoError(t, memFS.WriteFile("/files/notes", []byte("plain readable text"), 0o644))

	client := NewWithTransport(
		testutil.NewMockBuilder().Build(),
		WithFilesystem(memFS),
	)

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "sniffs content regardless of extension",
			path: "/files/image.dat",
			want: "image/png",
		},
		{
			name: "sniffs text content",
			path: "/files/notes",
			want: "text/plain; charset=utf-8",
		},
		{
			name: "missing file falls back to extension",
			path: "/files/missing.json",
			want: "application/json",
		},
		{
			name: "unknown extension falls back to the default",
			path: "/files/missing.zzz",
			want: DefaultContentType,
		},
		{
			name: "directory falls back to the default",
			path: "/files",
			want: DefaultContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.DetectContentType(tt.path))
		})
	}
}

// TestClient_UploadFile_WithDetectedContentType tests composing detection with
// the per-transfer media type option.
func TestClient_UploadFile_WithDetectedContentType(t *testing.T) {
	memFS := billy.NewInMemoryFS()
	require.NoError(t, memFS.MkdirAll("/docs", 0o755))
	require.NoError(t, memFS.WriteFile("/docs/data.json", []byte(`{"ok":true}`), 0o644))

	var captured testutil.CapturedRequest
	client := NewWithTransport(
		testutil.NewMockBuilder().WithRequestCapture(&captured).WithSuccessfulUpload().Build(),
		WithFilesystem(memFS),
	)

	detected := client.DetectContentType("/docs/data.json")

	_, err := client.UploadFile(
		context.Background(),
		"/docs/data.json",
		testDestination("https://bucket.example.com/"),
		WithContentType(detected),
	)
	require.NoError(t, err)

	parts := testutil.ParseMultipartBody(t, captured.Header.Get("Content-Type"), captured.Body)
	filePart := parts[len(parts)-1]
	assert.Equal(t, "file", filePart.FormName)
	assert.Equal(t, detected, filePart.ContentType)
}
