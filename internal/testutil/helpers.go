// Package testutil provides test helper functions.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"
)

// NewResponse builds an *http.Response suitable for returning from a mock
// transport. The originating request is attached so that callers can derive
// the origin host and TLS state the way they would from a live response.
func NewResponse(req *http.Request, statusCode int, body string) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Header:        make(http.Header),
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// ParsedPart is one decoded part of a multipart/form-data body.
type ParsedPart struct {
	FormName    string
	FileName    string
	ContentType string
	Body        string
}

// ParseMultipartBody decodes a multipart/form-data body into its parts, in
// wire order. The content type must carry the boundary parameter, as produced
// by multipart.Writer.
func ParseMultipartBody(t *testing.T, contentType string, body []byte) []ParsedPart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("failed to parse content type %q: %v", contentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %q", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	var parts []ParsedPart
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}

		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("failed to read part body: %v", err)
		}

		parts = append(parts, ParsedPart{
			FormName:    part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        string(data),
		})
	}

	return parts
}

// GenerateRandomData generates random bytes of the specified size.
// This is useful for creating test data for uploads.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}
	return data
}

// GenerateRandomReader creates an io.Reader with random data of the specified size.
// This is useful for testing stream-based uploads.
func GenerateRandomReader(size int) io.Reader {
	return bytes.NewReader(GenerateRandomData(size))
}

// GenerateTestFileName generates a unique test file name with optional prefix.
// This helps ensure test isolation by using unique names.
func GenerateTestFileName(prefix string) string {
	timestamp := time.Now().UnixNano()
	random := rand.Int63n(100000)
	if prefix != "" && !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	return fmt.Sprintf("%stest-file-%d-%d.bin", prefix, timestamp, random)
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	timestamp := time.Now().Unix()
	random := rand.Int31n(10000)
	name := fmt.Sprintf("%s-%d-%d", prefix, timestamp, random)
	// Ensure DNS compliance
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}
