// Package form builds the multipart/form-data payloads sent to
// pre-authorized upload endpoints.
//
// Storage providers that hand out browser-style POST policies are strict
// about field placement: the policy key field must come first, the file
// content must come last, and everything the caller supplies sits in
// between in its original order. This package centralizes that layout so
// transfers cannot get it wrong.
package form

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

const (
	// FilePartName is the form part name endpoints expect the file content under.
	FilePartName = "file"

	// ContentTypeFieldKey is the form field key that carries the media type
	// for the file part.
	ContentTypeFieldKey = "Content-Type"

	// DefaultContentType is the media type used when the caller supplies
	// none, or supplies one that does not parse.
	DefaultContentType = "application/octet-stream"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Build assembles the multipart body for an upload.
//
// The key field is written first, the remaining fields follow in the
// order given, and the file part closes the form. Fields whose key
// matches the key field's key exactly are dropped so the caller cannot
// override the object key granted by the endpoint.
//
// It returns the encoded body and the Content-Type header value
// (including the boundary) for the request.
func Build(
	keyField uploadtypes.FormField,
	fields []uploadtypes.FormField,
	fileName string,
	payload []byte,
) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(keyField.Key, keyField.Value); err != nil {
		return nil, "", fmt.Errorf("writing key field %q: %w", keyField.Key, err)
	}

	for _, field := range fields {
		if field.Key == keyField.Key {
			continue
		}
		if err := w.WriteField(field.Key, field.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %q: %w", field.Key, err)
		}
	}

	part, err := createFilePart(w, fileName, MediaType(fields))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("writing file content: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

// MediaType determines the media type for the file part from the
// caller-supplied form fields.
//
// The first field whose key equals "Content-Type" (case-insensitive)
// wins. A value that does not parse as a media type falls back to
// DefaultContentType without consulting later fields.
func MediaType(fields []uploadtypes.FormField) string {
	for _, field := range fields {
		if !strings.EqualFold(field.Key, ContentTypeFieldKey) {
			continue
		}
		if _, _, err := mime.ParseMediaType(field.Value); err != nil {
			return DefaultContentType
		}
		return field.Value
	}
	return DefaultContentType
}

// createFilePart opens the file part with an explicit media type.
// multipart.Writer.CreateFormFile hardcodes application/octet-stream,
// so the headers are assembled by hand.
func createFilePart(w *multipart.Writer, fileName, mediaType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename="%s"`, FilePartName, quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	return part, nil
}
