// Package upload provides the main client convenience operations.
package upload

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	uperrors "github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// Upload posts content from an io.Reader to a pre-authorized destination
// and blocks until the endpoint answers.
//
// This is a convenience wrapper that builds a single-use Transfer and
// executes it on the calling goroutine. Use NewTransfer directly when
// the transfer needs to be cancelled or executed asynchronously.
//
// Returns:
//   - *Status: The acknowledgment, including the endpoint's status code
//   - error: Returns an error if validation, preparation, or the upload fails
//
// Errors:
//   - ErrInvalidInput: If the file name, destination, or content is malformed
//   - ErrPayload: If the content cannot be read or encrypted
//   - ErrTransport: If the request fails before a response arrives
//   - ErrRejected: If the endpoint answers with a non-2xx status
//
// Example:
//
//	file, err := os.Open("data.txt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	status, err := client.Upload(ctx, "data.txt", file, dest,
//	    upload.WithContentType("text/plain"),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded with status %d\n", status.StatusCode)
func (c *Client) Upload(
	ctx context.Context,
	fileName string,
	content io.Reader,
	dest uploadtypes.Destination,
	opts ...uploadtypes.TransferOption,
) (*uploadtypes.Status, error) {
	transfer, err := c.NewTransfer(uploadtypes.Request{
		FileName:    fileName,
		Body:        content,
		Destination: dest,
	}, opts...)
	if err != nil {
		return nil, err
	}

	return transfer.Execute(ctx)
}

// UploadAsync posts content from an io.Reader to a pre-authorized
// destination and reports the outcome through callback.
//
// Like Transfer.ExecuteAsync it never fails directly: requests rejected
// during validation are delivered through the callback as a failure
// outcome. The returned Transfer can be used to cancel the upload; it
// is nil when the request never reached execution.
//
// Example:
//
//	transfer := client.UploadAsync(ctx, "data.txt", file, dest, func(status *uploadtypes.Status) {
//	    if status.Error {
//	        log.Printf("upload failed: %v", status.ErrorData.Cause)
//	        return
//	    }
//	    log.Printf("uploaded with status %d", status.StatusCode)
//	})
func (c *Client) UploadAsync(
	ctx context.Context,
	fileName string,
	content io.Reader,
	dest uploadtypes.Destination,
	callback uploadtypes.Callback,
	opts ...uploadtypes.TransferOption,
) *Transfer {
	transfer, err := c.NewTransfer(uploadtypes.Request{
		FileName:    fileName,
		Body:        content,
		Destination: dest,
	}, opts...)
	if err != nil {
		if callback != nil {
			callback(&uploadtypes.Status{
				Error:     true,
				ErrorData: &uploadtypes.ErrorData{Message: err.Error(), Cause: err},
				Operation: uploadtypes.OperationFileUpload,
				Category:  uploadtypes.CategoryUnknown,
			})
		}
		return nil
	}

	transfer.ExecuteAsync(ctx, callback)
	return transfer
}

// UploadFile uploads a file from the client's filesystem to a
// pre-authorized destination and blocks until the endpoint answers.
//
// This is a convenience method that handles file opening and uses the
// file's base name as the recorded name. The media type is taken from
// the destination's form fields as usual; pair it with
// DetectContentType and WithContentType to send a sniffed type.
//
// Returns:
//   - *Status: The acknowledgment, including the endpoint's status code
//   - error: Returns an error if the file cannot be read or the upload fails
//
// Errors:
//   - ErrInvalidInput: If the destination is malformed or the path is empty or a directory
//   - Filesystem errors if the file cannot be opened
//   - ErrTransport / ErrRejected as for Upload
//
// Example:
//
//	status, err := client.UploadFile(ctx, "/path/to/report.pdf", dest,
//	    upload.WithContentType(client.DetectContentType("/path/to/report.pdf")),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Uploaded with status %d\n", status.StatusCode)
func (c *Client) UploadFile(
	ctx context.Context,
	path string,
	dest uploadtypes.Destination,
	opts ...uploadtypes.TransferOption,
) (*uploadtypes.Status, error) {
	if path == "" {
		return nil, uperrors.NewError("uploadFile", uperrors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}

	fsys := c.filesystem()

	// Check if file exists and get its info
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, uperrors.NewError("uploadFile", err)
	}
	if info.IsDir() {
		return nil, uperrors.NewError("uploadFile", uperrors.ErrInvalidInput).
			WithMessage("path points to a directory, not a file")
	}

	// Open the file
	file, err := fsys.Open(path)
	if err != nil {
		return nil, uperrors.NewError("uploadFile", err)
	}
	defer file.Close()

	return c.Upload(ctx, filepath.Base(path), file, dest, opts...)
}

// DetectContentType determines a file's media type using mimetype where
// possible, falling back to extension-based lookup when the path is not
// a readable file.
//
// Detection is never applied implicitly: a transfer trusts the
// destination's Content-Type form field and otherwise falls back to
// DefaultContentType. Pass the detected value through WithContentType
// to use it.
func (c *Client) DetectContentType(path string) string {
	fsys := c.filesystem()

	// If the path points to an existing file, prefer sniffing its content.
	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		// Fall back to extension-based detection
		return c.detectContentTypeFromExtension(path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		// Fall back to extension-based detection
		return c.detectContentTypeFromExtension(path)
	}
	defer file.Close()

	// Read first 512 bytes for content detection
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if n > 0 {
		if mt := mimetype.Detect(buf[:n]); mt != nil {
			return mt.String()
		}
	}

	// Fall back to extension-based detection
	return c.detectContentTypeFromExtension(path)
}

// detectContentTypeFromExtension detects content type from file extension
func (c *Client) detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
