package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	uperrors "github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/form"
	"github.com/input-output-hk/catalyst-forge-libs/upload/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// transferState tracks where a transfer is in its lifecycle.
type transferState int

const (
	// stateIdle means no execution has been attempted yet.
	stateIdle transferState = iota

	// statePrepared means the payload is drained and the body assembled.
	statePrepared

	// stateInFlight means the request is on the wire.
	stateInFlight

	// stateDone means an outcome was produced.
	stateDone

	// stateCancelled means the caller aborted the in-flight call.
	stateCancelled
)

// httpCall is the in-flight call handle: the prepared request plus the
// cancellation hook for the context it runs under.
type httpCall struct {
	req       *http.Request
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// Transfer delivers one payload to one pre-authorized destination. It
// is single-use: preparation consumes the payload stream, so a transfer
// that has started executing refuses to run again.
//
// A transfer supports two execution styles over the same call handle:
// Execute blocks the calling goroutine, ExecuteAsync reports through a
// callback. Cancel aborts whichever one is in flight.
type Transfer struct {
	client *Client

	// fileName is recorded in the file part of the form
	fileName string

	// body is the payload source, drained exactly once
	body io.Reader

	// cipherKey is the resolved passphrase; empty means plaintext
	cipherKey string

	// dest is the transfer's private copy of the destination
	dest uploadtypes.Destination

	// mu protects state and call
	mu    sync.Mutex
	state transferState
	call  *httpCall
}

// NewTransfer builds the single-use transfer for one upload request.
// It validates the request, applies per-transfer options, and resolves
// the effective cipher key from the request and the client default.
//
// Returns:
//   - *Transfer: ready to execute
//   - error: wraps ErrInvalidInput when the request is malformed
//
// Example:
//
//	transfer, err := client.NewTransfer(req, upload.WithoutEncryption())
//	if err != nil {
//	    return err
//	}
//	status, err := transfer.Execute(ctx)
func (c *Client) NewTransfer(
	req uploadtypes.Request,
	opts ...uploadtypes.TransferOption,
) (*Transfer, error) {
	transferCfg := &uploadtypes.TransferConfig{}
	for _, opt := range opts {
		opt(transferCfg)
	}

	if err := validation.ValidateFileName(req.FileName); err != nil {
		return nil, err
	}
	if err := validation.ValidateDestination(req.Destination); err != nil {
		return nil, err
	}
	if req.Body == nil {
		return nil, uperrors.NewError("newTransfer", uperrors.ErrInvalidInput).
			WithMessage("request body cannot be nil")
	}

	// Work on a private copy of the fields so the caller's request
	// stays untouched.
	dest := req.Destination
	dest.Fields = append([]uploadtypes.FormField(nil), req.Destination.Fields...)
	if transferCfg.ContentType != "" {
		dest.Fields = applyContentType(dest.Fields, transferCfg.ContentType)
	}

	return &Transfer{
		client:    c,
		fileName:  req.FileName,
		body:      req.Body,
		cipherKey: effectiveCipherKey(c.cipherKey, req.CipherKey, transferCfg),
		dest:      dest,
	}, nil
}

// effectiveCipherKey resolves which passphrase a transfer encrypts
// under: the per-transfer option wins over the request's key, which
// wins over the client-wide default. WithoutEncryption beats them all.
func effectiveCipherKey(clientKey, requestKey string, cfg *uploadtypes.TransferConfig) string {
	switch {
	case cfg.DisableEncryption:
		return ""
	case cfg.CipherKey != "":
		return cfg.CipherKey
	case requestKey != "":
		return requestKey
	default:
		return clientKey
	}
}

// applyContentType forces the media type the file part is uploaded
// under. Only the first Content-Type field is consulted during body
// assembly, so replacing it in place is enough; absent one, a new
// field is appended.
func applyContentType(
	fields []uploadtypes.FormField,
	contentType string,
) []uploadtypes.FormField {
	for i, field := range fields {
		if strings.EqualFold(field.Key, form.ContentTypeFieldKey) {
			fields[i].Value = contentType
			return fields
		}
	}
	return append(fields, uploadtypes.FormField{Key: form.ContentTypeFieldKey, Value: contentType})
}

// Execute runs the transfer on the calling goroutine and blocks until
// the endpoint answers or the transport gives up.
//
// On success it returns the acknowledgment Status. Failures are raised:
// preparation problems wrap ErrPayload, network faults wrap
// ErrTransport, and non-success responses wrap ErrRejected carrying the
// numeric status code and the response body text.
func (t *Transfer) Execute(ctx context.Context) (*uploadtypes.Status, error) {
	const op = "transfer"

	call, err := t.prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer call.cancel()

	t.logStart(ctx)

	resp, err := t.client.httpClient.Do(call.req)
	if err != nil {
		t.finish()
		return nil, uperrors.NewError(op, fmt.Errorf("%w: %w", uperrors.ErrTransport, err)).
			WithURL(t.dest.URL).
			WithCall(call.req)
	}
	defer resp.Body.Close()

	origin, tlsEnabled := requestOrigin(resp)

	if !isSuccess(resp.StatusCode) {
		bodyText := readBodyText(resp.Body)
		t.finish()
		httpErr := uperrors.NewHTTPError(op, t.dest.URL, resp.StatusCode, uperrors.ErrRejected).
			WithCall(resp.Request)
		if bodyText != "" {
			httpErr = httpErr.WithMessage(bodyText)
		}
		return nil, httpErr
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	t.finish()

	status := &uploadtypes.Status{
		StatusCode:   resp.StatusCode,
		TLSEnabled:   tlsEnabled,
		Origin:       origin,
		Operation:    uploadtypes.OperationFileUpload,
		Category:     uploadtypes.CategoryAcknowledgment,
		AffectedCall: resp.Request,
	}
	t.logOutcome(ctx, status)

	return status, nil
}

// ExecuteAsync runs the transfer on a background goroutine and reports
// the outcome through callback.
//
// ExecuteAsync never fails directly. Problems preparing the payload are
// delivered through the callback with CategoryUnknown, since no more
// specific classification exists before a request is on the wire. Every
// attempt delivers exactly one outcome, except when Cancel wins the
// race, which suppresses delivery entirely.
func (t *Transfer) ExecuteAsync(ctx context.Context, callback uploadtypes.Callback) {
	call, err := t.prepare(ctx)
	if err != nil {
		t.deliver(ctx, callback, &uploadtypes.Status{
			Error:     true,
			ErrorData: &uploadtypes.ErrorData{Message: err.Error(), Cause: err},
			Operation: uploadtypes.OperationFileUpload,
			Category:  uploadtypes.CategoryUnknown,
		})
		return
	}

	t.logStart(ctx)

	t.client.executor.Submit(func() {
		defer call.cancel()

		resp, err := t.client.httpClient.Do(call.req)
		if err != nil {
			t.onFailure(ctx, call, callback, err)
			return
		}
		t.onResponse(ctx, callback, resp)
	})
}

// Cancel aborts the in-flight call. Before any execution it is a no-op;
// afterwards it tears down the request's context, which suppresses the
// failure outcome the aborted call would otherwise deliver. Cancel is
// safe to call from any goroutine and more than once.
func (t *Transfer) Cancel() {
	t.mu.Lock()
	call := t.call
	if call != nil && t.state == stateInFlight {
		t.state = stateCancelled
	}
	t.mu.Unlock()

	if call == nil {
		return
	}

	if call.cancelled.CompareAndSwap(false, true) {
		call.cancel()
		if t.client.logger != nil {
			t.client.logger.Debug("transfer cancelled", "url", t.dest.URL, "file", t.fileName)
		}
	}
}

// Retry is a no-op. A transfer consumes its payload stream during
// preparation, so the same instance cannot be re-run; build a new
// Transfer to attempt the upload again.
func (t *Transfer) Retry() {}

// prepare drains the payload, optionally encrypts it, assembles the
// multipart body, and registers the in-flight call handle. The payload
// stream backs exactly one attempt, so a transfer that has left the
// idle state refuses to run again.
func (t *Transfer) prepare(ctx context.Context) (*httpCall, error) {
	const op = "prepare"

	t.mu.Lock()
	if t.state != stateIdle {
		t.mu.Unlock()
		return nil, uperrors.NewError(op, uperrors.ErrAlreadyExecuted).WithURL(t.dest.URL)
	}
	t.state = statePrepared
	t.mu.Unlock()

	payload, err := t.resolvePayload()
	if err != nil {
		t.finish()
		return nil, uperrors.NewError(op, fmt.Errorf("%w: %w", uperrors.ErrPayload, err)).
			WithURL(t.dest.URL)
	}

	body, contentType, err := form.Build(t.dest.KeyField, t.dest.Fields, t.fileName, payload)
	if err != nil {
		t.finish()
		return nil, uperrors.NewError(op, fmt.Errorf("%w: %w", uperrors.ErrPayload, err)).
			WithURL(t.dest.URL)
	}

	callCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, t.dest.URL, body)
	if err != nil {
		cancel()
		t.finish()
		return nil, uperrors.NewError(op, fmt.Errorf("%w: %w", uperrors.ErrPayload, err)).
			WithURL(t.dest.URL)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", t.client.userAgent)

	call := &httpCall{req: req, cancel: cancel}

	t.mu.Lock()
	t.call = call
	t.state = stateInFlight
	t.mu.Unlock()

	return call, nil
}

// resolvePayload drains the input stream, through the cryptor when a
// cipher key is in effect.
func (t *Transfer) resolvePayload() ([]byte, error) {
	if t.cipherKey == "" {
		payload, err := io.ReadAll(t.body)
		if err != nil {
			return nil, fmt.Errorf("reading content: %w", err)
		}
		return payload, nil
	}

	payload, err := t.client.cryptor.Encrypt(t.cipherKey, t.body)
	if err != nil {
		return nil, fmt.Errorf("encrypting content: %w", err)
	}
	return payload, nil
}

// onResponse turns an HTTP response into the delivered outcome.
func (t *Transfer) onResponse(
	ctx context.Context,
	callback uploadtypes.Callback,
	resp *http.Response,
) {
	defer resp.Body.Close()

	origin, tlsEnabled := requestOrigin(resp)

	if isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		t.finish()
		t.deliver(ctx, callback, &uploadtypes.Status{
			StatusCode:   resp.StatusCode,
			TLSEnabled:   tlsEnabled,
			Origin:       origin,
			Operation:    uploadtypes.OperationFileUpload,
			Category:     uploadtypes.CategoryAcknowledgment,
			AffectedCall: resp.Request,
		})
		return
	}

	bodyText := readBodyText(resp.Body)
	cause := uperrors.NewHTTPError("transfer", t.dest.URL, resp.StatusCode, uperrors.ErrRejected).
		WithCall(resp.Request)
	if bodyText != "" {
		cause = cause.WithMessage(bodyText)
	}

	t.finish()
	t.deliver(ctx, callback, &uploadtypes.Status{
		Error:        true,
		ErrorData:    &uploadtypes.ErrorData{Message: bodyText, Cause: cause},
		StatusCode:   resp.StatusCode,
		TLSEnabled:   tlsEnabled,
		Origin:       origin,
		Operation:    uploadtypes.OperationFileUpload,
		Category:     categoryForStatusCode(resp.StatusCode),
		AffectedCall: resp.Request,
	})
}

// onFailure turns a transport error into the delivered outcome, or
// swallows it when the transfer was cancelled. A cancelled call must
// never surface as a user-visible error.
func (t *Transfer) onFailure(
	ctx context.Context,
	call *httpCall,
	callback uploadtypes.Callback,
	err error,
) {
	if call.cancelled.Load() {
		if t.client.logger != nil {
			t.client.logger.DebugContext(ctx, "suppressing failure after cancellation",
				"url", t.dest.URL, "file", t.fileName)
		}
		return
	}

	sentinel, category, ok := classifyFailure(err)
	if !ok {
		// A cancellation can land between the check above and here.
		sentinel = uperrors.ErrTransport
		if call.cancelled.Load() {
			category = uploadtypes.CategoryCancelled
		} else {
			category = uploadtypes.CategoryBadRequest
		}
	}

	cause := uperrors.NewError("transfer", fmt.Errorf("%w: %w", sentinel, err)).
		WithURL(t.dest.URL).
		WithCall(call.req)

	t.finish()
	t.deliver(ctx, callback, &uploadtypes.Status{
		Error:        true,
		ErrorData:    &uploadtypes.ErrorData{Message: err.Error(), Cause: cause},
		Operation:    uploadtypes.OperationFileUpload,
		Category:     category,
		AffectedCall: call.req,
	})
}

// deliver hands the outcome to the callback. Each execution attempt
// reaches this at most once, from whichever completion handler ran.
func (t *Transfer) deliver(
	ctx context.Context,
	callback uploadtypes.Callback,
	status *uploadtypes.Status,
) {
	t.logOutcome(ctx, status)

	if callback != nil {
		callback(status)
	}
}

// finish retires the transfer without recording a cancellation.
func (t *Transfer) finish() {
	t.mu.Lock()
	t.state = stateDone
	t.mu.Unlock()
}

// logStart records that the request went on the wire.
func (t *Transfer) logStart(ctx context.Context) {
	if t.client.logger == nil {
		return
	}
	t.client.logger.InfoContext(ctx, "starting upload",
		"url", t.dest.URL,
		"file", t.fileName,
		"encrypted", t.cipherKey != "")
}

// logOutcome records the delivered outcome.
func (t *Transfer) logOutcome(ctx context.Context, status *uploadtypes.Status) {
	if t.client.logger == nil {
		return
	}
	if status.Error {
		t.client.logger.ErrorContext(ctx, "upload failed",
			"url", t.dest.URL,
			"file", t.fileName,
			"category", string(status.Category),
			"status_code", status.StatusCode)
		return
	}
	t.client.logger.InfoContext(ctx, "upload acknowledged",
		"url", t.dest.URL,
		"file", t.fileName,
		"status_code", status.StatusCode)
}
