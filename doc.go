// Package upload provides a high-level Go module for delivering files
// to pre-authorized object-storage endpoints. It posts multipart form
// requests against presigned POST policies, the upload mechanism S3,
// MinIO, and compatible services offer to clients that must not hold
// storage credentials themselves.
//
// The module emphasizes a small, predictable surface: one transfer is
// one network call, executable either blocking on the caller's
// goroutine or asynchronously through a callback, cancellable
// mid-flight, and reporting every outcome through a fixed set of
// status categories.
//
// Key features:
//   - Blocking and callback-driven execution over the same transfer
//   - Optional transparent payload encryption (AES-256-GCM)
//   - Mid-flight cancellation with suppressed late failures
//   - Stable classification of transport faults and endpoint rejections
//   - Destination signing for S3 and MinIO via the presign package
//   - Progressive enhancement through functional options
//
// Example usage:
//
//	client, err := upload.New()
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	status, err := client.UploadFile(ctx, "/local/report.pdf", dest)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("accepted with status %d\n", status.StatusCode)
package upload
