// Package presign issues pre-authorized upload destinations.
//
// A transfer needs a destination signed ahead of time by whoever owns
// the storage: an endpoint URL plus the form fields that prove the
// upload was authorized. This package produces such destinations for
// S3-compatible storage using browser-style POST policies, either
// through the MinIO SDK or by signing the policy directly with AWS
// Signature Version 4 credentials.
//
// Signing is a local computation; no signer method talks to the
// storage service.
package presign

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// DefaultExpiry is how long an issued destination stays valid when the
// policy does not say otherwise.
const DefaultExpiry = 15 * time.Minute

// keyFieldName is the form field S3-compatible endpoints expect the
// object key under.
const keyFieldName = "key"

// Signer issues a pre-authorized destination for one file.
type Signer interface {
	// Sign produces a destination that accepts exactly one upload of
	// the named file under a freshly generated object key.
	Sign(ctx context.Context, fileName string) (*uploadtypes.Destination, error)
}

// Policy constrains the destinations a signer issues.
type Policy struct {
	// Bucket is the bucket uploads land in.
	Bucket string

	// Prefix is prepended to every generated object key.
	Prefix string

	// Expiry bounds how long an issued destination stays valid.
	// Zero means DefaultExpiry.
	Expiry time.Duration

	// ContentType, when set, is the media type the endpoint will
	// require of the file part.
	ContentType string

	// MaxSize, when positive, caps the accepted payload size in bytes.
	MaxSize int64
}

// expiry returns the configured validity window or the default.
func (p Policy) expiry() time.Duration {
	if p.Expiry > 0 {
		return p.Expiry
	}
	return DefaultExpiry
}

// objectKey generates a collision-free storage key for one upload,
// bucketed by date for easier lifecycle management.
func objectKey(now time.Time, prefix, fileName string) string {
	key := fmt.Sprintf("%d/%02d/%02d/%s/%s", now.Year(), now.Month(), now.Day(), uuid.New(), fileName)
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

// sortedFields turns a form-data map into a deterministic field list,
// leaving out the object-key entry, which travels separately.
func sortedFields(formData map[string]string) []uploadtypes.FormField {
	keys := make([]string, 0, len(formData))
	for key := range formData {
		if key == keyFieldName {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]uploadtypes.FormField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, uploadtypes.FormField{Key: key, Value: formData[key]})
	}
	return fields
}
