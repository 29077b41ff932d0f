package presign

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// MinIOSigner issues destinations through the MinIO SDK's POST policy
// support. It works against MinIO itself and any other S3-compatible
// endpoint the client is configured for.
type MinIOSigner struct {
	client *minio.Client
	policy Policy
}

// NewMinIOSigner creates a signer that issues destinations for the
// given policy using the client's endpoint and credentials.
func NewMinIOSigner(client *minio.Client, policy Policy) *MinIOSigner {
	return &MinIOSigner{
		client: client,
		policy: policy,
	}
}

// Sign produces a destination accepting one upload of the named file.
func (s *MinIOSigner) Sign(ctx context.Context, fileName string) (*uploadtypes.Destination, error) {
	postPolicy := minio.NewPostPolicy()

	key := objectKey(time.Now().UTC(), s.policy.Prefix, fileName)

	if err := postPolicy.SetBucket(s.policy.Bucket); err != nil {
		return nil, fmt.Errorf("setting bucket: %w", err)
	}
	if err := postPolicy.SetKey(key); err != nil {
		return nil, fmt.Errorf("setting key: %w", err)
	}
	if err := postPolicy.SetExpires(time.Now().UTC().Add(s.policy.expiry())); err != nil {
		return nil, fmt.Errorf("setting expiry: %w", err)
	}
	if s.policy.ContentType != "" {
		if err := postPolicy.SetContentType(s.policy.ContentType); err != nil {
			return nil, fmt.Errorf("setting content type: %w", err)
		}
	}
	if s.policy.MaxSize > 0 {
		if err := postPolicy.SetContentLengthRange(0, s.policy.MaxSize); err != nil {
			return nil, fmt.Errorf("setting size range: %w", err)
		}
	}

	endpoint, formData, err := s.client.PresignedPostPolicy(ctx, postPolicy)
	if err != nil {
		return nil, fmt.Errorf("signing policy: %w", err)
	}

	return &uploadtypes.Destination{
		URL:      endpoint.String(),
		KeyField: uploadtypes.FormField{Key: keyFieldName, Value: formData[keyFieldName]},
		Fields:   sortedFields(formData),
	}, nil
}

// Ensure MinIOSigner satisfies the Signer contract.
var _ Signer = (*MinIOSigner)(nil)
