package presign

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

const (
	// signingAlgorithm is the only algorithm S3 POST policies accept.
	signingAlgorithm = "AWS4-HMAC-SHA256"

	// amzDateFormat is the timestamp format SigV4 expects in requests.
	amzDateFormat = "20060102T150405Z"

	// dateStampFormat is the short date used in credential scopes.
	dateStampFormat = "20060102"

	// expirationFormat is the ISO8601 layout policy expirations use.
	expirationFormat = "2006-01-02T15:04:05.000Z"
)

// AWSSigner issues destinations by signing S3 POST policies directly
// with Signature Version 4. The AWS SDK offers presigned PUT and GET
// URLs but no POST policy support, so the policy document and its
// signature are assembled here.
type AWSSigner struct {
	credentials aws.CredentialsProvider
	region      string
	policy      Policy

	// endpoint overrides the virtual-hosted AWS URL with a path-style
	// one for S3-compatible services
	endpoint string

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewAWSSigner creates a signer that issues destinations for the given
// policy using the configuration's credentials and region.
func NewAWSSigner(cfg aws.Config, policy Policy) *AWSSigner {
	return &AWSSigner{
		credentials: cfg.Credentials,
		region:      cfg.Region,
		policy:      policy,
		now:         time.Now,
	}
}

// WithEndpoint points the signer at an S3-compatible service instead of
// AWS itself. Issued URLs become path-style under the given endpoint.
func (s *AWSSigner) WithEndpoint(endpoint string) *AWSSigner {
	s.endpoint = endpoint
	return s
}

// WithClock sets the time source used for key generation, credential
// scopes, and expirations.
func (s *AWSSigner) WithClock(now func() time.Time) *AWSSigner {
	s.now = now
	return s
}

// policyDocument is the JSON S3 evaluates against each POSTed form.
type policyDocument struct {
	Expiration string `json:"expiration"`
	Conditions []any  `json:"conditions"`
}

// Sign produces a destination accepting one upload of the named file.
func (s *AWSSigner) Sign(ctx context.Context, fileName string) (*uploadtypes.Destination, error) {
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving credentials: %w", err)
	}

	now := s.now().UTC()
	amzDate := now.Format(amzDateFormat)
	credentialScope := strings.Join(
		[]string{creds.AccessKeyID, now.Format(dateStampFormat), s.region, "s3", "aws4_request"},
		"/",
	)
	key := objectKey(now, s.policy.Prefix, fileName)

	conditions := []any{
		map[string]string{"bucket": s.policy.Bucket},
		map[string]string{"key": key},
		map[string]string{"x-amz-algorithm": signingAlgorithm},
		map[string]string{"x-amz-credential": credentialScope},
		map[string]string{"x-amz-date": amzDate},
	}
	if creds.SessionToken != "" {
		conditions = append(conditions, map[string]string{"x-amz-security-token": creds.SessionToken})
	}
	if s.policy.ContentType != "" {
		conditions = append(conditions, map[string]string{"Content-Type": s.policy.ContentType})
	}
	if s.policy.MaxSize > 0 {
		conditions = append(conditions, []any{"content-length-range", int64(0), s.policy.MaxSize})
	}

	document, err := json.Marshal(policyDocument{
		Expiration: now.Add(s.policy.expiry()).Format(expirationFormat),
		Conditions: conditions,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding policy: %w", err)
	}

	encodedPolicy := base64.StdEncoding.EncodeToString(document)
	signature := hex.EncodeToString(hmacSHA256(
		s.signingKey(creds.SecretAccessKey, now),
		encodedPolicy,
	))

	fields := []uploadtypes.FormField{
		{Key: "policy", Value: encodedPolicy},
		{Key: "x-amz-algorithm", Value: signingAlgorithm},
		{Key: "x-amz-credential", Value: credentialScope},
		{Key: "x-amz-date", Value: amzDate},
	}
	if creds.SessionToken != "" {
		fields = append(fields, uploadtypes.FormField{Key: "x-amz-security-token", Value: creds.SessionToken})
	}
	if s.policy.ContentType != "" {
		fields = append(fields, uploadtypes.FormField{Key: "Content-Type", Value: s.policy.ContentType})
	}
	fields = append(fields, uploadtypes.FormField{Key: "x-amz-signature", Value: signature})

	return &uploadtypes.Destination{
		URL:      s.destinationURL(),
		KeyField: uploadtypes.FormField{Key: keyFieldName, Value: key},
		Fields:   fields,
	}, nil
}

// destinationURL picks the endpoint uploads are posted to: path-style
// under a configured endpoint, virtual-hosted on AWS otherwise.
func (s *AWSSigner) destinationURL() string {
	if s.endpoint != "" {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.policy.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.policy.Bucket, s.region)
}

// signingKey derives the SigV4 key for the policy's credential scope.
func (s *AWSSigner) signingKey(secret string, now time.Time) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), now.Format(dateStampFormat))
	kRegion := hmacSHA256(kDate, s.region)
	kService := hmacSHA256(kRegion, "s3")
	return hmacSHA256(kService, "aws4_request")
}

// hmacSHA256 computes a single HMAC-SHA256 round.
func hmacSHA256(key []byte, message string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// Ensure AWSSigner satisfies the Signer contract.
var _ Signer = (*AWSSigner)(nil)
