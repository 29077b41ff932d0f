// Package testutil provides MinIO integration test utilities.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MinIOContainer wraps a MinIO container for testing. The container field is
// nil when an external endpoint from the integration config is in use.
type MinIOContainer struct {
	container testcontainers.Container
	endpoint  string
	accessKey string
	secretKey string
	useTLS    bool
}

// NewMinIOContainer creates and starts a new MinIO container with the given
// root credentials.
func NewMinIOContainer(ctx context.Context, t *testing.T, accessKey, secretKey string) (*MinIOContainer, error) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     accessKey,
			"MINIO_ROOT_PASSWORD": secretKey,
		},
		Cmd: []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort("9000").
			WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start MinIO container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	return &MinIOContainer{
		container: container,
		endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		accessKey: accessKey,
		secretKey: secretKey,
	}, nil
}

// GetClient returns a MinIO client configured against the container.
func (c *MinIOContainer) GetClient() (*minio.Client, error) {
	client, err := minio.New(c.endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(c.accessKey, c.secretKey, ""),
		Secure: c.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// Endpoint returns the MinIO endpoint as host:port.
func (c *MinIOContainer) Endpoint() string {
	return c.endpoint
}

// Terminate stops and removes the MinIO container. It is a no-op for
// externally provided endpoints.
func (c *MinIOContainer) Terminate(ctx context.Context) error {
	if c.container != nil {
		if err := c.container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// SetupMinIOTest is a helper that sets up MinIO for a test. It returns a
// MinIO client and a cleanup function that should be deferred. An endpoint
// from the integration config takes precedence over starting a container.
func SetupMinIOTest(t *testing.T) (*minio.Client, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg, err := LoadIntegrationConfig()
	if err != nil {
		t.Fatalf("Failed to load integration config: %v", err)
	}

	ctx := context.Background()

	mc := &MinIOContainer{
		endpoint:  cfg.MinIOEndpoint,
		accessKey: cfg.MinIOAccessKey,
		secretKey: cfg.MinIOSecretKey,
		useTLS:    cfg.MinIOUseTLS,
	}
	if cfg.MinIOEndpoint == "" {
		mc, err = NewMinIOContainer(ctx, t, cfg.MinIOAccessKey, cfg.MinIOSecretKey)
		if err != nil {
			t.Fatalf("Failed to create MinIO container: %v", err)
		}
	}

	client, err := mc.GetClient()
	if err != nil {
		_ = mc.Terminate(ctx)
		t.Fatalf("Failed to create MinIO client: %v", err)
	}

	cleanup := func() {
		if err := mc.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MinIO container: %v", err)
		}
	}

	return client, cleanup
}

// CreateTestBucketInMinIO creates a test bucket in MinIO.
func CreateTestBucketInMinIO(ctx context.Context, client *minio.Client, bucketName string) error {
	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// CleanupTestBucketInMinIO deletes all objects and removes a test bucket.
func CleanupTestBucketInMinIO(ctx context.Context, client *minio.Client, bucketName string) error {
	objects := client.ListObjects(ctx, bucketName, minio.ListObjectsOptions{Recursive: true})
	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if err := client.RemoveObject(ctx, bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete object: %w", err)
		}
	}

	if err := client.RemoveBucket(ctx, bucketName); err != nil {
		return fmt.Errorf("failed to delete bucket: %w", err)
	}
	return nil
}
