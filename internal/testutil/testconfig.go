// Package testutil provides configuration for integration tests.
package testutil

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// IntegrationConfig selects the backing services integration tests run
// against. When an endpoint is set, tests use it instead of starting a
// container, so CI environments that already provide the service skip the
// container startup cost.
type IntegrationConfig struct {
	MinIOEndpoint      string `env:"UPLOAD_TEST_MINIO_ENDPOINT"`
	MinIOAccessKey     string `env:"UPLOAD_TEST_MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey     string `env:"UPLOAD_TEST_MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOUseTLS        bool   `env:"UPLOAD_TEST_MINIO_TLS"`
	LocalStackEndpoint string `env:"UPLOAD_TEST_LOCALSTACK_ENDPOINT"`
}

// LoadIntegrationConfig parses the integration test configuration from the
// environment.
func LoadIntegrationConfig() (*IntegrationConfig, error) {
	var cfg IntegrationConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse integration test config: %w", err)
	}
	return &cfg, nil
}
