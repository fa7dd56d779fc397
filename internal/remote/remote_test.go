package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigS3URL(t *testing.T) {
	cfg := Config{Bucket: "hashes", Path: "prod/artifact.parquet"}
	assert.Equal(t, "s3://hashes/prod/artifact.parquet", cfg.s3URL())
}

func TestConfigEndpointHostStripsScheme(t *testing.T) {
	cfg := Config{Endpoint: "https://abc123.r2.cloudflarestorage.com"}
	assert.Equal(t, "abc123.r2.cloudflarestorage.com", cfg.endpointHost())
}

func TestSQLEscape(t *testing.T) {
	assert.Equal(t, "it''s", sqlEscape("it's"))
}
