package storage

import (
	"context"
	"os"
	"testing"

	"github.com/dealership/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Unit Tests (no external dependencies)
// ============================================================================

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.ExportConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half-configured credentials return error", func(t *testing.T) {
		_, err := NewS3Storage(ctx, &config.ExportConfig{Bucket: "exports", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.ExportConfig{
			Bucket:       "exports",
			AccessKey:    "test-key",
			SecretKey:    "test-secret",
			Endpoint:     "localhost:9000",
			UsePathStyle: true,
		}
		storage, err := NewS3Storage(ctx, cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "exports", storage.Bucket())
		assert.Equal(t, "s3://exports/reports/yearly-2025.xlsx", storage.Location("reports/yearly-2025.xlsx"))
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty means AWS", "", false, ""},
		{"adds http", "minio:9000", false, "http://minio:9000"},
		{"adds https", "minio:9000", true, "https://minio:9000"},
		{"keeps scheme", "https://s3.example.com", false, "https://s3.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3Storage_Save_RequiresKey(t *testing.T) {
	storage, err := NewS3Storage(context.Background(), &config.ExportConfig{
		Bucket: "exports", AccessKey: "k", SecretKey: "s", Endpoint: "localhost:9000",
	})
	require.NoError(t, err)

	_, err = storage.Save(context.Background(), "", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}

// ============================================================================
// Integration Tests (require a running S3-compatible endpoint)
// ============================================================================

func TestIntegration_SaveExport(t *testing.T) {
	endpoint := os.Getenv("DEALER_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("DEALER_TEST_S3_ENDPOINT not set, skipping S3 integration test")
	}
	ctx := context.Background()
	storage, err := NewS3Storage(ctx, &config.ExportConfig{
		Bucket:       "dealership-test-exports",
		AccessKey:    os.Getenv("DEALER_TEST_S3_ACCESS_KEY"),
		SecretKey:    os.Getenv("DEALER_TEST_S3_SECRET_KEY"),
		Endpoint:     endpoint,
		UsePathStyle: true,
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBucket(ctx))

	location, err := storage.Save(ctx, "reports/yearly-2025.xlsx", []byte("workbook"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "s3://dealership-test-exports/reports/yearly-2025.xlsx", location)
}
