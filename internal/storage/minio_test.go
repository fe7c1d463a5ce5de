package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		raw      string
		useSSL   bool
		endpoint string
		secure   bool
	}{
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://localhost:9000", true, "localhost:9000", false},
		{"minio:9000", true, "minio:9000", true},
		{"//minio:9000", false, "minio:9000", false},
	}

	for _, tc := range cases {
		endpoint, secure := normalizeEndpoint(tc.raw, tc.useSSL)
		assert.Equal(t, tc.endpoint, endpoint, tc.raw)
		assert.Equal(t, tc.secure, secure, tc.raw)
	}
}

func TestNewMinioClientValidates(t *testing.T) {
	_, err := NewMinioClient(MinioConfig{})
	require.Error(t, err)

	_, err = NewMinioClient(MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.Error(t, err)

	client, err := NewMinioClient(MinioConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "models"})
	require.NoError(t, err)
	assert.Equal(t, "models", client.bucket)
}
