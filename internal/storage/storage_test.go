package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/es2/countrysync/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	key := "raw/rest_countries/raw_ingestion_1_20240101120000.json"
	loc, err := PutBytes(ctx, s, key, []byte(`[]`), ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "raw", "rest_countries", "raw_ingestion_1_20240101120000.json"), loc)

	data, err := ReadAll(ctx, s, key)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = ReadAll(ctx, s, "raw/rest_countries/missing.json")
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../outside.json", "/etc/passwd", ""} {
		_, err := PutBytes(context.Background(), s, key, []byte("x"), ContentTypeJSON)
		assert.Error(t, err, key)
	}
}

func TestNewStorageSelectsBackend(t *testing.T) {
	s, err := NewStorage(context.Background(), &config.StorageConfig{Type: "local", Root: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(context.Background(), &config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestDetectStorageType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     StorageType
	}{
		{"https://abc.r2.cloudflarestorage.com", StorageTypeR2},
		{"s3.eu-west-1.amazonaws.com", StorageTypeS3},
		{"localhost:9000", StorageTypeS3Compatible},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectStorageType(tt.endpoint), tt.endpoint)
	}
}

func TestS3GetURL(t *testing.T) {
	s, err := NewS3Storage(&S3Config{Type: StorageTypeS3Compatible, Endpoint: "http://localhost:9000/", Bucket: "dem", AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "s3://dem/raw/a.json", s.GetURL("raw/a.json"))

	s, err = NewS3Storage(&S3Config{Bucket: "dem", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/raw/a.json", s.GetURL("raw/a.json"))

	assert.Equal(t, "localhost:9000", normalizeEndpoint("http://localhost:9000/bucket"))
}
