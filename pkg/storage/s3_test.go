package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_Delete(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewS3Client(S3Config{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          "photos",
		BasePath:        "uploads/",
		ForcePathStyle:  true,
	})
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "2025/01/cat.jpg"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 1)
	assert.Equal(t, "DELETE /photos/uploads/2025/01/cat.jpg", requests[0])
}

func TestS3Client_DeleteEmptyKeyIsNoop(t *testing.T) {
	client, err := NewS3Client(S3Config{Bucket: "photos", Endpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.NoError(t, client.Delete(context.Background(), ""))
}

func TestS3Client_FullKey(t *testing.T) {
	client, err := NewS3Client(S3Config{Bucket: "photos", BasePath: "uploads/"})
	require.NoError(t, err)
	assert.Equal(t, "uploads/a.jpg", client.FullKey("a.jpg"))
	assert.Equal(t, "uploads/a.jpg", client.FullKey("uploads/a.jpg"))
}

func TestNewS3Client_RequiresBucket(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)
}
