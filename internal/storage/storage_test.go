package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"receipt.png", "receipt.png"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\my receipt (1).jpg`, "my_receipt_1_.jpg"},
		{"", "proof"},
		{"...", "proof"},
		{"rent räkning.pdf", "rent_r_kning.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestProofKey(t *testing.T) {
	key := ProofKey(12, "2026-10", "my receipt.png")

	assert.True(t, strings.HasPrefix(key, "12/2026-10_"), key)
	assert.True(t, strings.HasSuffix(key, "_my_receipt.png"), key)
	assert.NotEqual(t, key, ProofKey(12, "2026-10", "my receipt.png"), "keys for the same month must differ")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://files.local/payment-proofs")

	require.NoError(t, store.Upload(ctx, "1/2026-10_x_a.png", strings.NewReader("png"), 3, "image/png"))

	b, ok := store.Get("1/2026-10_x_a.png")
	require.True(t, ok)
	assert.Equal(t, "png", string(b))
	assert.Equal(t, "http://files.local/payment-proofs/1/2026-10_x_a.png", store.PublicURL("1/2026-10_x_a.png"))

	require.NoError(t, store.Delete(ctx, "1/2026-10_x_a.png"))
	assert.Equal(t, 0, store.Len())
	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "explicit public url",
			cfg:  config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/proofs/"},
			want: "https://cdn.example.com/proofs",
		},
		{
			name: "path style endpoint",
			cfg:  config.StorageConfig{Bucket: "b", Endpoint: "http://localhost:9000", UsePathStyle: true},
			want: "http://localhost:9000/b",
		},
		{
			name: "virtual host endpoint",
			cfg:  config.StorageConfig{Bucket: "b", Endpoint: "https://objects.example.com"},
			want: "https://b.objects.example.com",
		},
		{
			name: "aws default",
			cfg:  config.StorageConfig{Bucket: "b"},
			want: "https://b.s3.ap-south-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.cfg, "ap-south-1"))
		})
	}
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestS3Store_UploadAndDelete(t *testing.T) {
	srv, requests := newFakeS3(t)

	store, err := NewS3Store(config.StorageConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "payment-proofs",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("fake image bytes")
	require.NoError(t, store.Upload(ctx, "3/2026-10_ab_receipt.png", bytes.NewReader(payload), int64(len(payload)), "image/png"))
	require.NoError(t, store.Delete(ctx, "3/2026-10_ab_receipt.png"))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].method)
	assert.Equal(t, "/payment-proofs/3/2026-10_ab_receipt.png", reqs[0].path)
	assert.Equal(t, string(payload), reqs[0].body)
	assert.Equal(t, http.MethodDelete, reqs[1].method)

	assert.Equal(t, srv.URL+"/payment-proofs/3/2026-10_ab_receipt.png", store.PublicURL("3/2026-10_ab_receipt.png"))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(config.StorageConfig{Endpoint: "http://localhost:9000"})
	assert.Error(t, err)
}
