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

func TestResolve(t *testing.T) {
	r, err := NewImageResolver("https://abc.storage.example.co/", "main-bucket")
	require.NoError(t, err)

	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"empty", "", "/images/placeholder.jpg"},
		{"absolute https", "https://cdn.x.com/a.jpg", "https://cdn.x.com/a.jpg"},
		{"absolute http upper case", "HTTP://cdn.x.com/a.jpg", "HTTP://cdn.x.com/a.jpg"},
		{"public image", "/images/hero.jpg", "/images/hero.jpg"},
		{"object key", "users/u1/1700-chair.jpg", "https://abc.storage.example.co/storage/v1/object/public/main-bucket/users/u1/1700-chair.jpg"},
		{"object key leading slashes", "//users/u1/a.jpg", "https://abc.storage.example.co/storage/v1/object/public/main-bucket/users/u1/a.jpg"},
		{"other rooted path", "/uploads/a.jpg", "https://abc.storage.example.co/storage/v1/object/public/main-bucket/uploads/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.image))
		})
	}
}

func TestNewImageResolverRequiresBase(t *testing.T) {
	_, err := NewImageResolver("///", "main-bucket")
	assert.ErrorIs(t, err, ErrMissingPublicURL)

	_, err = NewImageResolver("https://abc.storage.example.co", "")
	assert.Error(t, err)
}

func TestImageKinds(t *testing.T) {
	assert.True(t, IsObjectKey("users/u1/a.jpg"))
	assert.False(t, IsObjectKey(""))
	assert.False(t, IsObjectKey("/images/a.jpg"))
	assert.False(t, IsObjectKey("https://cdn.x.com/a.jpg"))
	assert.False(t, IsObjectKey("Http://cdn.x.com/a.jpg"))
}

func TestNewMinioStoreDisabled(t *testing.T) {
	store, err := NewMinioStore(Config{})
	assert.NoError(t, err)
	assert.Nil(t, store)
}

func TestMinioStoreRemove(t *testing.T) {
	var mu sync.Mutex
	var method, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store, err := NewMinioStore(Config{
		Endpoint:  srv.URL,
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "main-bucket",
	})
	require.NoError(t, err)
	require.NotNil(t, store)

	require.NoError(t, store.Remove(context.Background(), "/users/u1/a.jpg"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/main-bucket/users/u1/a.jpg", path)
}

func TestMinioStoreRemoveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`))
	}))
	defer srv.Close()

	store, err := NewMinioStore(Config{Endpoint: srv.URL, AccessKey: "a", SecretKey: "b", Bucket: "main-bucket"})
	require.NoError(t, err)

	err = store.Remove(context.Background(), "users/u1/a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage delete failed")
}
