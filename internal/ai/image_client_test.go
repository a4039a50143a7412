package ai

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/technews/internal/utils"
)

func TestGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dall-e-3", req.Model)
		assert.Equal(t, "1024x1024", req.Size)
		assert.Equal(t, "standard", req.Quality)
		assert.Equal(t, 1, req.N)
		assert.Contains(t, ImagePrompts, req.Prompt)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://images.example/abc.png"}]}`))
	}))
	defer srv.Close()

	client := NewImageClient(utils.NewHTTPClient(2*time.Second, 0), "sk-test").
		WithBaseURL(srv.URL).
		WithRand(rand.New(rand.NewPCG(1, 2)))

	url, err := client.GenerateImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/abc.png", url)
}

func TestGenerateImageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"content policy","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewImageClient(utils.NewHTTPClient(2*time.Second, 0), "sk-test").WithBaseURL(srv.URL).GenerateImage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content policy")
}

func TestGenerateImageWithoutKey(t *testing.T) {
	_, err := NewImageClient(utils.NewHTTPClient(time.Second, 0), "").GenerateImage(context.Background())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestPickPromptCoversPool(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[PickPrompt(rng)] = true
	}
	assert.Len(t, seen, len(ImagePrompts))
}
