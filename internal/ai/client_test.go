package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StreamArticle(t *testing.T) {
	var gotAuth string
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{
			`data: {"choices":[{"delta":{"content":"Hello"}}]}`,
			`data: {"choices":[{"delta":{"content":" world"}}]}`,
			`data: {"choices":[{"delta":{}}]}`,
			`data: [DONE]`,
		}
		for _, chunk := range chunks {
			w.Write([]byte(chunk + "\n\n"))
		}
	}))
	defer upstream.Close()

	client := NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: upstream.URL,
		Model:   "gpt-4o-mini",
	})

	var tokens []string
	err := client.StreamArticle(context.Background(), ArticlePrompt{Title: "Go Testing"}, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " world"}, tokens)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Contains(t, gotBody, `"stream":true`)
	assert.Contains(t, gotBody, "Go Testing")
}

func TestClient_StreamArticle_NotConfigured(t *testing.T) {
	client := NewClient(Config{})
	err := client.StreamArticle(context.Background(), ArticlePrompt{Title: "X"}, func(string) error {
		t.Fatal("emit should not be called")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_StreamArticle_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: upstream.URL, Model: "gpt-4o-mini"})
	err := client.StreamArticle(context.Background(), ArticlePrompt{Title: "X"}, func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_GenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "a red fox")
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer upstream.Close()

	client := NewClient(Config{ImageAPIURL: upstream.URL, ImageAPIKey: "hf-test"})
	data, err := client.GenerateImage(context.Background(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

func TestClient_GenerateImage_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := NewClient(Config{ImageAPIURL: upstream.URL, ImageAPIKey: "hf-test"})
	_, err := client.GenerateImage(context.Background(), "a red fox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestArticlePrompt_Defaults(t *testing.T) {
	prompt := ArticlePrompt{Title: "Only a Title"}.userPrompt()
	assert.Contains(t, prompt, "Title: Only a Title")
	assert.Contains(t, prompt, "friendly, clear, and authoritative")
	assert.Contains(t, prompt, "900-1200 words")
	assert.False(t, strings.Contains(prompt, "Category:"))
}
