package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the upstream API key is missing.
var ErrNotConfigured = errors.New("generative AI is not configured")

// Config holds upstream endpoints and credentials.
type Config struct {
	APIKey  string
	BaseURL string // OpenAI-compatible API root
	Model   string

	ImageAPIURL string
	ImageAPIKey string
}

// Client proxies to the text-generation and image-generation upstreams.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates an AI proxy client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		// No client timeout: article streams legitimately run for minutes.
		// Cancellation comes from the request context.
		http: &http.Client{},
	}
}

// ArticlePrompt describes the article to generate.
type ArticlePrompt struct {
	Title     string
	Category  string
	Tone      string
	WordCount string
}

const systemPrompt = "You are an expert blog writer. Produce polished, factual, Markdown-formatted articles ready to publish."

func (p ArticlePrompt) userPrompt() string {
	tone := p.Tone
	if tone == "" {
		tone = "friendly, clear, and authoritative"
	}
	wordCount := p.WordCount
	if wordCount == "" {
		wordCount = "900-1200 words"
	}

	lines := []string{
		"Write a complete blog post based on the following:",
		"Title: " + p.Title,
	}
	if p.Category != "" {
		lines = append(lines, "Category: "+p.Category)
	}
	lines = append(lines,
		"Tone: "+tone,
		"Target length: "+wordCount,
		"",
		"Requirements:",
		"- Output **Markdown** only (no HTML).",
		"- Start with a one-line SEO meta description prefixed with `Meta:` (<=155 chars).",
		"- Use H2/H3 headings, short paragraphs, and bullet lists where helpful.",
		"- Add an engaging intro and a succinct conclusion with a call-to-action.",
		"- Weave in relevant subtopics, examples, and practical tips.",
		"- Avoid placeholders or fake stats.",
	)
	return strings.Join(lines, "\n")
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamArticle streams generated article tokens, invoking emit for each
// content delta until the upstream signals completion.
func (c *Client) StreamArticle(ctx context.Context, prompt ArticlePrompt, emit func(token string) error) error {
	if c.cfg.APIKey == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt.userPrompt()},
		},
		Temperature: 0.7,
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("chat completions: upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if token := chunk.Choices[0].Delta.Content; token != "" {
			if err := emit(token); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// GenerateImage forwards the prompt to the image-synthesis API and returns
// the raw PNG bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if c.cfg.ImageAPIKey == "" || c.cfg.ImageAPIURL == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal image request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ImageAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ImageAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("generate image: upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}
