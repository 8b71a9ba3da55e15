// Package ai holds the external classification collaborators: an
// OpenAI-compatible chat client used for fast scoring and an Anthropic
// client used for deep analysis.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ChatCompleter produces one completion for a prompt. Satisfied by
// ChatClient; tests substitute fakes.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatClient calls an OpenAI-compatible chat-completions endpoint. Both
// the Groq free tier and OpenAI serve this wire format.
type ChatClient struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	client    *http.Client
}

// NewChatClient creates a chat client for the given endpoint and model.
func NewChatClient(baseURL, apiKey, model string) *ChatClient {
	return &ChatClient{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: 300,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-message prompt and returns the raw completion text.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("api key is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat api error: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat api returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
