package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// #region wire types

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// #endregion wire types

// #region client

// OllamaClient talks to a local ollama daemon over its chat API.
type OllamaClient struct {
	baseURL string
	model   string
	http    *http.Client
	log     *zap.Logger
}

// NewOllamaClient builds a client for the given base URL and model.
func NewOllamaClient(baseURL, model string, log *zap.Logger) *OllamaClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: 120 * time.Second},
		log:     log,
	}
}

// Ping checks that the daemon answers.
func (c *OllamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	return nil
}

// Generate produces a draft, retrying transient failures with exponential
// backoff. On exhaustion it returns the sentinel draft plus the error so
// the pipeline can keep running over the sentinel text.
func (c *OllamaClient) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	var out string
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		draft, err := c.chat(ctx, systemPrompt, userText)
		if err != nil {
			c.log.Warn("draft generation failed", zap.Error(err))
			return retry.RetryableError(err)
		}
		out = draft
		return nil
	})
	if err != nil {
		return fmt.Sprintf("%s %v", ErrorSentinel, err), err
	}
	if strings.TrimSpace(out) == "" {
		return fmt.Sprintf("%s Resposta vazia do modelo %s.", ErrorSentinel, c.model), nil
	}
	return out, nil
}

func (c *OllamaClient) chat(ctx context.Context, systemPrompt, userText string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama chat http status: %s", resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Message.Content), nil
}

// #endregion client

// #region static

// Static always answers with a fixed draft. Used by tests and replay.
type Static struct {
	Draft string
	Err   error
}

// Generate returns the configured draft or error.
func (s Static) Generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	if s.Err != nil {
		return fmt.Sprintf("%s %v", ErrorSentinel, s.Err), s.Err
	}
	return s.Draft, nil
}

// #endregion static
