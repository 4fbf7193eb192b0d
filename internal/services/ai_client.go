package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/utils"
)

// ChatMessage is one turn of conversation history passed through to the
// generation collaborator.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationClient is the one narrow interface to the text-generation
// collaborator. It may fail; callers are expected to degrade, not propagate.
type GenerationClient interface {
	Generate(ctx context.Context, message, contextText string, history []ChatMessage) (string, error)
}

type generationClient struct {
	httpClient *http.Client
	log        *logger.Logger
	apiKey     string
	baseURL    string
	model      string
}

const generationSystemPrompt = "You are the in-app assistant for OnRope, a rope-access company operations platform. " +
	"Answer the user's question using only the documentation excerpts provided. " +
	"Be concise and practical. If the excerpts do not cover the question, say so."

func NewGenerationClient(log *logger.Logger) (GenerationClient, error) {
	serviceLog := log.With("service", "GenerationClient")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", log)
	model := utils.GetEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini", log)
	timeoutSeconds := utils.GetEnvAsInt("GENERATION_TIMEOUT_SECONDS", 30, log)
	return &generationClient{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		log:        serviceLog,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
	}, nil
}

func (c *generationClient) Generate(ctx context.Context, message, contextText string, history []ChatMessage) (string, error) {
	system := generationSystemPrompt
	if contextText != "" {
		system += "\n\nDocumentation excerpts:\n" + contextText
	}

	messages := make([]map[string]string, 0, len(history)+2)
	messages = append(messages, map[string]string{"role": "system", "content": system})
	for _, h := range history {
		if h.Role != "user" && h.Role != "assistant" {
			continue
		}
		messages = append(messages, map[string]string{"role": h.Role, "content": h.Content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": message})

	payload := map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"temperature": 0.3,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Generation call failed", "status", resp.StatusCode)
		return "", fmt.Errorf("generation request returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse generation response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("generation response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
