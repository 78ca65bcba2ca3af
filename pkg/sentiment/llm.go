package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newspulse/pkg/domain"
)

const defaultSystemPrompt = `You rate the sentiment of financial news headlines for investors.
Respond with a JSON object {"label": "positive|negative|neutral", "score": <confidence from 0 to 1>}.
Use neutral for factual headlines without a clear market impact.`

// LLMConfig defines the chat endpoint used for scoring
type LLMConfig struct {
	Endpoint     string
	APIKey       string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
	JSONMode     bool
}

// LLM scores text with an OpenAI-compatible chat completion
type LLM struct {
	client *openai.Client
	cfg    LLMConfig
}

// NewLLM makes an LLM scorer
func NewLLM(cfg LLMConfig) *LLM {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	return &LLM{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Score asks the model for a label and confidence
func (l *LLM) Score(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       l.cfg.Model,
		Temperature: 0,
		MaxTokens:   50,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: l.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Headline: " + text},
		},
	}
	if l.cfg.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := l.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no response from llm")
	}
	return parseResponse(resp.Choices[0].Message.Content)
}

// parseResponse takes the first JSON object in the model reply
func parseResponse(content string) (domain.Sentiment, float64, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return "", 0, errors.New("no json object found in response")
	}

	var reply struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return "", 0, fmt.Errorf("failed to parse json response: %w", err)
	}

	label := domain.ParseSentiment(reply.Label)
	score := min(max(reply.Score, 0), 1)
	if label == domain.SentimentNeutral && reply.Label == "" {
		score = 0
	}
	return label, score, nil
}
