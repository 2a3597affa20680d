// Package llm executes analysis jobs against an OpenAI-compatible chat API. Summarizer produces a
// digest of a job's items, Estimator predicts what that call will cost before it is made.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/feedgate/pkg/clock"
	"github.com/umputun/feedgate/pkg/config"
	"github.com/umputun/feedgate/pkg/domain"
)

const maxAttempts = 3

var errEmptyResponse = errors.New("empty response from llm")

// Summarizer uses LLM to summarize the items of a job
type Summarizer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	clock     clock.Clock
}

// NewSummarizer creates a new LLM summarizer
func NewSummarizer(cfg config.LLMConfig, clk clock.Clock) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}
	if clk == nil {
		clk = clock.Real{}
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
		clock:     clk,
	}
}

// Execute generates the digest for a job. Cost is computed from the token usage the API reports,
// summed over all attempts.
func (s *Summarizer) Execute(ctx context.Context, input domain.AnalysisInput) (domain.JobResult, error) {
	if len(input.Items) == 0 {
		return domain.JobResult{}, fmt.Errorf("job %d has no items: %w", input.JobID, domain.ErrInvalidArgument)
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	prompt := buildPrompt(input.Items, s.config.MaxContentChars)

	var cost float64
	// retry up to 3 times if we get an empty answer
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, s.request(prompt))
		if err != nil {
			return domain.JobResult{}, fmt.Errorf("llm request failed: %w", err)
		}
		cost += s.usageCost(resp.Usage)

		text, err := responseText(resp)
		if errors.Is(err, errEmptyResponse) {
			lgr.Printf("[DEBUG] job %d: empty llm response, attempt %d of %d", input.JobID, attempt, maxAttempts)
			continue
		}
		if err != nil {
			return domain.JobResult{}, err
		}

		return domain.JobResult{
			JobID:       input.JobID,
			FeedID:      input.FeedID,
			WordCount:   len(strings.Fields(text)),
			CostUSD:     cost,
			ArtifactRef: fmt.Sprintf("summary/%d/%d", input.FeedID, input.JobID),
			Content:     text,
			CreatedAt:   s.clock.Now().UTC(),
		}, nil
	}

	return domain.JobResult{}, fmt.Errorf("failed after %d attempts: %w", maxAttempts, errEmptyResponse)
}

func (s *Summarizer) request(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Temperature: float32(s.config.Temperature),
		MaxTokens:   s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

// usageCost converts reported token usage to USD
func (s *Summarizer) usageCost(u openai.Usage) float64 {
	return float64(u.PromptTokens)/1000*s.config.InputPrice + float64(u.CompletionTokens)/1000*s.config.OutputPrice
}

func responseText(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
