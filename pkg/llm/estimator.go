package llm

import (
	"math"

	"github.com/umputun/feedgate/pkg/config"
	"github.com/umputun/feedgate/pkg/domain"
)

// charsPerToken is the usual ratio for English text with BPE tokenizers
const charsPerToken = 4

// Estimator predicts the cost of a summary before the call is made. The estimate assumes the
// prompt as it will be sent and a completion of the full MaxTokens, so it is an upper bound for
// the output part.
type Estimator struct {
	maxContent  int
	maxTokens   int
	inputPrice  float64
	outputPrice float64
	systemChars int
}

// NewEstimator makes an Estimator with the prices and limits of the LLM config
func NewEstimator(cfg config.LLMConfig) *Estimator {
	system := cfg.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}
	return &Estimator{
		maxContent:  cfg.MaxContentChars,
		maxTokens:   cfg.MaxTokens,
		inputPrice:  cfg.InputPrice,
		outputPrice: cfg.OutputPrice,
		systemChars: len(system),
	}
}

// Estimate returns the expected cost in USD
func (e *Estimator) Estimate(input domain.AnalysisInput) float64 {
	chars := e.systemChars + len(buildPrompt(input.Items, e.maxContent))
	promptTokens := math.Ceil(float64(chars) / charsPerToken)
	return promptTokens/1000*e.inputPrice + float64(e.maxTokens)/1000*e.outputPrice
}
