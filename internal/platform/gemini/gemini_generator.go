// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/tbraddock/flashdeck-api/internal/config"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/generation"
	"google.golang.org/genai"
)

// defaultPromptTemplate instructs the model to return strict JSON the
// responseSchema can parse.
const defaultPromptTemplate = `You are a flashcard author. Create exactly {{.Count}} question-and-answer flashcards about the following topic:

{{.Topic}}

Respond with JSON only, in this shape:
{"cards": [{"front": "question text", "back": "answer text"}]}

Keep each front under 1000 characters and each back under 1000 characters.`

// promptData is the input to the prompt template.
type promptData struct {
	Topic string
	Count int
}

// responseSchema mirrors the JSON document the model is asked to produce.
type responseSchema struct {
	Cards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"cards"`
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to generate flashcard candidates from a topic.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. Returns generation.ErrInvalidConfig if the API key or model
// name is missing.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcard").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards implements generation.Generator.GenerateCards
// The model's output is untrusted: every candidate is run through the same
// field validation as manually entered cards, and a response containing any
// invalid candidate is rejected as a whole.
func (g *GeminiGenerator) GenerateCards(
	ctx context.Context,
	topic string,
	count int,
) ([]domain.CardContent, error) {
	if topic == "" {
		return nil, generation.ErrEmptyTopic
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: requested count must be positive", generation.ErrGenerationFailed)
	}

	prompt, err := g.createPrompt(topic, count)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if len(response.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	candidates := make([]domain.CardContent, 0, len(response.Cards))
	for _, c := range response.Cards {
		content := domain.CardContent{Front: c.Front, Back: c.Back}
		if err := content.Validate(); err != nil {
			g.logger.WarnContext(ctx, "generated card failed validation",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
		candidates = append(candidates, content)
	}

	g.logger.InfoContext(ctx, "generated card candidates",
		slog.Int("requested", count),
		slog.Int("returned", len(candidates)))
	return candidates, nil
}

// createPrompt renders the prompt template for the given topic and count.
func (g *GeminiGenerator) createPrompt(topic string, count int) (string, error) {
	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callGeminiWithRetry calls the Gemini API, retrying transient failures with
// exponential backoff and jitter. Permanent errors (safety blocks, malformed
// responses) are returned immediately without retrying.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, transient, err := g.callGemini(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single API call. The second return value reports
// whether a failure is worth retrying.
func (g *GeminiGenerator) callGemini(ctx context.Context, prompt string) (*responseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		// API-level failures (timeouts, rate limits) are assumed transient.
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}
