package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"uphera/internal/config"

	"google.golang.org/genai"
)

var (
	ErrNotConfigured = errors.New("gemini api key not configured")
	ErrEmptyResponse = errors.New("empty model response")
)

type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32

	maxRetries     int
	baseDelay      time.Duration
	requestTimeout time.Duration
	logger         *log.Logger
}

func NewGemini(ctx context.Context, cfg config.GeminiConfig, logger *log.Logger) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client:         client,
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxOutputTokens,
		maxRetries:     2,
		baseDelay:      time.Second,
		requestTimeout: 60 * time.Second,
		logger:         logger,
	}, nil
}

// Options tunes a single call. Zero fields keep the client defaults; the
// temperature bounds clamp the configured temperature.
type Options struct {
	MaxOutputTokens int32
	MinTemperature  float32
	MaxTemperature  float32
}

// Generate sends one user message under systemPrompt and returns the reply text.
func (g *Gemini) Generate(ctx context.Context, systemPrompt, message string, opts Options) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("message cannot be empty")
	}

	cfg := g.contentConfig(systemPrompt, opts)

	timeoutCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("gemini retry aborted: %w", timeoutCtx.Err())
			}
		}

		start := time.Now()
		res, err := g.client.Models.GenerateContent(timeoutCtx, g.model, genai.Text(message), cfg)
		if err == nil {
			text := strings.TrimSpace(res.Text())
			if text == "" {
				return "", ErrEmptyResponse
			}
			if g.logger != nil {
				g.logger.Printf("Gemini generate | model=%s attempt=%d latency=%s", g.model, attempt+1, time.Since(start))
			}
			return text, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		if g.logger != nil {
			g.logger.Printf("Gemini retryable error | attempt=%d error=%v", attempt+1, err)
		}
	}
	return "", fmt.Errorf("gemini generate: retries exhausted: %w", lastErr)
}

func (g *Gemini) contentConfig(systemPrompt string, opts Options) *genai.GenerateContentConfig {
	temp := g.temperature
	if opts.MaxTemperature > 0 && temp > opts.MaxTemperature {
		temp = opts.MaxTemperature
	}
	if temp < opts.MinTemperature {
		temp = opts.MinTemperature
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	switch {
	case opts.MaxOutputTokens > 0:
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	case g.maxTokens > 0:
		cfg.MaxOutputTokens = g.maxTokens
	}
	if strings.TrimSpace(systemPrompt) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return cfg
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF")
}
