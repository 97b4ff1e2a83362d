package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gigpaisa/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// LLMService wraps the GigaChat text-generation client. A single failed call
// is enough for the caller to switch to the deterministic fallback, so there
// are no retries here; the circuit breaker only keeps a flapping upstream from
// eating the generation timeout on every request.
type LLMService struct {
	client  *gigago.Client
	model   *gigago.GenerativeModel
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewLLMService(cfg *config.GigaChatConfig, timeout time.Duration, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.Temperature = 0.1

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "gigachat",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("LLM circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &LLMService{
		client:  client,
		model:   model,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate runs a single bounded text-generation call. Timeouts, transport
// errors, and an open breaker all surface as plain errors; the caller decides
// what failure means.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.model.Generate(ctx, []gigago.Message{
			{Role: gigago.RoleUser, Content: prompt},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from LLM")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
