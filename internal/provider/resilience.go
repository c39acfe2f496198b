package provider

import (
	"context"
	"fmt"
	"time"

	"docpipe/internal/config"
	"docpipe/internal/models"
	"docpipe/pkg/circuitbreaker"
	"docpipe/pkg/ratelimiter"
)

// retryDelay is how long a rate-limited call waits before asking for a token again.
const retryDelay = 50 * time.Millisecond

// ResilientInsightProvider wraps an InsightProvider with rate limiting and
// circuit breaking so the pipeline respects the external capability's limits.
// A rate-limited call blocks until a token is available or the context ends;
// an open circuit fails fast with circuitbreaker.ErrCircuitOpen.
type ResilientInsightProvider struct {
	inner   InsightProvider
	limiter ratelimiter.RateLimiter       // nil when disabled
	breaker circuitbreaker.CircuitBreaker // nil when disabled
}

// WrapInsightProvider applies the middleware configured in cfg to the provider.
// With both middlewares disabled the provider is returned as-is.
func WrapInsightProvider(inner InsightProvider, cfg config.MiddlewareConfig) (InsightProvider, error) {
	var limiter ratelimiter.RateLimiter
	var breaker circuitbreaker.CircuitBreaker

	if cfg.RateLimiter.Enabled {
		l, err := createRateLimiter(cfg.RateLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		limiter = l
	}
	if cfg.CircuitBreaker.Enabled {
		b, err := createCircuitBreaker(cfg.CircuitBreaker)
		if err != nil {
			return nil, fmt.Errorf("failed to create circuit breaker: %w", err)
		}
		breaker = b
	}
	if limiter == nil && breaker == nil {
		return inner, nil
	}
	return &ResilientInsightProvider{inner: inner, limiter: limiter, breaker: breaker}, nil
}

// do runs a single provider call through the configured middleware.
func (p *ResilientInsightProvider) do(ctx context.Context, call func() (interface{}, error)) (interface{}, error) {
	if p.limiter != nil {
		for !p.limiter.Allow() {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	if p.breaker != nil {
		return p.breaker.Execute(call)
	}
	return call()
}

func (p *ResilientInsightProvider) DetectPII(ctx context.Context, text string) ([]models.PIISpan, error) {
	res, err := p.do(ctx, func() (interface{}, error) { return p.inner.DetectPII(ctx, text) })
	if err != nil {
		return nil, err
	}
	return res.([]models.PIISpan), nil
}

func (p *ResilientInsightProvider) DetectSentiment(ctx context.Context, text string) (*models.Sentiment, error) {
	res, err := p.do(ctx, func() (interface{}, error) { return p.inner.DetectSentiment(ctx, text) })
	if err != nil {
		return nil, err
	}
	return res.(*models.Sentiment), nil
}

func (p *ResilientInsightProvider) DetectKeyPhrases(ctx context.Context, text string) ([]models.Annotation, error) {
	res, err := p.do(ctx, func() (interface{}, error) { return p.inner.DetectKeyPhrases(ctx, text) })
	if err != nil {
		return nil, err
	}
	return res.([]models.Annotation), nil
}

func (p *ResilientInsightProvider) DetectEntities(ctx context.Context, text string) ([]models.Annotation, error) {
	res, err := p.do(ctx, func() (interface{}, error) { return p.inner.DetectEntities(ctx, text) })
	if err != nil {
		return nil, err
	}
	return res.([]models.Annotation), nil
}

// createRateLimiter initializes a rate limiter based on the configuration.
func createRateLimiter(cfg config.RateLimiterConfig) (ratelimiter.RateLimiter, error) {
	algorithm := cfg.Algorithm
	if algorithm == "" {
		algorithm = "tokenBucket"
	}
	switch algorithm {
	case "tokenBucket":
		return ratelimiter.NewTokenBucket(cfg.TokenBucket.Rate, cfg.TokenBucket.Capacity), nil
	case "slidingCounter":
		window, err := time.ParseDuration(cfg.SlidingCounter.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid sliding counter window: %w", err)
		}
		return ratelimiter.NewSlidingWindowCounter(cfg.SlidingCounter.Limit, window, cfg.SlidingCounter.NumBuckets), nil
	default:
		return nil, fmt.Errorf("unsupported rate limiter algorithm: %s", algorithm)
	}
}

// createCircuitBreaker initializes a circuit breaker based on the configuration.
func createCircuitBreaker(cfg config.CircuitBreakerConfig) (circuitbreaker.CircuitBreaker, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout), nil
}
