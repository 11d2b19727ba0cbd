package layers

import (
	"context"

	"citeguard/internal/scoring"
	"citeguard/pkg/platform/circuit"
)

// Guarded puts a circuit breaker in front of a layer. Only retryable
// failures count against the breaker; a reference the layer cannot check says
// nothing about the upstream's health.
type Guarded struct {
	layer   Layer
	breaker *circuit.Breaker
}

// NewGuarded wraps l with b.
func NewGuarded(l Layer, b *circuit.Breaker) *Guarded {
	return &Guarded{layer: l, breaker: b}
}

// ID returns the wrapped layer's id.
func (g *Guarded) ID() scoring.LayerID {
	return g.layer.ID()
}

// Breaker exposes the breaker for health reporting.
func (g *Guarded) Breaker() *circuit.Breaker {
	return g.breaker
}

// Check runs the wrapped layer unless the breaker is open. A rejected call is
// an outage that is not worth retrying.
func (g *Guarded) Check(ctx context.Context, req Request) (scoring.LayerResult, error) {
	if !g.breaker.Allow() {
		return scoring.LayerResult{}, &LayerError{
			Category:  ErrorOutage,
			Layer:     g.layer.ID(),
			Message:   "circuit open",
			Retryable: false,
		}
	}

	res, err := g.layer.Check(ctx, req)
	if err != nil && IsRetryable(err) {
		g.breaker.RecordFailure()
		return res, err
	}
	g.breaker.RecordSuccess()
	return res, err
}
