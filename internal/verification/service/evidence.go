package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"citeguard/internal/evidence/layers"
	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
)

// gatherEvidence runs every configured layer the caller did not supply, in
// parallel under the layer timeout. A failing layer is logged and left out;
// scoring treats it as absent.
func (s *Service) gatherEvidence(ctx context.Context, req models.VerifyRequest, cfg scoring.DomainConfig) ([]scoring.LayerResult, models.Latencies) {
	supplied := make(map[scoring.LayerID]bool, len(req.Evidence))
	for _, e := range req.Evidence {
		supplied[e.Layer] = true
	}

	var pending []layers.Layer
	for _, lc := range cfg.Layers {
		if supplied[lc.ID] {
			continue
		}
		if l, ok := s.layers.Get(lc.ID); ok {
			pending = append(pending, l)
		}
	}

	evidence := append([]scoring.LayerResult(nil), req.Evidence...)
	if len(pending) == 0 {
		return evidence, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.layerTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "verification.gatherEvidence")
	defer span.End()

	layerReq := layers.Request{
		Reference:     req.Reference.LayerReference(),
		Domain:        cfg.Domain,
		AIInstruction: cfg.AIInstruction,
	}

	results := make([]*scoring.LayerResult, len(pending))
	durations := make([]time.Duration, len(pending))

	// Layer failures are not fatal, so goroutines never return an error and
	// one slow layer cannot cancel the others.
	var g errgroup.Group
	for i, l := range pending {
		g.Go(func() error {
			start := time.Now()
			res, err := s.checkLayer(ctx, l, layerReq)
			durations[i] = time.Since(start)
			s.metrics.ObserveLayerLatency(string(l.ID()), durations[i])

			if err == nil && !(res.Confidence >= 0 && res.Confidence <= 1) {
				err = layers.NewLayerError(layers.ErrorBadData, l.ID(), "confidence outside [0,1]", nil)
			}
			if err != nil {
				s.metrics.IncrementLayerFailure(string(l.ID()), string(layers.CategoryOf(err)))
				s.logger.WarnContext(ctx, "evidence layer failed",
					"layer", l.ID(),
					"domain", cfg.Domain,
					"category", layers.CategoryOf(err),
					"error", err,
				)
				return nil
			}
			res.Layer = l.ID()
			results[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	latencies := make(models.Latencies, len(pending))
	gathered := 0
	for i, l := range pending {
		latencies[l.ID()] = durations[i]
		if results[i] != nil {
			evidence = append(evidence, *results[i])
			gathered++
		}
	}
	span.SetAttributes(
		attribute.Int("citeguard.layers_pending", len(pending)),
		attribute.Int("citeguard.layers_gathered", gathered),
	)
	return evidence, latencies
}

// checkLayer calls a layer, retrying retryable failures with exponential
// backoff until the retry budget or the context runs out.
func (s *Service) checkLayer(ctx context.Context, l layers.Layer, req layers.Request) (scoring.LayerResult, error) {
	var res scoring.LayerResult
	op := func() error {
		r, err := l.Check(ctx, req)
		if err != nil {
			if layers.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		res = r
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.retryBackoff
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, s.maxRetries), ctx)

	err := backoff.Retry(op, policy)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		var le *layers.LayerError
		if !errors.As(err, &le) {
			err = layers.NewLayerError(layers.ErrorTimeout, l.ID(), "layer timed out", err)
		}
	}
	return res, err
}
