package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"citeguard/internal/evidence/layers"
	"citeguard/internal/scoring"
	"citeguard/internal/verification/cache"
	"citeguard/internal/verification/metrics"
	"citeguard/internal/verification/models"
	dErrors "citeguard/pkg/domain-errors"
	"citeguard/pkg/platform/sentinel"
	"citeguard/pkg/requestcontext"
)

const (
	defaultLayerTimeout = 3 * time.Second
	defaultMaxRetries   = 2
	defaultRetryBackoff = 50 * time.Millisecond
)

type Store interface {
	Save(ctx context.Context, v *models.Verification) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
}

type Cache interface {
	Get(ctx context.Context, fingerprint string) (*models.Verification, error)
	Set(ctx context.Context, fingerprint string, v *models.Verification) error
}

type Publisher interface {
	Publish(ctx context.Context, ev models.OutcomeEvent) error
}

// Service classifies references, gathers missing evidence and scores it
// against the domain's configuration.
type Service struct {
	registry   *scoring.Registry
	classifier *scoring.Classifier
	scorer     *scoring.Scorer
	store      Store

	layers    *layers.Set
	cache     Cache
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	layerTimeout time.Duration
	maxRetries   uint64
	retryBackoff time.Duration
}

type Option func(s *Service)

func WithLayers(set *layers.Set) Option {
	return func(s *Service) {
		if set != nil {
			s.layers = set
		}
	}
}

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLayerTimeout bounds evidence gathering for one verification.
func WithLayerTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.layerTimeout = d
		}
	}
}

// WithRetryPolicy sets how often a retryable layer failure is retried and
// the initial backoff between attempts.
func WithRetryPolicy(maxRetries uint64, initial time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = maxRetries
		if initial > 0 {
			s.retryBackoff = initial
		}
	}
}

// New constructs a Service.
func New(registry *scoring.Registry, store Store, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("domain registry is required")
	}
	if store == nil {
		return nil, errors.New("verification store is required")
	}

	s := &Service{
		registry:     registry,
		classifier:   scoring.NewClassifier(registry),
		scorer:       scoring.NewScorer(registry),
		store:        store,
		layers:       layers.NewSet(),
		logger:       slog.Default(),
		tracer:       otel.Tracer("citeguard/verification"),
		layerTimeout: defaultLayerTimeout,
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Verify scores a reference with the requested models and records the result.
func (s *Service) Verify(ctx context.Context, req models.VerifyRequest) (*models.Verification, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.Verify")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	for _, m := range req.Models {
		if _, err := scoring.StrategyFor(m); err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
	}

	domain, err := s.resolveDomain(req)
	if err != nil {
		return nil, err
	}
	cfg, err := s.registry.Lookup(domain)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain configuration")
	}
	span.SetAttributes(attribute.String("citeguard.domain", string(domain)))

	requestID := requestcontext.RequestID(ctx)

	// Caller-supplied evidence makes the result request-specific, so only
	// fully gathered verifications are cached.
	var fingerprint string
	if s.cache != nil && len(req.Evidence) == 0 {
		fingerprint = cache.Fingerprint(domain, req.Reference, req.Models)
		if cached, ok := s.cachedVerification(ctx, fingerprint, requestID); ok {
			span.SetAttributes(attribute.Bool("citeguard.cache_hit", true))
			return cached, nil
		}
	}

	evidence, latencies := s.gatherEvidence(ctx, req, cfg)

	v := &models.Verification{
		ID:        uuid.New(),
		Reference: req.Reference,
		Domain:    domain,
		Evidence:  evidence,
		CreatedAt: requestcontext.Now(ctx).UTC(),
		Latencies: latencies,
	}
	if err := s.score(v, req.Models); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		return nil, err
	}

	if err := s.store.Save(ctx, v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save verification")
	}

	if fingerprint != "" {
		if err := s.cache.Set(ctx, fingerprint, v); err != nil {
			s.logger.WarnContext(ctx, "failed to cache verification",
				"request_id", requestID,
				"verification_id", v.ID,
				"error", err,
			)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, models.NewOutcomeEvent(v, requestID)); err != nil {
			s.logger.WarnContext(ctx, "failed to publish verification outcome",
				"request_id", requestID,
				"verification_id", v.ID,
				"error", err,
			)
		}
	}

	s.recordOutcome(v)
	s.metrics.ObserveVerifyLatency(time.Since(start))
	span.SetAttributes(attribute.String("citeguard.verdict", string(v.Verdict())))
	return v, nil
}

// Classify returns the domain a reference would be verified under.
func (s *Service) Classify(_ context.Context, ref models.Reference) scoring.Domain {
	ref.Normalize()
	return s.classifier.Classify(ref.Classification())
}

// Get loads a stored verification.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification")
	}
	return v, nil
}

// Domains lists every configured domain in classification priority order.
func (s *Service) Domains(_ context.Context) []scoring.DomainConfig {
	names := s.registry.Domains()
	out := make([]scoring.DomainConfig, 0, len(names))
	for _, d := range names {
		cfg, err := s.registry.Lookup(d)
		if err != nil {
			continue
		}
		out = append(out, cfg)
	}
	return out
}

// Domain returns one domain's configuration.
func (s *Service) Domain(_ context.Context, name string) (scoring.DomainConfig, error) {
	cfg, err := s.registry.Lookup(scoring.Domain(strings.ToUpper(strings.TrimSpace(name))))
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownDomain) {
			return scoring.DomainConfig{}, dErrors.New(dErrors.CodeNotFound, "domain not found")
		}
		return scoring.DomainConfig{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load domain")
	}
	return cfg, nil
}

func (s *Service) resolveDomain(req models.VerifyRequest) (scoring.Domain, error) {
	if req.Domain == "" {
		return s.classifier.Classify(req.Reference.Classification()), nil
	}
	domain := scoring.Domain(strings.ToUpper(strings.TrimSpace(string(req.Domain))))
	if !s.registry.Has(domain) {
		return "", dErrors.New(dErrors.CodeValidation, "unknown domain "+string(domain))
	}
	return domain, nil
}

func (s *Service) cachedVerification(ctx context.Context, fingerprint, requestID string) (*models.Verification, bool) {
	v, err := s.cache.Get(ctx, fingerprint)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return v, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "verdict cache lookup failed",
			"request_id", requestID,
			"error", err,
		)
	}
	return nil, false
}

func (s *Service) score(v *models.Verification, ms []scoring.Model) error {
	for _, m := range ms {
		switch m {
		case scoring.ModelLinear:
			r, err := s.scorer.Linear(v.Domain, v.Evidence)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "linear scoring failed")
			}
			v.Linear = &r
		case scoring.ModelBayesian:
			r, err := s.scorer.Bayesian(v.Domain, v.Evidence)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "bayesian scoring failed")
			}
			v.Bayesian = &r
		}
	}
	return nil
}

func (s *Service) recordOutcome(v *models.Verification) {
	domain := string(v.Domain)
	if v.Linear != nil {
		s.metrics.IncrementVerdict(string(scoring.ModelLinear), domain, string(v.Linear.Verdict))
	}
	if v.Bayesian != nil {
		s.metrics.IncrementVerdict(string(scoring.ModelBayesian), domain, string(v.Bayesian.Verdict))
		s.metrics.ObservePosterior(domain, v.Bayesian.Posterior)
	}
}
