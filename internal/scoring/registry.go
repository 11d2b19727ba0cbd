package scoring

import (
	"errors"
	"fmt"
	"math"
)

// weightTolerance bounds how far a domain's weights may drift from 1.0.
const weightTolerance = 1e-5

var (
	// ErrUnknownDomain is returned when a domain tag has no configuration.
	ErrUnknownDomain = errors.New("unknown domain")

	// ErrInvalidConfig wraps every construction-time invariant violation.
	ErrInvalidConfig = errors.New("invalid domain configuration")
)

// Registry is the immutable table of domain configurations. The order in
// which domains were given to NewRegistry is the classification priority.
// A Registry is safe for concurrent use; nothing mutates it after
// construction.
type Registry struct {
	order    []Domain
	configs  map[Domain]DomainConfig
	fallback Domain
}

// NewRegistry validates configs and builds a registry. fallback names the
// catch-all domain the classifier returns when nothing matches; it must be
// one of configs.
func NewRegistry(fallback Domain, configs ...DomainConfig) (*Registry, error) {
	r := &Registry{
		order:    make([]Domain, 0, len(configs)),
		configs:  make(map[Domain]DomainConfig, len(configs)),
		fallback: fallback,
	}

	var errs []error
	if len(configs) == 0 {
		errs = append(errs, errors.New("no domains configured"))
	}
	for _, cfg := range configs {
		if _, dup := r.configs[cfg.Domain]; dup {
			errs = append(errs, fmt.Errorf("domain %s configured twice", cfg.Domain))
			continue
		}
		errs = append(errs, cfg.Validate()...)
		r.order = append(r.order, cfg.Domain)
		r.configs[cfg.Domain] = cfg.clone()
	}
	if _, ok := r.configs[fallback]; !ok && len(configs) > 0 {
		errs = append(errs, fmt.Errorf("fallback domain %q is not configured", fallback))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return r, nil
}

// MustRegistry is NewRegistry for compiled-in configuration.
func MustRegistry(fallback Domain, configs ...DomainConfig) *Registry {
	r, err := NewRegistry(fallback, configs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns a copy of the configuration for domain.
func (r *Registry) Lookup(domain Domain) (DomainConfig, error) {
	cfg, ok := r.configs[domain]
	if !ok {
		return DomainConfig{}, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	return cfg.clone(), nil
}

// Has reports whether domain is configured.
func (r *Registry) Has(domain Domain) bool {
	_, ok := r.configs[domain]
	return ok
}

// Domains lists configured domains in priority order.
func (r *Registry) Domains() []Domain {
	return append([]Domain(nil), r.order...)
}

// Fallback is the catch-all domain.
func (r *Registry) Fallback() Domain {
	return r.fallback
}

// Validate checks the construction-time invariants of a single domain and
// returns every violation found.
func (c DomainConfig) Validate() []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("domain %s: "+format, append([]any{c.Domain}, args...)...))
	}

	if c.Domain == "" {
		fail("empty domain tag")
	}
	if len(c.Layers) == 0 {
		fail("no layers configured")
	}

	seen := make(map[LayerID]struct{}, len(c.Layers))
	for _, l := range c.Layers {
		if _, dup := seen[l.ID]; dup {
			fail("layer %s configured twice", l.ID)
		}
		seen[l.ID] = struct{}{}

		if l.Weight < 0 || math.IsNaN(l.Weight) {
			fail("layer %s weight %v is negative", l.ID, l.Weight)
		}
		if !openUnit(l.Bayesian.Sensitivity) {
			fail("layer %s sensitivity %v outside (0,1)", l.ID, l.Bayesian.Sensitivity)
		}
		if !openUnit(l.Bayesian.Specificity) {
			fail("layer %s specificity %v outside (0,1)", l.ID, l.Bayesian.Specificity)
		}
	}

	if len(c.Layers) > 0 {
		if total := c.TotalWeight(); math.Abs(total-1) > weightTolerance {
			fail("layer weights sum to %.6f, want 1.0", total)
		}
	}
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		fail("threshold %v outside (0,1]", c.Threshold)
	}
	if !openUnit(c.Prior) {
		fail("prior %v outside (0,1)", c.Prior)
	}
	if !openUnit(c.BayesianThreshold) {
		fail("bayesian threshold %v outside (0,1)", c.BayesianThreshold)
	}
	return errs
}

func openUnit(v float64) bool {
	return v > 0 && v < 1
}
