package scoring

import (
	"fmt"
	"strings"
)

// Model names a scoring strategy.
type Model string

const (
	ModelLinear   Model = "linear"
	ModelBayesian Model = "bayesian"
)

// AllModels lists every model in reporting order.
var AllModels = []Model{ModelLinear, ModelBayesian}

// ParseModel validates a model name, ignoring case and surrounding space.
func ParseModel(s string) (Model, error) {
	switch m := Model(strings.ToLower(strings.TrimSpace(s))); m {
	case ModelLinear, ModelBayesian:
		return m, nil
	default:
		return "", fmt.Errorf("unknown scoring model %q", s)
	}
}

// Outcome is the shape both models share: evidence in, verdict out.
type Outcome struct {
	Model         Model               `json:"model"`
	Value         float64             `json:"value"`
	Threshold     float64             `json:"threshold"`
	Verdict       Verdict             `json:"verdict"`
	Contributions map[LayerID]float64 `json:"contributions,omitempty"`
}

// Strategy is one scoring model. Strategies are independent and never call
// each other, so callers can run both side by side.
type Strategy interface {
	Model() Model
	Evaluate(cfg DomainConfig, evidence []LayerResult) Outcome
}

// WeightedSum is the linear Strategy.
type WeightedSum struct{}

func (WeightedSum) Model() Model { return ModelLinear }

func (WeightedSum) Evaluate(cfg DomainConfig, evidence []LayerResult) Outcome {
	r := ScoreLinear(cfg, evidence)
	return Outcome{Model: ModelLinear, Value: r.Score, Threshold: r.Threshold, Verdict: r.Verdict}
}

// Bayesian is the log-odds Strategy.
type Bayesian struct{}

func (Bayesian) Model() Model { return ModelBayesian }

func (Bayesian) Evaluate(cfg DomainConfig, evidence []LayerResult) Outcome {
	r := ScoreBayesian(cfg, evidence)
	return Outcome{
		Model:         ModelBayesian,
		Value:         r.Posterior,
		Threshold:     r.Threshold,
		Verdict:       r.Verdict,
		Contributions: r.Contributions,
	}
}

// StrategyFor returns the strategy implementing m.
func StrategyFor(m Model) (Strategy, error) {
	switch m {
	case ModelLinear:
		return WeightedSum{}, nil
	case ModelBayesian:
		return Bayesian{}, nil
	default:
		return nil, fmt.Errorf("unknown scoring model %q", m)
	}
}

// Scorer binds the scoring models to a registry so callers can score by
// domain tag.
type Scorer struct {
	registry *Registry
}

// NewScorer returns a Scorer reading from reg.
func NewScorer(reg *Registry) *Scorer {
	return &Scorer{registry: reg}
}

// Linear scores evidence for domain with the weighted-sum model.
func (s *Scorer) Linear(domain Domain, evidence []LayerResult) (LinearResult, error) {
	cfg, err := s.registry.Lookup(domain)
	if err != nil {
		return LinearResult{}, err
	}
	return ScoreLinear(cfg, evidence), nil
}

// Bayesian scores evidence for domain with the log-odds model.
func (s *Scorer) Bayesian(domain Domain, evidence []LayerResult) (BayesianResult, error) {
	cfg, err := s.registry.Lookup(domain)
	if err != nil {
		return BayesianResult{}, err
	}
	return ScoreBayesian(cfg, evidence), nil
}

// Evaluate runs each requested model over the same evidence.
func (s *Scorer) Evaluate(domain Domain, evidence []LayerResult, models ...Model) ([]Outcome, error) {
	cfg, err := s.registry.Lookup(domain)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		models = AllModels
	}
	outcomes := make([]Outcome, 0, len(models))
	for _, m := range models {
		strategy, err := StrategyFor(m)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, strategy.Evaluate(cfg, evidence))
	}
	return outcomes, nil
}
