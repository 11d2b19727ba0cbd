package scoring

import "math"

// uninformativeConfidence stands in for a layer that reported nothing.
const uninformativeConfidence = 0.5

// BayesianResult is the log-odds model's output.
type BayesianResult struct {
	Posterior    float64 `json:"posterior"`
	PriorLogOdds float64 `json:"prior_log_odds"`
	LogOdds      float64 `json:"log_odds"`
	Threshold    float64 `json:"threshold"`
	Verdict      Verdict `json:"verdict"`

	// Contributions maps each configured layer to its log-odds shift.
	Contributions map[LayerID]float64 `json:"log_odds_contributions"`

	// Layers lists the contribution keys in configured order.
	Layers []LayerID `json:"layers"`
}

// ScoreBayesian fuses layer evidence with the domain prior in log-odds space:
//
//	prior_log_odds = ln(prior / (1 - prior))
//	delta(layer)   = c*ln(LR+) + (1-c)*ln(LR-)
//	posterior      = sigmoid(prior_log_odds + sum(delta))
//
// A configured layer without evidence uses c = 0.5. That is only a zero
// shift when sensitivity = 1 - specificity. Parameters are not clamped, so
// sensitivity or specificity at 0 or 1 yield NaN or Inf here.
func ScoreBayesian(cfg DomainConfig, evidence []LayerResult) BayesianResult {
	byLayer := indexEvidence(evidence)

	prior := cfg.PriorLogOdds()
	logOdds := prior
	contributions := make(map[LayerID]float64, len(cfg.Layers))
	layers := make([]LayerID, 0, len(cfg.Layers))

	for _, layer := range cfg.Layers {
		lrPos, lrNeg := layer.Bayesian.LikelihoodRatios()

		c := uninformativeConfidence
		if r, ok := byLayer[layer.ID]; ok {
			c = r.Confidence
		}

		delta := c*math.Log(lrPos) + (1-c)*math.Log(lrNeg)
		contributions[layer.ID] = delta
		layers = append(layers, layer.ID)
		logOdds += delta
	}

	posterior := sigmoid(logOdds)
	return BayesianResult{
		Posterior:     posterior,
		PriorLogOdds:  prior,
		LogOdds:       logOdds,
		Threshold:     cfg.BayesianThreshold,
		Verdict:       verdictFor(posterior, cfg.BayesianThreshold),
		Contributions: contributions,
		Layers:        layers,
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
