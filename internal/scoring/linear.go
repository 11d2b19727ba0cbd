package scoring

// LinearResult is the weighted-sum model's output.
type LinearResult struct {
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Verdict   Verdict `json:"verdict"`
}

// ScoreLinear sums weight*confidence over the domain's configured layers.
// A layer with no evidence earns no credit; evidence for layers the domain
// does not configure is ignored.
func ScoreLinear(cfg DomainConfig, evidence []LayerResult) LinearResult {
	byLayer := indexEvidence(evidence)

	score := 0.0
	for _, layer := range cfg.Layers {
		if r, ok := byLayer[layer.ID]; ok {
			score += layer.Weight * r.Confidence
		}
	}

	return LinearResult{
		Score:     score,
		Threshold: cfg.Threshold,
		Verdict:   verdictFor(score, cfg.Threshold),
	}
}
