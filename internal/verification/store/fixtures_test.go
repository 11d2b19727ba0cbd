package store

import (
	"time"

	"github.com/google/uuid"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
)

func newTestVerification() *models.Verification {
	cfg, _ := scoring.Default().Lookup(scoring.DomainNews)
	evidence := []scoring.LayerResult{
		{Layer: scoring.LayerURL, Passed: true, Confidence: 0.6},
		{Layer: scoring.LayerAI, Passed: true, Confidence: 0.85},
	}
	linear := scoring.ScoreLinear(cfg, evidence)
	bayesian := scoring.ScoreBayesian(cfg, evidence)
	return &models.Verification{
		ID:        uuid.New(),
		Reference: models.Reference{URL: "https://www.reuters.com/technology/ai", Type: "ARTICLE"},
		Domain:    scoring.DomainNews,
		Evidence:  evidence,
		Linear:    &linear,
		Bayesian:  &bayesian,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Latencies: models.Latencies{scoring.LayerURL: 120 * time.Millisecond},
	}
}
