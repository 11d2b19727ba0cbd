package handler

import (
	"time"

	"github.com/google/uuid"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
)

// VerifyResponse is the HTTP response for verification endpoints.
type VerifyResponse struct {
	ID        uuid.UUID             `json:"id"`
	Domain    scoring.Domain        `json:"domain"`
	Verdict   scoring.Verdict       `json:"verdict"`
	Reference models.Reference      `json:"reference"`
	Evidence  []scoring.LayerResult `json:"evidence"`
	Linear    *LinearResponse       `json:"linear,omitempty"`
	Bayesian  *BayesianResponse     `json:"bayesian,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// LinearResponse is the linear model portion of the response.
type LinearResponse struct {
	Score     float64         `json:"score"`
	Threshold float64         `json:"threshold"`
	Verdict   scoring.Verdict `json:"verdict"`
}

// BayesianResponse is the Bayesian model portion of the response.
type BayesianResponse struct {
	Posterior     float64                     `json:"posterior"`
	PriorLogOdds  float64                     `json:"prior_log_odds"`
	Threshold     float64                     `json:"threshold"`
	Verdict       scoring.Verdict             `json:"verdict"`
	Contributions map[scoring.LayerID]float64 `json:"log_odds_contributions"`
}

// FromVerification converts a verification to its HTTP response.
func FromVerification(v *models.Verification) *VerifyResponse {
	resp := &VerifyResponse{
		ID:        v.ID,
		Domain:    v.Domain,
		Verdict:   v.Verdict(),
		Reference: v.Reference,
		Evidence:  v.Evidence,
		CreatedAt: v.CreatedAt,
	}
	if resp.Evidence == nil {
		resp.Evidence = []scoring.LayerResult{}
	}
	if v.Linear != nil {
		resp.Linear = &LinearResponse{
			Score:     v.Linear.Score,
			Threshold: v.Linear.Threshold,
			Verdict:   v.Linear.Verdict,
		}
	}
	if v.Bayesian != nil {
		resp.Bayesian = &BayesianResponse{
			Posterior:     v.Bayesian.Posterior,
			PriorLogOdds:  v.Bayesian.PriorLogOdds,
			Threshold:     v.Bayesian.Threshold,
			Verdict:       v.Bayesian.Verdict,
			Contributions: v.Bayesian.Contributions,
		}
	}
	return resp
}

// ClassifyResponse is the HTTP response for POST /v1/classify.
type ClassifyResponse struct {
	Domain scoring.Domain `json:"domain"`
}

// LayerResponse describes one configured layer.
type LayerResponse struct {
	ID          scoring.LayerID `json:"id"`
	Weight      float64         `json:"weight"`
	Description string          `json:"description,omitempty"`
	Sensitivity float64         `json:"sensitivity"`
	Specificity float64         `json:"specificity"`
}

// DomainResponse describes one domain configuration.
type DomainResponse struct {
	Domain            scoring.Domain  `json:"domain"`
	Label             string          `json:"label,omitempty"`
	Description       string          `json:"description,omitempty"`
	Threshold         float64         `json:"threshold"`
	Prior             float64         `json:"prior"`
	BayesianThreshold float64         `json:"bayesian_threshold"`
	AIInstruction     string          `json:"ai_instruction"`
	Layers            []LayerResponse `json:"layers"`
	URLPatterns       []string        `json:"url_patterns"`
	TypePatterns      []string        `json:"type_patterns"`
}

// DomainsResponse lists domains in classification priority order.
type DomainsResponse struct {
	Domains []DomainResponse `json:"domains"`
}

// FromDomainConfig converts a domain configuration to its HTTP response.
func FromDomainConfig(cfg scoring.DomainConfig) DomainResponse {
	resp := DomainResponse{
		Domain:            cfg.Domain,
		Label:             cfg.Label,
		Description:       cfg.Description,
		Threshold:         cfg.Threshold,
		Prior:             cfg.Prior,
		BayesianThreshold: cfg.BayesianThreshold,
		AIInstruction:     cfg.AIInstruction,
		Layers:            make([]LayerResponse, 0, len(cfg.Layers)),
		URLPatterns:       make([]string, 0, len(cfg.URLPatterns)),
		TypePatterns:      append([]string{}, cfg.TypePatterns...),
	}
	for _, l := range cfg.Layers {
		resp.Layers = append(resp.Layers, LayerResponse{
			ID:          l.ID,
			Weight:      l.Weight,
			Description: l.Description,
			Sensitivity: l.Bayesian.Sensitivity,
			Specificity: l.Bayesian.Specificity,
		})
	}
	for _, p := range cfg.URLPatterns {
		resp.URLPatterns = append(resp.URLPatterns, p.String())
	}
	return resp
}
