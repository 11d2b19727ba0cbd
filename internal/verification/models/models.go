// Package models holds the verification records shared by the service, its
// stores and its transports.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"citeguard/internal/evidence/layers"
	"citeguard/internal/scoring"
	dErrors "citeguard/pkg/domain-errors"
)

// Reference is a citation submitted for verification.
type Reference struct {
	DOI   string `json:"doi,omitempty"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Claim string `json:"claim,omitempty"`
}

// Normalize trims every field and upper-cases the type token.
func (r *Reference) Normalize() {
	r.DOI = strings.TrimSpace(r.DOI)
	r.URL = strings.TrimSpace(r.URL)
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Title = strings.TrimSpace(r.Title)
	r.Claim = strings.TrimSpace(r.Claim)
}

// IsEmpty reports whether the reference carries nothing to verify.
func (r Reference) IsEmpty() bool {
	return r.DOI == "" && r.URL == "" && r.Title == "" && r.Claim == ""
}

// Classification returns the fields the domain classifier looks at.
func (r Reference) Classification() scoring.Reference {
	return scoring.Reference{DOI: r.DOI, URL: r.URL, Type: r.Type}
}

// LayerReference returns the reference as evidence layers see it.
func (r Reference) LayerReference() layers.Reference {
	return layers.Reference{DOI: r.DOI, URL: r.URL, Type: r.Type, Title: r.Title, Claim: r.Claim}
}

// VerifyRequest asks for a reference to be scored.
type VerifyRequest struct {
	Reference Reference

	// Domain pins the domain and skips classification when set.
	Domain scoring.Domain

	// Evidence is caller-supplied layer output. Layers missing here are
	// gathered from the registered evidence layers.
	Evidence []scoring.LayerResult

	// Models selects the scoring models to run. Empty means all.
	Models []scoring.Model
}

// Validate enforces the request boundary: something to verify and
// confidences within [0,1].
func (r *VerifyRequest) Validate() error {
	r.Reference.Normalize()
	if r.Reference.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "reference must carry a doi, url, title or claim")
	}
	for _, e := range r.Evidence {
		if e.Layer == "" {
			return dErrors.New(dErrors.CodeValidation, "evidence layer is required")
		}
		if !(e.Confidence >= 0 && e.Confidence <= 1) {
			return dErrors.New(dErrors.CodeValidation, "evidence confidence for "+string(e.Layer)+" must be within [0,1]")
		}
	}
	if len(r.Models) == 0 {
		r.Models = append([]scoring.Model(nil), scoring.AllModels...)
	}
	return nil
}

// Latencies records per-layer evidence gathering time.
type Latencies map[scoring.LayerID]time.Duration

// Verification is a scored reference. Linear and Bayesian are nil when that
// model was not requested.
type Verification struct {
	ID        uuid.UUID               `json:"id"`
	Reference Reference               `json:"reference"`
	Domain    scoring.Domain          `json:"domain"`
	Evidence  []scoring.LayerResult   `json:"evidence"`
	Linear    *scoring.LinearResult   `json:"linear,omitempty"`
	Bayesian  *scoring.BayesianResult `json:"bayesian,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	Latencies Latencies               `json:"latencies,omitempty"`
}

// Verdict returns the Bayesian verdict when present, otherwise the linear one.
func (v *Verification) Verdict() scoring.Verdict {
	switch {
	case v.Bayesian != nil:
		return v.Bayesian.Verdict
	case v.Linear != nil:
		return v.Linear.Verdict
	default:
		return scoring.VerdictFailed
	}
}

// OutcomeEvent is published once per completed verification.
type OutcomeEvent struct {
	VerificationID uuid.UUID       `json:"verification_id"`
	Domain         scoring.Domain  `json:"domain"`
	Verdict        scoring.Verdict `json:"verdict"`
	LinearScore    *float64        `json:"linear_score,omitempty"`
	Posterior      *float64        `json:"posterior,omitempty"`
	RequestID      string          `json:"request_id,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// NewOutcomeEvent summarizes v for downstream consumers.
func NewOutcomeEvent(v *Verification, requestID string) OutcomeEvent {
	ev := OutcomeEvent{
		VerificationID: v.ID,
		Domain:         v.Domain,
		Verdict:        v.Verdict(),
		RequestID:      requestID,
		OccurredAt:     v.CreatedAt,
	}
	if v.Linear != nil {
		score := v.Linear.Score
		ev.LinearScore = &score
	}
	if v.Bayesian != nil {
		posterior := v.Bayesian.Posterior
		ev.Posterior = &posterior
	}
	return ev
}
