package handler

import (
	"strings"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
	dErrors "citeguard/pkg/domain-errors"
)

const (
	maxEvidenceEntries = 16
	maxFieldLength     = 4096
)

// ReferenceRequest is the reference portion of a request body.
type ReferenceRequest struct {
	DOI   string `json:"doi"`
	URL   string `json:"url"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Claim string `json:"claim"`
}

func (r ReferenceRequest) toModel() models.Reference {
	ref := models.Reference{DOI: r.DOI, URL: r.URL, Type: r.Type, Title: r.Title, Claim: r.Claim}
	ref.Normalize()
	return ref
}

func (r ReferenceRequest) tooLong() bool {
	for _, f := range []string{r.DOI, r.URL, r.Type, r.Title, r.Claim} {
		if len(f) > maxFieldLength {
			return true
		}
	}
	return false
}

// EvidenceRequest is one caller-supplied layer result. Confidence is a
// pointer so a missing value is rejected rather than read as 0.
type EvidenceRequest struct {
	Layer      string   `json:"layer"`
	Passed     bool     `json:"passed"`
	Confidence *float64 `json:"confidence"`
}

// VerifyRequest is the HTTP request body for POST /v1/verify.
type VerifyRequest struct {
	Reference ReferenceRequest  `json:"reference"`
	Domain    string            `json:"domain"`
	Evidence  []EvidenceRequest `json:"evidence"`
	Models    []string          `json:"models"`

	// Parsed values (populated by Validate)
	parsed models.VerifyRequest
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if r.Reference.tooLong() {
		return dErrors.New(dErrors.CodeValidation, "reference fields must be at most 4096 characters")
	}
	if len(r.Evidence) > maxEvidenceEntries {
		return dErrors.New(dErrors.CodeValidation, "too many evidence entries")
	}

	evidence := make([]scoring.LayerResult, 0, len(r.Evidence))
	for _, e := range r.Evidence {
		layer := strings.ToLower(strings.TrimSpace(e.Layer))
		if layer == "" {
			return dErrors.New(dErrors.CodeValidation, "evidence.layer is required")
		}
		if e.Confidence == nil {
			return dErrors.New(dErrors.CodeValidation, "evidence.confidence is required for layer "+layer)
		}
		evidence = append(evidence, scoring.LayerResult{
			Layer:      scoring.LayerID(layer),
			Passed:     e.Passed,
			Confidence: *e.Confidence,
		})
	}

	ms := make([]scoring.Model, 0, len(r.Models))
	for _, name := range r.Models {
		m, err := scoring.ParseModel(name)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		ms = append(ms, m)
	}

	r.parsed = models.VerifyRequest{
		Reference: r.Reference.toModel(),
		Domain:    scoring.Domain(strings.ToUpper(strings.TrimSpace(r.Domain))),
		Evidence:  evidence,
		Models:    ms,
	}
	return r.parsed.Validate()
}

// Parsed returns the validated service request.
func (r *VerifyRequest) Parsed() models.VerifyRequest {
	return r.parsed
}

// ClassifyRequest is the HTTP request body for POST /v1/classify.
type ClassifyRequest struct {
	Reference ReferenceRequest `json:"reference"`
}

// Validate implements httputil.Validatable.
func (r *ClassifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Reference.tooLong() {
		return dErrors.New(dErrors.CodeValidation, "reference fields must be at most 4096 characters")
	}
	return nil
}
