// Package scoring decides whether a cited reference is genuine from the
// confidences reported by independent verification layers.
//
// It holds the domain configuration registry, the domain classifier and two
// alternative scoring models: a linear weighted sum and a Bayesian log-odds
// posterior. Everything here is pure computation over an immutable Registry;
// gathering evidence is the caller's job.
package scoring

import "math"

// Domain tags the content category a reference belongs to. The set is
// defined by the Registry, not by this package.
type Domain string

const (
	DomainAcademic    Domain = "ACADEMIC"
	DomainNews        Domain = "NEWS"
	DomainGovernment  Domain = "GOVERNMENT"
	DomainEducational Domain = "EDUCATIONAL"
	DomainGeneral     Domain = "GENERAL"
)

// LayerID identifies a verification layer. IDs are stable across domains so
// evidence can be looked up by key whichever domain scores it.
type LayerID string

const (
	LayerDOI         LayerID = "doi"
	LayerTitleSearch LayerID = "title_search"
	LayerURL         LayerID = "url"
	LayerAI          LayerID = "ai"
)

// LayerResult is the evidence one layer produced for a reference.
// Confidence must be in [0,1]; it is never clamped here. Passed is
// informational only.
type LayerResult struct {
	Layer      LayerID `json:"layer"`
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
}

// BayesianParams characterise a layer's diagnostic power.
//
//	Sensitivity = P(layer passes | reference is real)
//	Specificity = P(layer fails  | reference is fake)
//
// Both must lie in the open interval (0,1).
type BayesianParams struct {
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"`
	Specificity float64 `json:"specificity" yaml:"specificity"`
}

// LikelihoodRatios returns LR+ = sensitivity/(1-specificity) and
// LR- = (1-sensitivity)/specificity.
func (p BayesianParams) LikelihoodRatios() (positive, negative float64) {
	return p.Sensitivity / (1 - p.Specificity), (1 - p.Sensitivity) / p.Specificity
}

// LayerConfig is a layer as configured for one domain.
type LayerConfig struct {
	ID          LayerID        `json:"id"`
	Weight      float64        `json:"weight"`
	Description string         `json:"description"`
	Bayesian    BayesianParams `json:"bayesian"`
}

// DomainConfig is everything the classifier and scorers know about a domain.
type DomainConfig struct {
	Domain      Domain `json:"domain"`
	Label       string `json:"label"`
	Description string `json:"description"`

	// Layers are in reporting order; order does not affect the math.
	Layers []LayerConfig `json:"layers"`

	// Threshold is the minimum weighted-sum score to verify, in (0,1].
	Threshold float64 `json:"threshold"`

	// Prior is P(real) before any evidence, in (0,1).
	Prior float64 `json:"prior"`

	// BayesianThreshold is the minimum posterior to verify, in (0,1).
	BayesianThreshold float64 `json:"bayesian_threshold"`

	// AIInstruction is guidance for the external AI layer. Opaque here.
	AIInstruction string `json:"ai_instruction"`

	URLPatterns  []Pattern `json:"url_patterns,omitempty"`
	TypePatterns []string  `json:"type_patterns,omitempty"`
}

// Layer returns the configuration of layer id, if the domain uses it.
func (c DomainConfig) Layer(id LayerID) (LayerConfig, bool) {
	for _, l := range c.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return LayerConfig{}, false
}

// LayerIDs returns the domain's layers in configured order.
func (c DomainConfig) LayerIDs() []LayerID {
	ids := make([]LayerID, len(c.Layers))
	for i, l := range c.Layers {
		ids[i] = l.ID
	}
	return ids
}

// TotalWeight sums the linear weights of all configured layers.
func (c DomainConfig) TotalWeight() float64 {
	total := 0.0
	for _, l := range c.Layers {
		total += l.Weight
	}
	return total
}

// PriorLogOdds returns ln(prior / (1 - prior)).
func (c DomainConfig) PriorLogOdds() float64 {
	return math.Log(c.Prior / (1 - c.Prior))
}

// clone copies the slices so a caller cannot reach into registry state.
func (c DomainConfig) clone() DomainConfig {
	out := c
	out.Layers = append([]LayerConfig(nil), c.Layers...)
	out.URLPatterns = append([]Pattern(nil), c.URLPatterns...)
	out.TypePatterns = append([]string(nil), c.TypePatterns...)
	return out
}

// Reference carries the identifying fields the classifier looks at. Empty
// strings stand for absent values.
type Reference struct {
	DOI  string `json:"doi,omitempty"`
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
}

// indexEvidence keys evidence by layer. A later entry for the same layer
// replaces an earlier one.
func indexEvidence(evidence []LayerResult) map[LayerID]LayerResult {
	byLayer := make(map[LayerID]LayerResult, len(evidence))
	for _, r := range evidence {
		byLayer[r.Layer] = r
	}
	return byLayer
}
