package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustConfig(t *testing.T, d Domain) DomainConfig {
	t.Helper()
	cfg, err := Default().Lookup(d)
	require.NoError(t, err)
	return cfg
}

func ev(layer LayerID, passed bool, confidence float64) LayerResult {
	return LayerResult{Layer: layer, Passed: passed, Confidence: confidence}
}

func TestScoreLinear(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		evidence []LayerResult
		score    float64
		verdict  Verdict
	}{
		{
			name:   "academic with strong doi and title match",
			domain: DomainAcademic,
			evidence: []LayerResult{
				ev(LayerDOI, true, 0.95), ev(LayerTitleSearch, true, 0.9), ev(LayerURL, true, 0.6), ev(LayerAI, true, 0.85),
			},
			score:   0.885,
			verdict: VerdictVerified,
		},
		{
			name:   "academic without doi or title match",
			domain: DomainAcademic,
			evidence: []LayerResult{
				ev(LayerDOI, false, 0), ev(LayerTitleSearch, false, 0), ev(LayerURL, true, 0.6), ev(LayerAI, false, 0),
			},
			score:   0.06,
			verdict: VerdictFailed,
		},
		{
			name:     "academic with only a doi",
			domain:   DomainAcademic,
			evidence: []LayerResult{ev(LayerDOI, true, 1)},
			score:    0.45,
			verdict:  VerdictFailed,
		},
		{
			name:     "live news article",
			domain:   DomainNews,
			evidence: []LayerResult{ev(LayerURL, true, 0.6), ev(LayerAI, true, 0.85)},
			score:    0.7625,
			verdict:  VerdictVerified,
		},
		{
			name:     "paywalled news article clears on ai alone",
			domain:   DomainNews,
			evidence: []LayerResult{ev(LayerURL, false, 0), ev(LayerAI, true, 0.85)},
			score:    0.5525,
			verdict:  VerdictVerified,
		},
		{
			name:     "fabricated news article",
			domain:   DomainNews,
			evidence: []LayerResult{ev(LayerURL, false, 0), ev(LayerAI, false, 0)},
			score:    0,
			verdict:  VerdictFailed,
		},
		{
			name:     "official government page",
			domain:   DomainGovernment,
			evidence: []LayerResult{ev(LayerURL, true, 1), ev(LayerAI, true, 0.85)},
			score:    0.91,
			verdict:  VerdictVerified,
		},
		{
			name:     "dead government url with doubtful ai",
			domain:   DomainGovernment,
			evidence: []LayerResult{ev(LayerURL, false, 0), ev(LayerAI, false, 0.3)},
			score:    0.18,
			verdict:  VerdictFailed,
		},
		{
			name:     "credible general article",
			domain:   DomainGeneral,
			evidence: []LayerResult{ev(LayerURL, true, 0.8), ev(LayerTitleSearch, false, 0), ev(LayerAI, true, 0.85)},
			score:    0.75,
			verdict:  VerdictVerified,
		},
		{
			name:     "anonymous blog post",
			domain:   DomainGeneral,
			evidence: []LayerResult{ev(LayerURL, true, 0.4), ev(LayerTitleSearch, false, 0), ev(LayerAI, false, 0)},
			score:    0.12,
			verdict:  VerdictFailed,
		},
		{
			name:     "educational course page",
			domain:   DomainEducational,
			evidence: []LayerResult{ev(LayerURL, true, 1), ev(LayerAI, true, 0.8)},
			score:    0.75,
			verdict:  VerdictVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreLinear(mustConfig(t, tt.domain), tt.evidence)
			assert.InDelta(t, tt.score, r.Score, 1e-9)
			assert.Equal(t, tt.verdict, r.Verdict)
		})
	}
}

func TestScoreLinearEdgeCases(t *testing.T) {
	reg := Default()

	t.Run("empty evidence scores zero and fails in every domain", func(t *testing.T) {
		for _, d := range reg.Domains() {
			r := ScoreLinear(mustConfig(t, d), nil)
			assert.Equal(t, 0.0, r.Score, d)
			assert.Equal(t, VerdictFailed, r.Verdict, d)
		}
	})

	t.Run("irrelevant layers are ignored", func(t *testing.T) {
		cfg := mustConfig(t, DomainNews)
		base := []LayerResult{ev(LayerURL, true, 0.6), ev(LayerAI, true, 0.85)}
		extra := append(append([]LayerResult{}, base...), ev(LayerDOI, true, 1), ev(LayerTitleSearch, true, 1))
		assert.Equal(t, ScoreLinear(cfg, base).Score, ScoreLinear(cfg, extra).Score)
	})

	t.Run("full evidence never exceeds the weight total", func(t *testing.T) {
		all := []LayerResult{ev(LayerDOI, true, 1), ev(LayerTitleSearch, true, 1), ev(LayerURL, true, 1), ev(LayerAI, true, 1)}
		for _, d := range reg.Domains() {
			r := ScoreLinear(mustConfig(t, d), all)
			assert.LessOrEqual(t, r.Score, 1.0+1e-10, d)
			assert.InDelta(t, 1.0, r.Score, 1e-9, d)
		}
	})

	t.Run("score equal to threshold verifies", func(t *testing.T) {
		cfg := validConfig(DomainGeneral)
		cfg.Threshold = 0.6
		r := ScoreLinear(cfg, []LayerResult{ev(LayerAI, true, 1)})
		assert.Equal(t, 0.6, r.Score)
		assert.Equal(t, VerdictVerified, r.Verdict)
		assert.Equal(t, 0.6, r.Threshold)
	})

	t.Run("later duplicate evidence wins", func(t *testing.T) {
		cfg := mustConfig(t, DomainNews)
		r := ScoreLinear(cfg, []LayerResult{ev(LayerAI, true, 1), ev(LayerAI, false, 0)})
		assert.Equal(t, 0.0, r.Score)
	})

	t.Run("passed flag does not affect the score", func(t *testing.T) {
		cfg := mustConfig(t, DomainNews)
		a := ScoreLinear(cfg, []LayerResult{ev(LayerAI, true, 0.7)})
		b := ScoreLinear(cfg, []LayerResult{ev(LayerAI, false, 0.7)})
		assert.Equal(t, a, b)
	})

	t.Run("monotone in each layer's confidence", func(t *testing.T) {
		for _, d := range reg.Domains() {
			cfg := mustConfig(t, d)
			for _, layer := range cfg.Layers {
				prev := -1.0
				for c := 0.0; c <= 1.0; c += 0.05 {
					r := ScoreLinear(cfg, []LayerResult{ev(layer.ID, true, c), ev(LayerAI, true, 0.5)})
					assert.GreaterOrEqual(t, r.Score, prev, "%s/%s at %.2f", d, layer.ID, c)
					prev = r.Score
				}
			}
		}
	})
}
