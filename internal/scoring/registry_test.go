package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig is a minimal two-layer domain used to exercise validation.
func validConfig(domain Domain) DomainConfig {
	return DomainConfig{
		Domain: domain,
		Layers: []LayerConfig{
			{ID: LayerURL, Weight: 0.4, Bayesian: BayesianParams{Sensitivity: 0.8, Specificity: 0.9}},
			{ID: LayerAI, Weight: 0.6, Bayesian: BayesianParams{Sensitivity: 0.7, Specificity: 0.8}},
		},
		Threshold:         0.5,
		Prior:             0.6,
		BayesianThreshold: 0.7,
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	t.Run("defines all five domains in priority order", func(t *testing.T) {
		assert.Equal(t, []Domain{
			DomainAcademic, DomainNews, DomainGovernment, DomainEducational, DomainGeneral,
		}, reg.Domains())
		assert.Equal(t, DomainGeneral, reg.Fallback())
	})

	for _, d := range reg.Domains() {
		cfg, err := reg.Lookup(d)
		require.NoError(t, err)

		t.Run(string(d)+" layer weights sum to 1.0", func(t *testing.T) {
			assert.InDelta(t, 1.0, cfg.TotalWeight(), 1e-5)
		})

		t.Run(string(d)+" thresholds and prior are in range", func(t *testing.T) {
			assert.Greater(t, cfg.Threshold, 0.0)
			assert.LessOrEqual(t, cfg.Threshold, 1.0)
			assert.Greater(t, cfg.Prior, 0.0)
			assert.Less(t, cfg.Prior, 1.0)
			assert.Greater(t, cfg.BayesianThreshold, 0.0)
			assert.Less(t, cfg.BayesianThreshold, 1.0)
		})

		t.Run(string(d)+" bayesian layers discriminate", func(t *testing.T) {
			for _, l := range cfg.Layers {
				assert.Greater(t, l.Bayesian.Sensitivity, 0.0, l.ID)
				assert.Less(t, l.Bayesian.Sensitivity, 1.0, l.ID)
				assert.Greater(t, l.Bayesian.Specificity, 0.0, l.ID)
				assert.Less(t, l.Bayesian.Specificity, 1.0, l.ID)

				lrPos, lrNeg := l.Bayesian.LikelihoodRatios()
				assert.Greater(t, lrPos, 1.0, "LR+ for %s", l.ID)
				assert.Less(t, lrNeg, 1.0, "LR- for %s", l.ID)
			}
		})

		t.Run(string(d)+" has a substantive AI instruction", func(t *testing.T) {
			assert.Greater(t, len(cfg.AIInstruction), 20)
		})
	}

	t.Run("news drops doi and title search and leans on ai", func(t *testing.T) {
		cfg, err := reg.Lookup(DomainNews)
		require.NoError(t, err)
		assert.Equal(t, 0.50, cfg.Threshold)
		assert.NotContains(t, cfg.LayerIDs(), LayerDOI)
		assert.NotContains(t, cfg.LayerIDs(), LayerTitleSearch)
		ai, ok := cfg.Layer(LayerAI)
		require.True(t, ok)
		assert.GreaterOrEqual(t, ai.Weight, 0.60)
		assert.Regexp(t, `(?i)nyt|reuters|bbc`, cfg.AIInstruction)
	})

	t.Run("academic holds the strictest threshold and trusts doi most", func(t *testing.T) {
		academic, err := reg.Lookup(DomainAcademic)
		require.NoError(t, err)

		for _, d := range reg.Domains() {
			cfg, _ := reg.Lookup(d)
			assert.GreaterOrEqual(t, academic.Threshold, cfg.Threshold, d)
		}

		doi, ok := academic.Layer(LayerDOI)
		require.True(t, ok)
		for _, l := range academic.Layers {
			assert.GreaterOrEqual(t, doi.Weight, l.Weight)
			assert.GreaterOrEqual(t, doi.Bayesian.Sensitivity, l.Bayesian.Sensitivity)
		}
	})

	t.Run("general is the most skeptical prior", func(t *testing.T) {
		general, err := reg.Lookup(DomainGeneral)
		require.NoError(t, err)
		for _, d := range reg.Domains() {
			cfg, _ := reg.Lookup(d)
			assert.LessOrEqual(t, general.Prior, cfg.Prior, d)
		}
		assert.Regexp(t, `(?i)scrutin|anonymous|rejection`, general.AIInstruction)
	})

	t.Run("educational instruction names educational platforms", func(t *testing.T) {
		cfg, err := reg.Lookup(DomainEducational)
		require.NoError(t, err)
		assert.Regexp(t, `(?i)khan academy|openstax|coursera|mooc`, cfg.AIInstruction)
	})
}

func TestRegistryLookup(t *testing.T) {
	reg := Default()

	t.Run("unknown domain fails explicitly", func(t *testing.T) {
		_, err := reg.Lookup(Domain("PODCAST"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDomain)
	})

	t.Run("returned config cannot mutate the registry", func(t *testing.T) {
		cfg, err := reg.Lookup(DomainNews)
		require.NoError(t, err)
		cfg.Layers[0].Weight = 0.99
		cfg.TypePatterns[0] = "PODCAST"

		again, err := reg.Lookup(DomainNews)
		require.NoError(t, err)
		assert.Equal(t, 0.35, again.Layers[0].Weight)
		assert.Equal(t, "ARTICLE", again.TypePatterns[0])
	})

	t.Run("domains slice is a copy", func(t *testing.T) {
		domains := reg.Domains()
		domains[0] = DomainGeneral
		assert.Equal(t, DomainAcademic, reg.Domains()[0])
	})
}

func TestNewRegistryValidation(t *testing.T) {
	t.Run("accepts a four-domain table without educational", func(t *testing.T) {
		reg, err := NewRegistry(DomainGeneral,
			academicConfig(), newsConfig(), governmentConfig(), generalConfig())
		require.NoError(t, err)
		assert.False(t, reg.Has(DomainEducational))
		assert.Len(t, reg.Domains(), 4)
	})

	t.Run("accepts an extra domain without scorer changes", func(t *testing.T) {
		legal := validConfig("LEGAL")
		reg, err := NewRegistry(DomainGeneral, append(DefaultConfigs(), legal)...)
		require.NoError(t, err)
		cfg, err := reg.Lookup("LEGAL")
		require.NoError(t, err)
		assert.Equal(t, VerdictVerified, ScoreLinear(cfg, []LayerResult{{Layer: LayerAI, Confidence: 1}}).Verdict)
	})

	tests := []struct {
		name    string
		mutate  func(*DomainConfig)
		message string
	}{
		{"weights not summing to one", func(c *DomainConfig) { c.Layers[0].Weight = 0.5 }, "weights sum to 1.100000"},
		{"negative weight", func(c *DomainConfig) { c.Layers[0].Weight = -0.4; c.Layers[1].Weight = 1.4 }, "negative"},
		{"threshold zero", func(c *DomainConfig) { c.Threshold = 0 }, "threshold 0 outside (0,1]"},
		{"threshold above one", func(c *DomainConfig) { c.Threshold = 1.2 }, "threshold 1.2 outside (0,1]"},
		{"prior at one", func(c *DomainConfig) { c.Prior = 1 }, "prior 1 outside (0,1)"},
		{"bayesian threshold at zero", func(c *DomainConfig) { c.BayesianThreshold = 0 }, "bayesian threshold 0 outside (0,1)"},
		{"sensitivity at one", func(c *DomainConfig) { c.Layers[0].Bayesian.Sensitivity = 1 }, "sensitivity 1 outside (0,1)"},
		{"specificity at zero", func(c *DomainConfig) { c.Layers[1].Bayesian.Specificity = 0 }, "specificity 0 outside (0,1)"},
		{"duplicate layer", func(c *DomainConfig) { c.Layers[1].ID = LayerURL }, "layer url configured twice"},
		{"no layers", func(c *DomainConfig) { c.Layers = nil }, "no layers configured"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			cfg := validConfig(DomainGeneral)
			tt.mutate(&cfg)
			_, err := NewRegistry(DomainGeneral, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("threshold of exactly one is allowed", func(t *testing.T) {
		cfg := validConfig(DomainGeneral)
		cfg.Threshold = 1
		_, err := NewRegistry(DomainGeneral, cfg)
		assert.NoError(t, err)
	})

	t.Run("reports every violation at once", func(t *testing.T) {
		cfg := validConfig(DomainGeneral)
		cfg.Prior = 0
		cfg.Threshold = 0
		_, err := NewRegistry(DomainGeneral, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prior")
		assert.Contains(t, err.Error(), "threshold")
	})

	t.Run("rejects duplicate domains", func(t *testing.T) {
		_, err := NewRegistry(DomainGeneral, validConfig(DomainGeneral), validConfig(DomainGeneral))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects unconfigured fallback", func(t *testing.T) {
		_, err := NewRegistry(DomainGeneral, validConfig(DomainNews))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fallback")
	})

	t.Run("rejects empty table", func(t *testing.T) {
		_, err := NewRegistry(DomainGeneral)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("MustRegistry panics on invalid config", func(t *testing.T) {
		cfg := validConfig(DomainGeneral)
		cfg.Prior = math.NaN()
		assert.Panics(t, func() { MustRegistry(DomainGeneral, cfg) })
	})
}
