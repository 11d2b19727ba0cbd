package scoring

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	pstrings "citeguard/pkg/platform/strings"
)

// registryFile is the YAML layout of a domain registry. Domains are listed
// in classification priority order.
type registryFile struct {
	Fallback string       `yaml:"fallback"`
	Domains  []domainFile `yaml:"domains"`
}

type domainFile struct {
	Domain            string      `yaml:"domain"`
	Label             string      `yaml:"label"`
	Description       string      `yaml:"description"`
	Threshold         float64     `yaml:"threshold"`
	Prior             float64     `yaml:"prior"`
	BayesianThreshold float64     `yaml:"bayesian_threshold"`
	AIInstruction     string      `yaml:"ai_instruction"`
	URLPatterns       []string    `yaml:"url_patterns"`
	TypePatterns      []string    `yaml:"type_patterns"`
	Layers            []layerFile `yaml:"layers"`
}

type layerFile struct {
	ID             string  `yaml:"id"`
	Weight         float64 `yaml:"weight"`
	Description    string  `yaml:"description"`
	BayesianParams `yaml:",inline"`
}

// LoadRegistry reads and validates a YAML registry from path.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain registry %s: %w", path, err)
	}
	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("load domain registry %s: %w", path, err)
	}
	return reg, nil
}

// ParseRegistry builds a validated registry from a YAML document. A missing
// fallback defaults to GENERAL.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse domain registry: %w", err)
	}

	configs := make([]DomainConfig, 0, len(file.Domains))
	for _, d := range file.Domains {
		cfg, err := d.toConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		configs = append(configs, cfg)
	}

	fallback := Domain(strings.ToUpper(strings.TrimSpace(file.Fallback)))
	if fallback == "" {
		fallback = DomainGeneral
	}
	return NewRegistry(fallback, configs...)
}

func (d domainFile) toConfig() (DomainConfig, error) {
	cfg := DomainConfig{
		Domain:            Domain(strings.ToUpper(strings.TrimSpace(d.Domain))),
		Label:             d.Label,
		Description:       d.Description,
		Threshold:         d.Threshold,
		Prior:             d.Prior,
		BayesianThreshold: d.BayesianThreshold,
		AIInstruction:     strings.TrimSpace(d.AIInstruction),
		TypePatterns:      pstrings.DedupeAndTrimUpper(d.TypePatterns),
	}

	for _, expr := range d.URLPatterns {
		p, err := CompilePattern(expr)
		if err != nil {
			return DomainConfig{}, fmt.Errorf("domain %s: %w", cfg.Domain, err)
		}
		cfg.URLPatterns = append(cfg.URLPatterns, p)
	}

	for _, l := range d.Layers {
		cfg.Layers = append(cfg.Layers, LayerConfig{
			ID:          LayerID(strings.TrimSpace(l.ID)),
			Weight:      l.Weight,
			Description: l.Description,
			Bayesian:    l.BayesianParams,
		})
	}
	return cfg, nil
}
