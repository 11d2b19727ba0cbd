package scoring

// Classifier routes references to a content domain using the registry's
// identification patterns.
type Classifier struct {
	registry *Registry
	academic Domain
}

// NewClassifier builds a classifier over reg. DOI-bearing references go to
// ACADEMIC when it is configured, otherwise to the fallback domain.
func NewClassifier(reg *Registry) *Classifier {
	academic := DomainAcademic
	if !reg.Has(academic) {
		academic = reg.Fallback()
	}
	return &Classifier{registry: reg, academic: academic}
}

// Classify always returns a configured domain. Precedence:
//  1. a non-empty DOI means academic, whatever the URL or type say
//  2. the first domain, in registry order, with a URL pattern matching ref.URL
//  3. the first domain, in registry order, listing ref.Type as a type token
//  4. the registry fallback
func (c *Classifier) Classify(ref Reference) Domain {
	if ref.DOI != "" {
		return c.academic
	}

	if ref.URL != "" {
		for _, d := range c.registry.order {
			if matchesURL(c.registry.configs[d], ref.URL) {
				return d
			}
		}
	}

	if ref.Type != "" {
		for _, d := range c.registry.order {
			if matchesType(c.registry.configs[d], ref.Type) {
				return d
			}
		}
	}

	return c.registry.fallback
}

func matchesURL(cfg DomainConfig, url string) bool {
	for _, p := range cfg.URLPatterns {
		if p.Match(url) {
			return true
		}
	}
	return false
}

func matchesType(cfg DomainConfig, typ string) bool {
	for _, t := range cfg.TypePatterns {
		if t == typ {
			return true
		}
	}
	return false
}
