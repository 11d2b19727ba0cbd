package scoring

// DefaultConfigs returns the compiled-in domain table in classification
// priority order: ACADEMIC, NEWS, GOVERNMENT, EDUCATIONAL, GENERAL.
func DefaultConfigs() []DomainConfig {
	return []DomainConfig{
		academicConfig(),
		newsConfig(),
		governmentConfig(),
		educationalConfig(),
		generalConfig(),
	}
}

// Default builds the compiled-in registry with GENERAL as the catch-all.
func Default() *Registry {
	return MustRegistry(DomainGeneral, DefaultConfigs()...)
}

func academicConfig() DomainConfig {
	return DomainConfig{
		Domain:      DomainAcademic,
		Label:       "Academic",
		Description: "Peer-reviewed papers, preprints, books, technical reports",
		Layers: []LayerConfig{
			{
				ID:          LayerDOI,
				Weight:      0.45,
				Description: "DOI registered in CrossRef",
				// Real papers nearly always carry a resolving DOI; fakes rarely do.
				Bayesian: BayesianParams{Sensitivity: 0.92, Specificity: 0.97},
			},
			{
				ID:          LayerTitleSearch,
				Weight:      0.30,
				Description: "Indexed in OpenAlex / title search",
				// Preprints may lag the index.
				Bayesian: BayesianParams{Sensitivity: 0.80, Specificity: 0.88},
			},
			{
				ID:          LayerURL,
				Weight:      0.10,
				Description: "URL resolves (journal site, arXiv, etc.)",
				// Paywalls answer 403 for real papers.
				Bayesian: BayesianParams{Sensitivity: 0.70, Specificity: 0.72},
			},
			{
				ID:          LayerAI,
				Weight:      0.15,
				Description: "AI claim-support evaluation",
				Bayesian:    BayesianParams{Sensitivity: 0.78, Specificity: 0.82},
			},
		},
		Threshold:         0.70,
		Prior:             0.72,
		BayesianThreshold: 0.82,
		AIInstruction: "Verify the reference is a real academic work (paper, book, report) and that the cited " +
			"claim is supported by it. Err toward REAL for indexed works.",
		TypePatterns: []string{"PAPER", "BOOK", "REPORT"},
		URLPatterns: mustPatterns(
			`\bdoi\.org\b`,
			`\barxiv\.org\b`,
			`\bncbi\.nlm\.nih\.gov\b`,
			`\bpubmed\b`,
			`\bsciencedirect\b`,
			`\bspringer\b`,
			`\bnature\.com\b`,
			`\bjstor\.org\b`,
			`\bieee\.org\b`,
		),
	}
}

func newsConfig() DomainConfig {
	return DomainConfig{
		Domain:      DomainNews,
		Label:       "News",
		Description: "News articles from established outlets (NYT, Reuters, BBC, etc.)",
		Layers: []LayerConfig{
			{
				ID:          LayerURL,
				Weight:      0.35,
				Description: "URL resolves to a live news article (403 from known outlets = partial credit)",
				// Paywalls keep sensitivity low; fabricated URLs rarely resolve.
				Bayesian: BayesianParams{Sensitivity: 0.55, Specificity: 0.85},
			},
			{
				ID:          LayerAI,
				Weight:      0.65,
				Description: "AI confirms outlet credibility + claim support",
				Bayesian:    BayesianParams{Sensitivity: 0.82, Specificity: 0.80},
			},
		},
		// 0.65 * 0.85 = 0.5525 lets a credible paywalled article pass on AI alone.
		Threshold:         0.50,
		Prior:             0.75,
		BayesianThreshold: 0.65,
		AIInstruction: "Verify this is from a credible news outlet (established newspapers, wire services, " +
			"broadcasters) and that the cited claim appears in the article. DOI and academic indexing are NOT " +
			"expected for news. Err toward REAL for known reputable outlets like NYT, Reuters, BBC, AP, " +
			"Washington Post, Guardian, WSJ, Bloomberg, FT, NPR.",
		TypePatterns: []string{"ARTICLE", "WEB"},
		URLPatterns: mustPatterns(
			`\bnytimes\.com\b`,
			`\bwashingtonpost\.com\b`,
			`\btheguardian\.com\b`,
			`\breuters\.com\b`,
			`\bapnews\.com\b`,
			`\bbbc\.(com|co\.uk)\b`,
			`\bnpr\.org\b`,
			`\bwsj\.com\b`,
			`\bbloomberg\.com\b`,
			`\bft\.com\b`,
			`\bpolitico\.com\b`,
			`\btheatlantic\.com\b`,
		),
	}
}

func governmentConfig() DomainConfig {
	return DomainConfig{
		Domain:      DomainGovernment,
		Label:       "Government",
		Description: "Official government reports, legislation, statistics",
		Layers: []LayerConfig{
			{
				ID:          LayerURL,
				Weight:      0.40,
				Description: "URL resolves to an official government domain",
				Bayesian:    BayesianParams{Sensitivity: 0.85, Specificity: 0.93},
			},
			{
				ID:          LayerAI,
				Weight:      0.60,
				Description: "AI verifies official source + claim support",
				Bayesian:    BayesianParams{Sensitivity: 0.80, Specificity: 0.84},
			},
		},
		Threshold:         0.55,
		Prior:             0.82,
		BayesianThreshold: 0.72,
		AIInstruction: "Verify this is from an official government or intergovernmental source (agency websites, " +
			".gov, .gov.uk, UN, WHO, etc.) and that the cited claim is supported by the document. Err toward " +
			"REAL for official government URLs.",
		TypePatterns: []string{"REPORT", "WEB"},
		URLPatterns: mustPatterns(
			`\.gov\b`,
			`\.gov\.\w{2}\b`,
			`\bwho\.int\b`,
			`\bun\.org\b`,
			`\boecd\.org\b`,
			`\bworldbank\.org\b`,
			`\bimf\.org\b`,
			`\bcdc\.gov\b`,
		),
	}
}

func educationalConfig() DomainConfig {
	return DomainConfig{
		Domain:      DomainEducational,
		Label:       "Educational",
		Description: "Course material, open textbooks, lecture notes and MOOCs",
		Layers: []LayerConfig{
			{
				ID:          LayerURL,
				Weight:      0.35,
				Description: "URL resolves on an educational platform",
				Bayesian:    BayesianParams{Sensitivity: 0.75, Specificity: 0.80},
			},
			{
				ID:          LayerTitleSearch,
				Weight:      0.15,
				Description: "Open textbooks are sometimes indexed",
				Bayesian:    BayesianParams{Sensitivity: 0.40, Specificity: 0.80},
			},
			{
				ID:          LayerAI,
				Weight:      0.50,
				Description: "AI verifies the platform, course and claim support",
				Bayesian:    BayesianParams{Sensitivity: 0.78, Specificity: 0.80},
			},
		},
		Threshold:         0.55,
		Prior:             0.65,
		BayesianThreshold: 0.70,
		AIInstruction: "Verify this is real course or textbook material from an established educational platform " +
			"(Khan Academy, OpenStax, Coursera, edX, MIT OpenCourseWare or another MOOC or university course " +
			"site) and that the cited claim is supported by it. Err toward REAL for known platforms.",
		TypePatterns: []string{"COURSE", "LECTURE", "TEXTBOOK"},
		URLPatterns: mustPatterns(
			`\bkhanacademy\.org\b`,
			`\bopenstax\.org\b`,
			`\bcoursera\.org\b`,
			`\bedx\.org\b`,
			`\bocw\.mit\.edu\b`,
			`\.edu\b`,
		),
	}
}

func generalConfig() DomainConfig {
	return DomainConfig{
		Domain:      DomainGeneral,
		Label:       "General",
		Description: "Blog posts, podcasts, videos, and other web content",
		Layers: []LayerConfig{
			{
				ID:          LayerURL,
				Weight:      0.30,
				Description: "URL resolves",
				// Easy to fabricate.
				Bayesian: BayesianParams{Sensitivity: 0.65, Specificity: 0.70},
			},
			{
				ID:          LayerTitleSearch,
				Weight:      0.10,
				Description: "May be indexed in OpenAlex / title search",
				// Most web content is not indexed.
				Bayesian: BayesianParams{Sensitivity: 0.30, Specificity: 0.75},
			},
			{
				ID:          LayerAI,
				Weight:      0.60,
				Description: "AI evaluates source credibility + claim support",
				Bayesian:    BayesianParams{Sensitivity: 0.72, Specificity: 0.78},
			},
		},
		Threshold:         0.55,
		Prior:             0.45,
		BayesianThreshold: 0.68,
		AIInstruction: "Verify the source exists and the cited claim is supported. Apply high scrutiny to blogs, " +
			"social media, and anonymous sources. Err toward REJECTION for unverifiable anonymous sources.",
		TypePatterns: []string{"WEB", "VIDEO", "ARTICLE"},
	}
}
