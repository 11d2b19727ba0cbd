package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(Default())

	tests := []struct {
		name string
		ref  Reference
		want Domain
	}{
		// DOI is definitive
		{"doi alone", Reference{DOI: "10.1234/example"}, DomainAcademic},
		{"doi beats news url", Reference{DOI: "10.1234/x", URL: "https://nytimes.com/article"}, DomainAcademic},
		{"doi beats article type", Reference{DOI: "10.5678/news", Type: "ARTICLE"}, DomainAcademic},
		{"whitespace doi is still a doi", Reference{DOI: "   ", URL: "https://www.reuters.com/x"}, DomainAcademic},
		{"empty doi is absent", Reference{DOI: "", URL: "https://www.reuters.com/x"}, DomainNews},

		// URL patterns
		{"arxiv", Reference{URL: "https://arxiv.org/abs/1706.03762"}, DomainAcademic},
		{"pubmed", Reference{URL: "https://pubmed.ncbi.nlm.nih.gov/12345678"}, DomainAcademic},
		{"nature", Reference{URL: "https://www.nature.com/articles/s41586-023-001"}, DomainAcademic},
		{"nytimes", Reference{URL: "https://www.nytimes.com/2024/01/01/tech/ai.html"}, DomainNews},
		{"reuters", Reference{URL: "https://www.reuters.com/technology/ai-2024"}, DomainNews},
		{"bbc.com", Reference{URL: "https://www.bbc.com/news/technology-12345"}, DomainNews},
		{"bbc.co.uk", Reference{URL: "https://www.bbc.co.uk/news/science"}, DomainNews},
		{"cdc.gov", Reference{URL: "https://www.cdc.gov/covid/data"}, DomainGovernment},
		{"gov.uk", Reference{URL: "https://www.gov.uk/guidance"}, DomainGovernment},
		{"who.int", Reference{URL: "https://www.who.int/news/item/01-01-2024"}, DomainGovernment},
		{"worldbank", Reference{URL: "https://www.worldbank.org/en/report"}, DomainGovernment},
		{"khan academy", Reference{URL: "https://www.khanacademy.org/science/biology"}, DomainEducational},
		{"university course page", Reference{URL: "https://cs.stanford.edu/courses/cs101"}, DomainEducational},

		// type fallback
		{"paper type with unknown url", Reference{Type: "PAPER", URL: "https://example.com/paper"}, DomainAcademic},
		{"book type", Reference{Type: "BOOK"}, DomainAcademic},
		{"article type goes to news first", Reference{Type: "ARTICLE", URL: "https://randomblog.com"}, DomainNews},
		{"report type goes to academic first", Reference{Type: "REPORT"}, DomainAcademic},
		{"textbook type", Reference{Type: "TEXTBOOK"}, DomainEducational},
		{"video type", Reference{Type: "VIDEO"}, DomainGeneral},

		// fallback
		{"unknown url", Reference{URL: "https://randomblog.com/post"}, DomainGeneral},
		{"nothing at all", Reference{}, DomainGeneral},
		{"unknown type", Reference{Type: "PODCAST"}, DomainGeneral},

		// precedence
		{"academic url beats news type", Reference{URL: "https://arxiv.org/abs/123", Type: "ARTICLE"}, DomainAcademic},
		{"news url beats general type", Reference{URL: "https://apnews.com/article/123", Type: "WEB"}, DomainNews},
		{"gov url beats academic type", Reference{URL: "https://www.cdc.gov/report", Type: "PAPER"}, DomainGovernment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.ref))
		})
	}
}

func TestClassifyPriorityFollowsRegistryOrder(t *testing.T) {
	// Both domains claim the same URL; whichever is listed first wins.
	first := validConfig("FIRST")
	first.URLPatterns = []Pattern{MustPattern(`example\.org`)}
	second := validConfig("SECOND")
	second.URLPatterns = []Pattern{MustPattern(`example\.org`)}
	fallback := validConfig(DomainGeneral)

	ref := Reference{URL: "https://example.org/a"}

	reg := MustRegistry(DomainGeneral, first, second, fallback)
	assert.Equal(t, Domain("FIRST"), NewClassifier(reg).Classify(ref))

	reg = MustRegistry(DomainGeneral, second, first, fallback)
	assert.Equal(t, Domain("SECOND"), NewClassifier(reg).Classify(ref))
}

func TestClassifyWithoutAcademicDomain(t *testing.T) {
	reg := MustRegistry(DomainGeneral, newsConfig(), generalConfig())
	c := NewClassifier(reg)

	// The DOI rule still fires but can only land on a configured domain.
	assert.Equal(t, DomainGeneral, c.Classify(Reference{DOI: "10.1/x"}))
	assert.Equal(t, DomainNews, c.Classify(Reference{URL: "https://www.npr.org/x"}))
}

func TestPattern(t *testing.T) {
	p := MustPattern(`\bdoi\.org\b`)
	assert.True(t, p.Match("https://doi.org/10.1/x"))
	assert.False(t, p.Match(""))
	assert.False(t, Pattern{}.Match("anything"))
	assert.Equal(t, `\bdoi\.org\b`, p.String())

	_, err := CompilePattern(`(`)
	assert.Error(t, err)

	var decoded Pattern
	assert.NoError(t, decoded.UnmarshalText([]byte(`\bnpr\.org\b`)))
	assert.True(t, decoded.Match("https://npr.org"))
}
