package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/handler/mocks"
	"citeguard/internal/verification/models"
	"citeguard/internal/verification/service"
	"citeguard/internal/verification/store"
	dErrors "citeguard/pkg/domain-errors"
	"citeguard/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func newsVerification() *models.Verification {
	return &models.Verification{
		ID:        uuid.MustParse("0b0cbf4e-7e8c-4a39-9a34-5d5fbd2a8f10"),
		Reference: models.Reference{URL: "https://www.reuters.com/technology/ai-2024"},
		Domain:    scoring.DomainNews,
		Evidence:  []scoring.LayerResult{{Layer: scoring.LayerURL, Passed: true, Confidence: 0.6}},
		Linear:    &scoring.LinearResult{Score: 0.7625, Threshold: 0.5, Verdict: scoring.VerdictVerified},
		Bayesian: &scoring.BayesianResult{
			Posterior:     0.81,
			Threshold:     0.6,
			Verdict:       scoring.VerdictVerified,
			Contributions: map[scoring.LayerID]float64{scoring.LayerURL: 0.4},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *HandlerSuite) TestVerify() {
	s.Run("decodes the body and renders the verification", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.VerifyRequest) (*models.Verification, error) {
				s.Equal("https://www.reuters.com/technology/ai-2024", req.Reference.URL)
				s.Equal("ARTICLE", req.Reference.Type)
				s.Equal(scoring.DomainNews, req.Domain)
				s.Require().Len(req.Evidence, 1)
				s.Equal(scoring.LayerURL, req.Evidence[0].Layer)
				s.Equal([]scoring.Model{scoring.ModelLinear}, req.Models)
				return newsVerification(), nil
			})

		body := map[string]any{
			"reference": map[string]string{"url": " https://www.reuters.com/technology/ai-2024 ", "type": "article"},
			"domain":    "news",
			"evidence":  []map[string]any{{"layer": "URL", "passed": true, "confidence": 0.6}},
			"models":    []string{"linear"},
		}
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verify", body))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[VerifyResponse](s.T(), rr)
		s.Equal(scoring.VerdictVerified, resp.Verdict)
		s.Equal(scoring.DomainNews, resp.Domain)
		s.Require().NotNil(resp.Linear)
		s.InDelta(0.7625, resp.Linear.Score, 1e-9)
		s.Require().NotNil(resp.Bayesian)
		s.InDelta(0.4, resp.Bayesian.Contributions[scoring.LayerURL], 1e-9)
	})

	s.Run("rejects malformed json", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/v1/verify", "{"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	invalid := []struct {
		name string
		body map[string]any
	}{
		{"empty reference", map[string]any{"reference": map[string]string{}}},
		{"evidence without confidence", map[string]any{
			"reference": map[string]string{"doi": "10.1/x"},
			"evidence":  []map[string]any{{"layer": "doi", "passed": true}},
		}},
		{"evidence without layer", map[string]any{
			"reference": map[string]string{"doi": "10.1/x"},
			"evidence":  []map[string]any{{"passed": true, "confidence": 0.5}},
		}},
		{"confidence out of range", map[string]any{
			"reference": map[string]string{"doi": "10.1/x"},
			"evidence":  []map[string]any{{"layer": "doi", "passed": true, "confidence": 1.5}},
		}},
		{"unknown model", map[string]any{
			"reference": map[string]string{"doi": "10.1/x"},
			"models":    []string{"neural"},
		}},
	}
	for _, tt := range invalid {
		s.Run("rejects "+tt.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verify", tt.body))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		})
	}

	s.Run("maps service errors to status codes", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "unknown domain PODCAST"))
		body := map[string]any{"reference": map[string]string{"doi": "10.1/x"}, "domain": "podcast"}
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verify", body))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("hides internal error details", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("connection refused"), dErrors.CodeInternal, "failed to save verification"))
		body := map[string]any{"reference": map[string]string{"doi": "10.1/x"}}
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/verify", body))

		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		resp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal(string(dErrors.CodeInternal), resp["error"])
		s.NotContains(resp["error_description"], "connection refused")
	})
}

func (s *HandlerSuite) TestClassify() {
	s.service.EXPECT().Classify(gomock.Any(), models.Reference{DOI: "10.1/x", Type: "PAPER"}).
		Return(scoring.DomainAcademic)

	body := map[string]any{"reference": map[string]string{"doi": " 10.1/x ", "type": "paper"}}
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/classify", body))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "domain", "ACADEMIC")
}

func (s *HandlerSuite) TestDomains() {
	reg := scoring.Default()
	var cfgs []scoring.DomainConfig
	for _, d := range reg.Domains() {
		cfg, err := reg.Lookup(d)
		s.Require().NoError(err)
		cfgs = append(cfgs, cfg)
	}

	s.Run("lists domains in priority order", func() {
		s.service.EXPECT().Domains(gomock.Any()).Return(cfgs)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/domains"))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[DomainsResponse](s.T(), rr)
		s.Require().Len(resp.Domains, len(cfgs))
		s.Equal(scoring.DomainAcademic, resp.Domains[0].Domain)
		s.Equal(scoring.DomainGeneral, resp.Domains[len(resp.Domains)-1].Domain)
		s.NotEmpty(resp.Domains[0].URLPatterns)
	})

	s.Run("renders a single domain", func() {
		s.service.EXPECT().Domain(gomock.Any(), "news").Return(cfgs[1], nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/domains/news"))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[DomainResponse](s.T(), rr)
		s.Equal(scoring.DomainNews, resp.Domain)
		s.InDelta(0.5, resp.Threshold, 1e-9)
		s.Len(resp.Layers, len(cfgs[1].Layers))
	})

	s.Run("unknown domain is not found", func() {
		s.service.EXPECT().Domain(gomock.Any(), "podcast").
			Return(scoring.DomainConfig{}, dErrors.New(dErrors.CodeNotFound, "domain not found"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/domains/podcast"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *HandlerSuite) TestGetVerification() {
	v := newsVerification()

	s.Run("returns a stored verification", func() {
		s.service.EXPECT().Get(gomock.Any(), v.ID).Return(v, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/verifications/"+v.ID.String()))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[VerifyResponse](s.T(), rr)
		s.Equal(v.ID, resp.ID)
		s.True(v.CreatedAt.Equal(resp.CreatedAt))
	})

	s.Run("rejects a malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/verifications/not-a-uuid"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("missing verification is not found", func() {
		id := uuid.New()
		s.service.EXPECT().Get(gomock.Any(), id).Return(nil, dErrors.New(dErrors.CodeNotFound, "verification not found"))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/v1/verifications/"+id.String()))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

// TestVerifyRoundTrip drives the real service through the router.
func TestVerifyRoundTrip(t *testing.T) {
	svc, err := service.New(scoring.Default(), store.NewInMemoryStore(),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	body := map[string]any{
		"reference": map[string]string{"url": "https://www.nytimes.com/2024/01/01/tech/ai.html", "title": "AI story"},
		"evidence": []map[string]any{
			{"layer": "url", "passed": true, "confidence": 0.6},
			{"layer": "ai", "passed": true, "confidence": 0.85},
		},
	}
	req := testutil.WithTime(testutil.NewJSONRequest(t, http.MethodPost, "/v1/verify", body),
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(t, rr)
	created := testutil.UnmarshalResponse[VerifyResponse](t, rr)
	assert.Equal(t, scoring.DomainNews, created.Domain)
	require.NotNil(t, created.Linear)
	assert.InDelta(t, 0.7625, created.Linear.Score, 1e-9)
	require.NotNil(t, created.Bayesian)
	assert.Equal(t, created.Bayesian.Verdict, created.Verdict)
	assert.True(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Equal(created.CreatedAt))

	rr = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/v1/verifications/"+created.ID.String()))
	testutil.AssertStatusOK(t, rr)
	fetched := testutil.UnmarshalResponse[VerifyResponse](t, rr)
	assert.Equal(t, created.ID, fetched.ID)
	assert.InDelta(t, created.Bayesian.Posterior, fetched.Bayesian.Posterior, 1e-12)
}
