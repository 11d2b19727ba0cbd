package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
	dErrors "citeguard/pkg/domain-errors"
	"citeguard/pkg/platform/httputil"
	"citeguard/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, req models.VerifyRequest) (*models.Verification, error)
	Classify(ctx context.Context, ref models.Reference) scoring.Domain
	Get(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	Domains(ctx context.Context) []scoring.DomainConfig
	Domain(ctx context.Context, name string) (scoring.DomainConfig, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/verify", h.HandleVerify)
	r.Post("/v1/classify", h.HandleClassify)
	r.Get("/v1/domains", h.HandleListDomains)
	r.Get("/v1/domains/{domain}", h.HandleGetDomain)
	r.Get("/v1/verifications/{id}", h.HandleGetVerification)
}

// HandleVerify handles POST /v1/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	v, err := h.service.Verify(ctx, req.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reference verified",
		"request_id", requestID,
		"verification_id", v.ID,
		"domain", v.Domain,
		"verdict", v.Verdict(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerification(v))
}

// HandleClassify handles POST /v1/classify requests.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ClassifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	domain := h.service.Classify(ctx, req.Reference.toModel())
	httputil.WriteJSON(w, http.StatusOK, ClassifyResponse{Domain: domain})
}

// HandleListDomains handles GET /v1/domains requests.
func (h *Handler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	cfgs := h.service.Domains(r.Context())
	resp := DomainsResponse{Domains: make([]DomainResponse, 0, len(cfgs))}
	for _, cfg := range cfgs {
		resp.Domains = append(resp.Domains, FromDomainConfig(cfg))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetDomain handles GET /v1/domains/{domain} requests.
func (h *Handler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Domain(r.Context(), chi.URLParam(r, "domain"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDomainConfig(cfg))
}

// HandleGetVerification handles GET /v1/verifications/{id} requests.
func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid verification id"))
		return
	}

	v, err := h.service.Get(ctx, id)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load verification",
				"request_id", requestID,
				"verification_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromVerification(v))
}
