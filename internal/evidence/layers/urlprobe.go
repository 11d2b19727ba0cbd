package layers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"citeguard/internal/scoring"
)

const (
	defaultProbeTimeout = 5 * time.Second
	defaultUserAgent    = "citeguard-urlprobe/1.0"

	// paywallConfidence is the partial credit for a URL that exists but
	// refuses anonymous access.
	paywallConfidence = 0.5
)

// URLProbe checks that a reference URL resolves. It is the one layer the
// service ships itself; DOI, title search and AI review are external.
type URLProbe struct {
	client    *http.Client
	userAgent string
}

// ProbeOption configures a URLProbe.
type ProbeOption func(*URLProbe)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) ProbeOption {
	return func(p *URLProbe) {
		if c != nil {
			p.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header sent with probes.
func WithUserAgent(ua string) ProbeOption {
	return func(p *URLProbe) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// NewURLProbe creates a probe with a bounded default client.
func NewURLProbe(opts ...ProbeOption) *URLProbe {
	p := &URLProbe{
		client:    &http.Client{Timeout: defaultProbeTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID implements Layer.
func (p *URLProbe) ID() scoring.LayerID {
	return scoring.LayerURL
}

// Check implements Layer. It tries HEAD first and falls back to GET for
// servers that reject HEAD.
func (p *URLProbe) Check(ctx context.Context, req Request) (scoring.LayerResult, error) {
	target := strings.TrimSpace(req.Reference.URL)
	if target == "" {
		return scoring.LayerResult{}, NewLayerError(ErrorNotFound, scoring.LayerURL, "reference has no url", nil)
	}

	status, err := p.do(ctx, http.MethodHead, target)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = p.do(ctx, http.MethodGet, target)
	}
	if err != nil {
		return scoring.LayerResult{}, err
	}
	return resultForStatus(status)
}

func (p *URLProbe) do(ctx context.Context, method, target string) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, NewLayerError(ErrorBadData, scoring.LayerURL, "invalid url", err)
	}
	httpReq.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return 0, NewLayerError(ErrorTimeout, scoring.LayerURL, "url probe timed out", err)
		}
		return 0, NewLayerError(ErrorOutage, scoring.LayerURL, "url unreachable", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func resultForStatus(status int) (scoring.LayerResult, error) {
	switch {
	case status >= 200 && status < 400:
		return scoring.LayerResult{Layer: scoring.LayerURL, Passed: true, Confidence: 1}, nil
	case status == http.StatusUnauthorized,
		status == http.StatusPaymentRequired,
		status == http.StatusForbidden,
		status == http.StatusUnavailableForLegalReasons:
		return scoring.LayerResult{Layer: scoring.LayerURL, Passed: false, Confidence: paywallConfidence}, nil
	case status == http.StatusTooManyRequests:
		return scoring.LayerResult{}, NewLayerError(ErrorRateLimited, scoring.LayerURL, "url host rate limited the probe", nil)
	case status >= 500:
		return scoring.LayerResult{}, NewLayerError(ErrorOutage, scoring.LayerURL, fmt.Sprintf("url host returned %d", status), nil)
	default:
		// 404, 410 and the remaining client errors mean the page is not there.
		return scoring.LayerResult{Layer: scoring.LayerURL, Passed: false, Confidence: 0}, nil
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
