package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-pulse/internal/core/domain"
	"market-pulse/internal/core/port"
)

type stubAttribution struct {
	result *port.AttributionResult
	rows   []domain.AttributedCampaign
	jobs   []domain.Job
}

func (s *stubAttribution) Sync(_ context.Context, catalog []domain.Job, _, _ time.Time) (*port.AttributionResult, error) {
	s.jobs = catalog
	return s.result, nil
}

func (s *stubAttribution) ListCampaigns(_ context.Context) ([]domain.AttributedCampaign, error) {
	return s.rows, nil
}

type stubTargetingUC struct {
	result *port.TargetingSyncResult
}

func (s *stubTargetingUC) Sync(_ context.Context) (*port.TargetingSyncResult, error) {
	return s.result, nil
}

type stubMarket struct {
	report *domain.MarketDecayReport
	health *domain.MarketHealthReport
	err    error
	asOf   time.Time
}

func (s *stubMarket) PredictCPR(_ context.Context, _ domain.MarketQuery, asOf time.Time) (*domain.MarketDecayReport, error) {
	s.asOf = asOf
	return s.report, s.err
}

func (s *stubMarket) Health(_ context.Context, _ domain.MarketQuery, asOf time.Time) (*domain.MarketHealthReport, error) {
	s.asOf = asOf
	return s.health, s.err
}

func newTestHandler(attribution port.AttributionUseCase, targeting port.TargetingUseCase, market port.MarketUseCase) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(attribution, targeting, market, logger)
}

func TestHandleMarketPredict(t *testing.T) {
	market := &stubMarket{report: &domain.MarketDecayReport{
		Locality:     "austin, TX",
		PredictedCPR: 69.0,
		Trend:        "increase",
	}}
	h := newTestHandler(&stubAttribution{}, &stubTargetingUC{}, market)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/predict?city=Austin&state=TX&topic=TIR&as_of=2025-06-01", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), market.asOf)

	var body domain.MarketDecayReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 69.0, body.PredictedCPR)
}

func TestHandleMarketPredictNotFound(t *testing.T) {
	h := newTestHandler(&stubAttribution{}, &stubTargetingUC{}, &stubMarket{err: port.ErrNoMatchingLocality})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/predict?city=Zzzyzx&state=TX", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMarketPredictInvalidQuery(t *testing.T) {
	h := newTestHandler(&stubAttribution{}, &stubTargetingUC{}, &stubMarket{err: port.ErrInvalidQuery})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/predict", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMarketPredictBadAsOf(t *testing.T) {
	h := newTestHandler(&stubAttribution{}, &stubTargetingUC{}, &stubMarket{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/predict?city=Austin&state=TX&as_of=junk", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAttributionSync(t *testing.T) {
	attribution := &stubAttribution{result: &port.AttributionResult{Total: 2, Matched: 1, Unmatched: 1}}
	h := newTestHandler(attribution, &stubTargetingUC{}, &stubMarket{})

	body := `{"jobs": [{"job_number": "12345", "city": "Austin", "state": "TX"}], "since": "2025-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attribution/sync", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, attribution.jobs, 1)
	assert.Equal(t, "12345", attribution.jobs[0].Number)

	var res port.AttributionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, res.Total, res.Matched+res.Unmatched)
}

func TestHandleAttributionSyncEmptyBody(t *testing.T) {
	attribution := &stubAttribution{result: &port.AttributionResult{}}
	h := newTestHandler(attribution, &stubTargetingUC{}, &stubMarket{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attribution/sync", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "an empty body is a valid default run")
}

func TestHandleTargetingSync(t *testing.T) {
	h := newTestHandler(&stubAttribution{}, &stubTargetingUC{result: &port.TargetingSyncResult{Stored: 3, Skipped: 1}}, &stubMarket{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/targeting/sync", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res port.TargetingSyncResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 3, res.Stored)
}
