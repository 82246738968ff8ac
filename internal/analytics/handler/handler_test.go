package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"agora/internal/analytics/models"
	dErrors "agora/pkg/domain-errors"
)

type fakeService struct {
	brief      *models.BriefReport
	detailed   *models.DetailedReport
	err        error
	lastStart  time.Time
	lastEnd    time.Time
	lastRows   int
	lastPeriod string
}

func (f *fakeService) Brief(_ context.Context, region, city, period string) (*models.BriefReport, error) {
	f.lastPeriod = period
	if f.err != nil {
		return nil, f.err
	}
	return f.brief, nil
}

func (f *fakeService) Detailed(_ context.Context, region, city string, start, end time.Time, rows int) (*models.DetailedReport, error) {
	f.lastStart, f.lastEnd, f.lastRows = start, end, rows
	if f.err != nil {
		return nil, f.err
	}
	return f.detailed, nil
}

func newAnalyticsRouter(svc *fakeService) http.Handler {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestBriefEndpoint(t *testing.T) {
	svc := &fakeService{brief: &models.BriefReport{
		TopCityInitiatives: []models.CategoryCount{{Category: "roads", Count: 3}},
	}}
	router := newAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/brief?region=north&city=springfield&period=week", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastPeriod != "week" {
		t.Fatalf("expected period to be forwarded, got %q", svc.lastPeriod)
	}

	var resp struct {
		Top []models.CategoryCount `json:"most_popular_city_initiatives"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode brief response: %v", err)
	}
	if len(resp.Top) != 1 || resp.Top[0].Category != "roads" {
		t.Fatalf("unexpected brief payload: %+v", resp.Top)
	}
}

func TestBriefAggregationFailureMapsTo502(t *testing.T) {
	svc := &fakeService{err: dErrors.New(dErrors.CodeAggregation, "brief analysis failed")}
	router := newAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/analytics/brief?region=north&city=springfield&period=week", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for aggregation failure, got %d", rec.Code)
	}
}

func TestDetailedEndpointParsesWindow(t *testing.T) {
	svc := &fakeService{detailed: &models.DetailedReport{}}
	router := newAnalyticsRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/analytics/detailed?region=north&city=springfield&start=2025-06-01&end=2025-06-30&rows=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRows != 5 {
		t.Fatalf("expected rows=5 forwarded, got %d", svc.lastRows)
	}
	if svc.lastStart.Format("2006-01-02") != "2025-06-01" || svc.lastEnd.Format("2006-01-02") != "2025-06-30" {
		t.Fatalf("unexpected window: %v .. %v", svc.lastStart, svc.lastEnd)
	}
}

func TestDetailedRejectsBadInput(t *testing.T) {
	svc := &fakeService{detailed: &models.DetailedReport{}}
	router := newAnalyticsRouter(svc)

	for name, target := range map[string]string{
		"bad start": "/analytics/detailed?region=north&city=springfield&start=junk&end=2025-06-30",
		"bad end":   "/analytics/detailed?region=north&city=springfield&start=2025-06-01&end=junk",
		"bad rows":  "/analytics/detailed?region=north&city=springfield&start=2025-06-01&end=2025-06-30&rows=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}
