package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"agora/internal/analytics/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/httputil"
	"agora/pkg/requestcontext"
)

// Service defines the analytics operations the HTTP layer needs.
type Service interface {
	Brief(ctx context.Context, region, city, period string) (*models.BriefReport, error)
	Detailed(ctx context.Context, region, city string, start, end time.Time, rowsCount int) (*models.DetailedReport, error)
}

// Handler wires analytics endpoints to the analytics service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an analytics handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the analytics endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/analytics/brief", h.HandleBrief)
	r.Get("/analytics/detailed", h.HandleDetailed)
}

// HandleBrief handles GET /analytics/brief?region=&city=&period=.
func (h *Handler) HandleBrief(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	report, err := h.service.Brief(ctx, q.Get("region"), q.Get("city"), q.Get("period"))
	if err != nil {
		h.logger.ErrorContext(ctx, "brief analysis failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleDetailed handles GET /analytics/detailed?region=&city=&start=&end=&rows=.
// start and end are RFC 3339 timestamps or plain dates (YYYY-MM-DD).
func (h *Handler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	start, err := parseTime(q.Get("start"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "invalid start time", err))
		return
	}
	end, err := parseTime(q.Get("end"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "invalid end time", err))
		return
	}
	rows := 10
	if raw := q.Get("rows"); raw != "" {
		rows, err = strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "rows must be an integer"))
			return
		}
	}

	report, err := h.service.Detailed(ctx, q.Get("region"), q.Get("city"), start, end, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "detailed analysis failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
