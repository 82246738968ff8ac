package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"agora/internal/petition/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/platform/httputil"
	"agora/pkg/requestcontext"
)

// Service defines the petition operations the HTTP layer needs.
type Service interface {
	Submit(ctx context.Context, p models.NewPetition) (int64, error)
	Transition(ctx context.Context, req models.TransitionRequest) ([]string, error)
	ToggleEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error)
	EndorsementExists(ctx context.Context, petitionID int64, userEmail string) (bool, error)
	ListCityPetitions(ctx context.Context, region, city string, isInitiative bool) ([]models.Summary, error)
	ListModeratorPetitions(ctx context.Context, region, city string) ([]models.ModeratorSummary, error)
	ListUserPetitions(ctx context.Context, petitionerEmail string) ([]models.Summary, error)
	GetPetition(ctx context.Context, petitionID int64) (*models.Detail, error)
}

// Handler wires petition endpoints to the petition service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a petition handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public petition endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/petitions", h.HandleSubmit)
	r.Get("/petitions", h.HandleListCity)
	r.Get("/petitions/{id}", h.HandleDetail)
	r.Put("/petitions/{id}/endorsement", h.HandleToggleEndorsement)
	r.Get("/petitions/{id}/endorsement", h.HandleCheckEndorsement)
	r.Get("/users/{email}/petitions", h.HandleListUser)
}

// RegisterModeration mounts the endpoints that require a moderator token.
func (h *Handler) RegisterModeration(r chi.Router) {
	r.Post("/petitions/{id}/transition", h.HandleTransition)
	r.Get("/moderation/petitions", h.HandleListModeration)
}

// HandleSubmit handles POST /petitions.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}

	id, err := h.service.Submit(ctx, req.ToModel())
	if err != nil {
		h.logError(ctx, "petition submission failed", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "petition submitted",
		"petition_id", id,
		"kind", models.KindLabel(req.IsInitiative),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"petition_id": id})
}

// HandleTransition handles POST /petitions/{id}/transition. The moderator's
// identity and jurisdiction come from the validated token claims.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitionID, ok := pathID(w, r)
	if !ok {
		return
	}
	admin, ok := requestcontext.AdminClaims(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "moderator token required"))
		return
	}
	req, ok := httputil.Decode[TransitionRequest](w, r, h.logger)
	if !ok {
		return
	}
	newStatus, err := models.ParseStatus(req.NewStatus)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "invalid status", err))
		return
	}

	recipients, err := h.service.Transition(ctx, models.TransitionRequest{
		PetitionID:  petitionID,
		AdminID:     admin.ID,
		AdminRegion: admin.Region,
		AdminCity:   admin.City,
		NewStatus:   newStatus,
		Comment:     req.Comment,
	})
	if err != nil {
		h.logError(ctx, "status transition failed", err)
		httputil.WriteError(w, err)
		return
	}
	if recipients == nil {
		recipients = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"recipient_emails": recipients})
}

// HandleToggleEndorsement handles PUT /petitions/{id}/endorsement.
func (h *Handler) HandleToggleEndorsement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitionID, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[EndorsementRequest](w, r, h.logger)
	if !ok {
		return
	}

	endorsed, err := h.service.ToggleEndorsement(ctx, petitionID, req.UserEmail)
	if err != nil {
		h.logError(ctx, "endorsement toggle failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"endorsed": endorsed})
}

// HandleCheckEndorsement handles GET /petitions/{id}/endorsement?email=.
func (h *Handler) HandleCheckEndorsement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitionID, ok := pathID(w, r)
	if !ok {
		return
	}

	endorsed, err := h.service.EndorsementExists(ctx, petitionID, r.URL.Query().Get("email"))
	if err != nil {
		h.logError(ctx, "endorsement check failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"endorsed": endorsed})
}

// HandleListCity handles GET /petitions?region=&city=&initiative=.
func (h *Handler) HandleListCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	isInitiative, err := strconv.ParseBool(q.Get("initiative"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "initiative must be true or false"))
		return
	}

	petitions, err := h.service.ListCityPetitions(ctx, q.Get("region"), q.Get("city"), isInitiative)
	if err != nil {
		h.logError(ctx, "city listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]SummaryResponse{"petitions": fromSummaries(petitions)})
}

// HandleListModeration handles GET /moderation/petitions. The listing is
// scoped to the moderator's own jurisdiction.
func (h *Handler) HandleListModeration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := requestcontext.AdminClaims(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "moderator token required"))
		return
	}

	petitions, err := h.service.ListModeratorPetitions(ctx, admin.Region, admin.City)
	if err != nil {
		h.logError(ctx, "moderation listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]ModeratorSummaryResponse{"petitions": fromModeratorSummaries(petitions)})
}

// HandleListUser handles GET /users/{email}/petitions.
func (h *Handler) HandleListUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitions, err := h.service.ListUserPetitions(ctx, chi.URLParam(r, "email"))
	if err != nil {
		h.logError(ctx, "user listing failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]SummaryResponse{"petitions": fromSummaries(petitions)})
}

// HandleDetail handles GET /petitions/{id}.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	petitionID, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetPetition(ctx, petitionID)
	if err != nil {
		h.logError(ctx, "petition detail failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromDetail(detail))
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid petition id"))
		return 0, false
	}
	return id, true
}
