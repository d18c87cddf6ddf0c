package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/dashboard/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/httputil"
	authmw "peoplehub/pkg/platform/middleware/auth"
	request "peoplehub/pkg/platform/middleware/request"
	pstrings "peoplehub/pkg/platform/strings"
	"peoplehub/pkg/requestcontext"
)

type Service interface {
	Stats(ctx context.Context) (*models.Stats, error)
	Activities(ctx context.Context, kinds []models.ActivityKind) ([]models.Activity, error)
	Events(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, author id.AccountID, req models.CreateEventRequest) (*models.Event, error)
}

type Handler struct {
	dashboard Service
	guard     *authmw.Guard
	logger    *slog.Logger
}

func New(dashboard Service, guard *authmw.Guard, logger *slog.Logger) *Handler {
	return &Handler{dashboard: dashboard, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(h.guard.Authenticated())
		r.Get("/stats", h.handleStats)
		r.Get("/activities", h.handleActivities)
		r.Get("/events", h.handleEvents)
		r.With(h.guard.Roles("admin", "hr")).Post("/events", h.handleCreateEvent)
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.dashboard.Stats(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to load dashboard stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// handleActivities accepts ?kind=a,b to filter the feed.
func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kinds := models.ParseKinds(pstrings.SplitCSV(r.URL.Query().Get("kind")))
	activities, err := h.dashboard.Activities(ctx, kinds)
	if err != nil {
		h.fail(ctx, w, "failed to load activities", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"activities": activities})
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.dashboard.Events(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to load events", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	event, err := h.dashboard.CreateEvent(ctx, requestcontext.AccountID(ctx), *req)
	if err != nil {
		h.fail(ctx, w, "failed to create event", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
