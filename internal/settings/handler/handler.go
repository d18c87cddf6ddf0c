package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/httputil"
	authmw "peoplehub/pkg/platform/middleware/auth"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, actor id.AccountID, req models.UpdateSettingsRequest) (*models.Settings, error)
}

type Handler struct {
	settings Service
	guard    *authmw.Guard
	logger   *slog.Logger
}

func New(settings Service, guard *authmw.Guard, logger *slog.Logger) *Handler {
	return &Handler{settings: settings, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.guard.Authenticated()).Get("/settings", h.handleGet)
	r.With(h.guard.Roles("admin")).Put("/settings", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load settings",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.UpdateSettingsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	settings, err := h.settings.Update(ctx, requestcontext.AccountID(ctx), *req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update settings",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}
