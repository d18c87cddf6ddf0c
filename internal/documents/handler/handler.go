package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/documents/models"
	"peoplehub/internal/documents/service"
	identityModels "peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/httputil"
	authmw "peoplehub/pkg/platform/middleware/auth"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
)

type Service interface {
	ListMine(ctx context.Context, accountID id.AccountID, category models.Category) ([]models.Document, error)
	ListCompany(ctx context.Context) ([]models.Document, error)
	ListAll(ctx context.Context) ([]models.Document, error)
	Create(ctx context.Context, viewer service.Viewer, req models.CreateDocumentRequest) (*models.Document, error)
}

type Handler struct {
	documents Service
	guard     *authmw.Guard
	logger    *slog.Logger
}

func New(documents Service, guard *authmw.Guard, logger *slog.Logger) *Handler {
	return &Handler{documents: documents, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.With(h.guard.Roles(string(identityModels.RoleAdmin), string(identityModels.RoleHR))).Get("/", h.handleListAll)
		r.With(h.guard.Roles()).Post("/", h.handleCreate)
		r.With(h.guard.Authenticated()).Get("/company", h.handleListCompany)
		r.With(h.guard.Authenticated()).Get("/{category}", h.handleListMine)
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docs, err := h.documents.ListAll(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) handleListCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docs, err := h.documents.ListCompany(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list company documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := models.Category(chi.URLParam(r, "category"))
	docs, err := h.documents.ListMine(ctx, requestcontext.AccountID(ctx), category)
	if err != nil {
		h.fail(ctx, w, "failed to list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CreateDocumentRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	viewer := service.Viewer{
		AccountID: requestcontext.AccountID(ctx),
		Staff:     identityModels.Role(requestcontext.Role(ctx)).IsStaff(),
	}
	doc, err := h.documents.Create(ctx, viewer, *req)
	if err != nil {
		h.fail(ctx, w, "failed to create document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelError
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
