package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/attendance/models"
	"peoplehub/internal/attendance/service"
	identityModels "peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/httputil"
	authmw "peoplehub/pkg/platform/middleware/auth"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, viewer service.Viewer) ([]models.Record, error)
	Get(ctx context.Context, viewer service.Viewer, recordID id.AttendanceID) (*models.Record, error)
	CheckIn(ctx context.Context, accountID id.AccountID, req models.CheckInRequest) (*models.Record, error)
	Update(ctx context.Context, viewer service.Viewer, recordID id.AttendanceID, req models.UpdateRequest) (*models.Record, error)
}

type Handler struct {
	attendance Service
	guard      *authmw.Guard
	logger     *slog.Logger
}

func New(attendance Service, guard *authmw.Guard, logger *slog.Logger) *Handler {
	return &Handler{attendance: attendance, guard: guard, logger: logger}
}

// Register mounts the attendance routes. Every route loads the caller's
// role so the service can scope reads and writes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Use(h.guard.Roles())
		r.Get("/", h.handleList)
		r.Post("/", h.handleCheckIn)
		r.Get("/{id}", h.handleGet)
		r.Patch("/{id}", h.handleUpdate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.attendance.List(ctx, viewerFrom(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to list attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, ok := parseRecordID(w, r)
	if !ok {
		return
	}
	record, err := h.attendance.Get(ctx, viewerFrom(ctx), recordID)
	if err != nil {
		h.fail(ctx, w, "failed to load attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.CheckInRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	record, err := h.attendance.CheckIn(ctx, requestcontext.AccountID(ctx), *req)
	if err != nil {
		h.fail(ctx, w, "failed to check in", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, ok := parseRecordID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	record, err := h.attendance.Update(ctx, viewerFrom(ctx), recordID, *req)
	if err != nil {
		h.fail(ctx, w, "failed to update attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func viewerFrom(ctx context.Context) service.Viewer {
	return service.Viewer{
		AccountID: requestcontext.AccountID(ctx),
		Staff:     identityModels.Role(requestcontext.Role(ctx)).IsStaff(),
	}
}

func parseRecordID(w http.ResponseWriter, r *http.Request) (id.AttendanceID, bool) {
	recordID, err := id.ParseAttendanceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid attendance id"))
		return id.AttendanceID{}, false
	}
	return recordID, true
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
