package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/httputil"
	authmw "peoplehub/pkg/platform/middleware/auth"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
)

// Resolver signs callers in through any channel.
type Resolver interface {
	ResolveByPassword(ctx context.Context, req models.LoginRequest) (*models.Resolution, error)
	ResolveByOAuth(ctx context.Context, identity models.OAuthIdentity) (*models.Resolution, error)
	ResolveByPhone(ctx context.Context, identity models.PhoneIdentity) (*models.Resolution, error)
}

type Directory interface {
	GetEmployee(ctx context.Context, accountID id.AccountID) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.AccountView, error)
	GetProfile(ctx context.Context, accountID id.AccountID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, accountID id.AccountID, req models.UpdateProfileRequest) (*models.Profile, error)
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Employee, error)
	ChangePassword(ctx context.Context, accountID id.AccountID, req models.ChangePasswordRequest) error
}

type TokenIssuer interface {
	Issue(accountID id.AccountID) (string, error)
}

// OAuthIdentifier exchanges an authorization code with a named provider.
type OAuthIdentifier interface {
	Identify(ctx context.Context, provider, code, redirectURI string) (models.OAuthIdentity, error)
}

type PhoneVerifier interface {
	Verify(ctx context.Context, proof string) (models.PhoneIdentity, error)
}

// Handler serves sign-in, self-service account endpoints and the staff
// employee directory.
type Handler struct {
	resolver  Resolver
	directory Directory
	tokens    TokenIssuer
	oauth     OAuthIdentifier
	phone     PhoneVerifier
	guard     *authmw.Guard
	logger    *slog.Logger
}

func New(
	resolver Resolver,
	directory Directory,
	tokens TokenIssuer,
	oauth OAuthIdentifier,
	phone PhoneVerifier,
	guard *authmw.Guard,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		resolver:  resolver,
		directory: directory,
		tokens:    tokens,
		oauth:     oauth,
		phone:     phone,
		guard:     guard,
		logger:    logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/oauth/{provider}", h.handleOAuth)
	r.Post("/auth/phone", h.handlePhone)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Authenticated())
		r.Get("/me", h.handleGetMe)
		r.Put("/me/password", h.handleChangePassword)
		r.Get("/me/profile", h.handleGetProfile)
		r.Patch("/me/profile", h.handleUpdateProfile)
	})

	r.With(h.guard.Roles()).Get("/employees/{id}", h.handleGetEmployee)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Roles(string(models.RoleAdmin), string(models.RoleHR)))
		r.Get("/employees", h.handleListEmployees)
		r.Post("/admin/accounts", h.handleCreateAccount)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.resolver.ResolveByPassword(ctx, *req)
	h.respondAuth(w, r, "password", res, err)
}

func (h *Handler) handleOAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	provider := chi.URLParam(r, "provider")

	req, ok := httputil.DecodeAndPrepare[models.OAuthCallbackRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	identity, err := h.oauth.Identify(ctx, provider, req.Code, req.RedirectURI)
	if err != nil {
		h.logger.WarnContext(ctx, "oauth identification failed",
			"provider", provider,
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	res, err := h.resolver.ResolveByOAuth(ctx, identity)
	h.respondAuth(w, r, "oauth", res, err)
}

func (h *Handler) handlePhone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.PhoneSignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	identity, err := h.phone.Verify(ctx, req.Proof)
	if err != nil {
		h.logger.WarnContext(ctx, "phone verification failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	res, err := h.resolver.ResolveByPhone(ctx, identity)
	h.respondAuth(w, r, "phone", res, err)
}

// respondAuth issues the session token for a successful resolution.
func (h *Handler) respondAuth(w http.ResponseWriter, r *http.Request, channel string, res *models.Resolution, err error) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	if err != nil {
		h.logError(ctx, "sign-in failed", err, "channel", channel, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	token, err := h.tokens.Issue(res.Account.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.AuthResponse{
		Token:   token,
		Account: res.Account.View(),
		Profile: res.Profile,
	})
}

func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employee, err := h.directory.GetEmployee(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		h.logError(ctx, "failed to load account", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ChangePasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.directory.ChangePassword(ctx, requestcontext.AccountID(ctx), *req); err != nil {
		h.logError(ctx, "failed to change password", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.directory.GetProfile(ctx, requestcontext.AccountID(ctx))
	if err != nil {
		h.logError(ctx, "failed to load profile", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	profile, err := h.directory.UpdateProfile(ctx, requestcontext.AccountID(ctx), *req)
	if err != nil {
		h.logError(ctx, "failed to update profile", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

// handleGetEmployee lets callers read themselves; staff may read anyone.
func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	target, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid employee id"))
		return
	}
	caller := requestcontext.AccountID(ctx)
	if target != caller && !models.Role(requestcontext.Role(ctx)).IsStaff() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "cannot read another employee"))
		return
	}

	employee, err := h.directory.GetEmployee(ctx, target)
	if err != nil {
		h.logError(ctx, "failed to load employee", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employee)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employees, err := h.directory.ListEmployees(ctx)
	if err != nil {
		h.logError(ctx, "failed to list employees", err, "request_id", request.GetRequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateAccountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.Role == models.RoleAdmin && models.Role(requestcontext.Role(ctx)) != models.RoleAdmin {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only admins can create admin accounts"))
		return
	}

	employee, err := h.directory.CreateAccount(ctx, *req)
	if err != nil {
		h.logError(ctx, "failed to create account", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, employee)
}

// logError logs client errors at warn and everything else at error.
func (h *Handler) logError(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
}
