package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/httputil"
	request "peoplehub/pkg/platform/middleware/request"
	"peoplehub/pkg/requestcontext"
)

// JWTValidator validates a bearer credential.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// RoleLookup resolves the current role of an account. Roles are not carried
// in the token, so a role change takes effect on the next request.
type RoleLookup interface {
	RoleOf(ctx context.Context, accountID id.AccountID) (string, error)
}

// JWTClaims is what the middleware needs from a validated token.
type JWTClaims struct {
	AccountID string
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token and stores the
// account ID on the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			accountID, err := id.ParseAccountID(claims.AccountID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed account claim",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithAccountID(ctx, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after RequireAuth. It resolves the caller's role,
// stores it on the context and rejects roles outside allowed. An empty
// allowed list only loads the role.
func RequireRole(roles RoleLookup, logger *slog.Logger, allowed ...string) func(http.Handler) http.Handler {
	return requireRole(roles, logger, nil, allowed)
}

func requireRole(roles RoleLookup, logger *slog.Logger, denials DenialRecorder, allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)
			accountID := requestcontext.AccountID(ctx)
			if accountID.IsNil() {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			role, err := roles.RoleOf(ctx, accountID)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					logger.WarnContext(ctx, "unauthorized access - account not found",
						"error", err,
						"account_id", accountID.String(),
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "account not found")
					return
				}
				logger.ErrorContext(ctx, "role lookup failed",
					"error", err,
					"account_id", accountID.String(),
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}

			if len(allowed) > 0 && !slices.Contains(allowed, role) {
				logger.WarnContext(ctx, "forbidden - insufficient role",
					"account_id", accountID.String(),
					"role", role,
					"request_id", requestID,
				)
				if denials != nil {
					denials.RecordDenied(ctx, accountID, role, r.URL.Path)
				}
				writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			ctx = requestcontext.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DenialRecorder is notified when a caller is turned away for their role.
type DenialRecorder interface {
	RecordDenied(ctx context.Context, accountID id.AccountID, role, path string)
}

// Guard bundles the token validator and role lookup so handlers can declare
// access rules per route group.
type Guard struct {
	validator JWTValidator
	roles     RoleLookup
	logger    *slog.Logger
	denials   DenialRecorder
}

// NewGuard builds a Guard. denials may be nil.
func NewGuard(validator JWTValidator, roles RoleLookup, logger *slog.Logger, denials DenialRecorder) *Guard {
	return &Guard{validator: validator, roles: roles, logger: logger, denials: denials}
}

// Authenticated requires a valid bearer token.
func (g *Guard) Authenticated() func(http.Handler) http.Handler {
	return RequireAuth(g.validator, g.logger)
}

// Roles requires a valid bearer token and one of allowed. With no allowed
// roles it only loads the caller's role onto the context.
func (g *Guard) Roles(allowed ...string) func(http.Handler) http.Handler {
	authn := RequireAuth(g.validator, g.logger)
	authz := requireRole(g.roles, g.logger, g.denials, allowed)
	return func(next http.Handler) http.Handler {
		return authn(authz(next))
	}
}
