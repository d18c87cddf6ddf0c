package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

type stubRoles map[id.AccountID]string

func (s stubRoles) RoleOf(_ context.Context, accountID id.AccountID) (string, error) {
	role, ok := s[accountID]
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return role, nil
}

var discard = slog.New(slog.DiscardHandler)

func TestRequireAuth(t *testing.T) {
	accountID := id.NewAccountID()

	t.Run("missing header returns 401", func(t *testing.T) {
		h := RequireAuth(stubValidator{}, discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next should not run")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		h := RequireAuth(stubValidator{err: errors.New("expired")}, discard)(http.NotFoundHandler())
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired token")
	})

	t.Run("valid token stores account on context", func(t *testing.T) {
		var got id.AccountID
		h := RequireAuth(stubValidator{claims: &JWTClaims{AccountID: accountID.String()}}, discard)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = requestcontext.AccountID(r.Context())
			}))
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, accountID, got)
	})
}

func TestRequireRole(t *testing.T) {
	admin := id.NewAccountID()
	employee := id.NewAccountID()
	roles := stubRoles{admin: "admin", employee: "employee"}

	serve := func(accountID id.AccountID) *httptest.ResponseRecorder {
		h := RequireRole(roles, discard, "admin", "hr")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodGet, "/settings", nil)
		req = req.WithContext(requestcontext.WithAccountID(req.Context(), accountID))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, serve(admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(employee).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(id.NewAccountID()).Code)
}

type failingRoles struct{ err error }

func (f failingRoles) RoleOf(context.Context, id.AccountID) (string, error) { return "", f.err }

func TestRequireRoleLookupFailure(t *testing.T) {
	serve := func(roles RoleLookup) *httptest.ResponseRecorder {
		h := RequireRole(roles, discard, "admin")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next should not run")
		}))
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		req = req.WithContext(requestcontext.WithAccountID(req.Context(), id.NewAccountID()))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("store outage surfaces as internal error", func(t *testing.T) {
		rec := serve(failingRoles{err: dErrors.Wrap(errors.New("dial tcp: connection refused"), dErrors.CodeInternal, "failed to load account")})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"internal_error"`)
		assert.Contains(t, rec.Body.String(), "failed to load account")
		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		rec := serve(failingRoles{err: errors.New("boom")})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unknown account is unauthorized", func(t *testing.T) {
		rec := serve(failingRoles{err: dErrors.New(dErrors.CodeNotFound, "account not found")})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
	})
}

type recordedDenial struct {
	accountID id.AccountID
	role      string
	path      string
}

type denialLog []recordedDenial

func (d *denialLog) RecordDenied(_ context.Context, accountID id.AccountID, role, path string) {
	*d = append(*d, recordedDenial{accountID: accountID, role: role, path: path})
}

func TestGuardRoles(t *testing.T) {
	employee := id.NewAccountID()
	var denials denialLog
	guard := NewGuard(
		stubValidator{claims: &JWTClaims{AccountID: employee.String()}},
		stubRoles{employee: "employee"},
		discard,
		&denials,
	)

	var seenRole string
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenRole = requestcontext.Role(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	serve := func(h http.Handler, path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(guard.Roles("admin")(ok), "/settings"))
	assert.Equal(t, []recordedDenial{{accountID: employee, role: "employee", path: "/settings"}}, []recordedDenial(denials))

	assert.Equal(t, http.StatusNoContent, serve(guard.Roles()(ok), "/employees/x"))
	assert.Equal(t, "employee", seenRole)

	assert.Equal(t, http.StatusNoContent, serve(guard.Authenticated()(ok), "/me"))
}
