package testutil

import (
	"context"
	"log/slog"
	"net/http"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	authmw "peoplehub/pkg/platform/middleware/auth"
)

type idTokens struct{}

// ValidateToken accepts any token that is itself an account ID.
func (idTokens) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if _, err := id.ParseAccountID(token); err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{AccountID: token}, nil
}

// StaticRoles maps accounts to roles for handler tests.
type StaticRoles map[id.AccountID]string

func (s StaticRoles) RoleOf(_ context.Context, accountID id.AccountID) (string, error) {
	role, ok := s[accountID]
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	return role, nil
}

// NewGuard returns a guard for handler tests. Bearer tokens are account IDs,
// see Bearer.
func NewGuard(roles StaticRoles) *authmw.Guard {
	return authmw.NewGuard(idTokens{}, roles, slog.New(slog.DiscardHandler), nil)
}

// Bearer authenticates req as accountID against a guard from NewGuard.
func Bearer(req *http.Request, accountID id.AccountID) *http.Request {
	req.Header.Set("Authorization", "Bearer "+accountID.String())
	return req
}
