package handler

import (
	"context"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
)

type RoleSource interface {
	RoleOf(ctx context.Context, accountID id.AccountID) (models.Role, error)
}

// RoleLookup adapts the directory to the auth middleware's string roles.
type RoleLookup struct {
	source RoleSource
}

func NewRoleLookup(source RoleSource) *RoleLookup {
	return &RoleLookup{source: source}
}

func (l *RoleLookup) RoleOf(ctx context.Context, accountID id.AccountID) (string, error) {
	role, err := l.source.RoleOf(ctx, accountID)
	if err != nil {
		return "", err
	}
	return string(role), nil
}
