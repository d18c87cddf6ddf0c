package jwttoken

import (
	authmw "peoplehub/pkg/platform/middleware/auth"
)

// JWTServiceAdapter lets the auth middleware validate session tokens without
// importing this package's claim type.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(token string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{AccountID: claims.AccountID}, nil
}
