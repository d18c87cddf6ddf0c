package models

import (
	"time"

	id "peoplehub/pkg/domain"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// IsStaff reports whether the role may read and write other accounts' data.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleHR
}

// Account is the canonical identity record. Email is unique and stored
// normalized; the optional credential fields bind the other sign-in channels.
//
// Account is also the cached snapshot under the user:<email> key, so the
// password hash is serialized. Use AccountView for anything leaving the service.
type Account struct {
	ID           id.AccountID `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	PasswordHash string       `json:"password_hash,omitempty"`
	OAuthSubject string       `json:"oauth_subject,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

func (a *Account) HasOAuthBinding() bool { return a.OAuthSubject != "" }

// View strips credential material.
func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		Phone:     a.Phone,
		AvatarURL: a.AvatarURL,
		CreatedAt: a.CreatedAt,
	}
}

// AccountPatch is a partial update; nil fields are left unchanged.
type AccountPatch struct {
	Name         *string
	PasswordHash *string
	OAuthSubject *string
	AvatarURL    *string
	Phone        *string
}

// Apply writes the non-nil fields onto a.
func (p AccountPatch) Apply(a *Account, now time.Time) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.OAuthSubject != nil {
		a.OAuthSubject = *p.OAuthSubject
	}
	if p.AvatarURL != nil {
		a.AvatarURL = *p.AvatarURL
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	a.UpdatedAt = now
}

func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.PasswordHash == nil && p.OAuthSubject == nil && p.AvatarURL == nil && p.Phone == nil
}

type AccountView struct {
	ID        id.AccountID `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Role      Role         `json:"role"`
	Phone     string       `json:"phone,omitempty"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
