package models

import (
	"strings"

	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/email"
)

// MinPasswordLength applies to newly set passwords only.
const MinPasswordLength = 8

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

// OAuthCallbackRequest carries the authorization code returned by the provider.
type OAuthCallbackRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

func (r *OAuthCallbackRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.RedirectURI = strings.TrimSpace(r.RedirectURI)
}

func (r *OAuthCallbackRequest) Validate() error {
	if r.Code == "" {
		return dErrors.New(dErrors.CodeValidation, "code is required")
	}
	return nil
}

// PhoneSignInRequest carries the one-time-code assertion issued by the phone provider.
type PhoneSignInRequest struct {
	Proof string `json:"proof"`
}

func (r *PhoneSignInRequest) Normalize() {
	r.Proof = strings.TrimSpace(r.Proof)
}

func (r *PhoneSignInRequest) Validate() error {
	if r.Proof == "" {
		return dErrors.New(dErrors.CodeValidation, "proof is required")
	}
	return nil
}

// OAuthIdentity is what an OAuth provider asserts about the caller.
type OAuthIdentity struct {
	Email     string
	Subject   string
	Name      string
	AvatarURL string
}

// PhoneIdentity is what the phone provider asserts about the caller.
type PhoneIdentity struct {
	Phone   string
	Subject string
}

type ChangePasswordRequest struct {
	Current string `json:"current_password"`
	Next    string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	if len(r.Next) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "new password must be at least 8 characters")
	}
	return nil
}

type CreateAccountRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

func (r *CreateAccountRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Role == "" {
		r.Role = RoleEmployee
	}
}

func (r *CreateAccountRequest) Validate() error {
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	if len(r.Password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if !r.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "role must be one of admin, hr, employee")
	}
	return nil
}

type UpdateProfileRequest struct {
	ProfilePatch
}

func (r *UpdateProfileRequest) Normalize() {
	for _, f := range []*string{r.FullName, r.Phone, r.Department, r.Position} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateProfileRequest) Validate() error {
	if r.FullName != nil && *r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name cannot be blank")
	}
	return nil
}

// AuthResponse is returned by every sign-in endpoint.
type AuthResponse struct {
	Token   string      `json:"token"`
	Account AccountView `json:"account"`
	Profile *Profile    `json:"profile"`
}
