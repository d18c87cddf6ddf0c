package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"peoplehub/internal/cache"
	"peoplehub/internal/identity/metrics"
	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/email"
	"peoplehub/pkg/platform/sentinel"
	"peoplehub/pkg/requestcontext"
)

// Provisioner owns the get-or-create of profiles. No other code path creates
// a Profile.
type Provisioner struct {
	profiles        ProfileStore
	cache           *cache.Accessor
	logger          *slog.Logger
	metrics         *metrics.Metrics
	audit           *auditEmitter
	newEmployeeCode func(now time.Time) (string, error)
}

func NewProvisioner(profiles ProfileStore, accessor *cache.Accessor, opts ...Option) *Provisioner {
	cfg := newConfig(opts)
	return &Provisioner{
		profiles:        profiles,
		cache:           accessor,
		logger:          cfg.logger,
		metrics:         cfg.metrics,
		audit:           newAuditEmitter(cfg.logger, cfg.auditPublisher),
		newEmployeeCode: cfg.newEmployeeCode,
	}
}

// EnsureProfile returns the account's profile, creating it on first use.
//
// The existence check and the insert are separate steps, so two concurrent
// first calls for the same account can both create a profile. Lookups
// return the earliest one.
func (p *Provisioner) EnsureProfile(ctx context.Context, account *models.Account) (*models.Profile, error) {
	if account == nil || account.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "account is required")
	}

	profile, err := p.findProfile(ctx, account.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	now := requestcontext.Now(ctx)
	code, err := p.newEmployeeCode(now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate employee code")
	}

	fullName := account.Name
	if fullName == "" {
		fullName = email.DisplayName(account.Email)
	}
	profile = &models.Profile{
		ID:           id.NewProfileID(),
		OwnerID:      account.ID,
		EmployeeCode: code,
		FullName:     fullName,
		Email:        account.Email,
		Phone:        account.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.profiles.Create(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}

	p.cache.InvalidateEntity(ctx, cache.AccountRef(account.ID, account.Email))
	p.metrics.IncProfileCreated()
	p.audit.profileProvisioned(ctx, profile)
	return profile, nil
}

// UpdateProfile applies patch to the account's profile, provisioning it first
// if needed.
func (p *Provisioner) UpdateProfile(ctx context.Context, account *models.Account, patch models.ProfilePatch) (*models.Profile, error) {
	if _, err := p.EnsureProfile(ctx, account); err != nil {
		return nil, err
	}

	updated, err := p.profiles.Update(ctx, account.ID, patch, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "profile not found", "failed to update profile")
	}
	p.cache.InvalidateEntity(ctx, cache.ProfileRef(account.ID))
	return updated, nil
}

func (p *Provisioner) findProfile(ctx context.Context, owner id.AccountID) (*models.Profile, error) {
	return cache.Read(ctx, p.cache, cache.ProfileKey(owner), cache.TTLGeneral,
		func(ctx context.Context) (*models.Profile, error) {
			return p.profiles.FindByOwner(ctx, owner)
		})
}
