package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"peoplehub/internal/cache"
	"peoplehub/internal/identity/metrics"
	"peoplehub/internal/identity/models"
	"peoplehub/internal/identity/password"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/email"
	"peoplehub/pkg/platform/sentinel"
	"peoplehub/pkg/requestcontext"
)

const tracerName = "peoplehub/internal/identity/service"

// Resolution outcomes recorded per channel.
const (
	outcomeSignedIn = "signed_in"
	outcomeCreated  = "created"
	outcomeLinked   = "linked"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Resolver maps a credential from any sign-in channel onto one canonical
// Account and makes sure it has a Profile. Email is the join key across
// channels.
type Resolver struct {
	accounts         AccountStore
	provisioner      ProfileProvisioner
	hasher           PasswordHasher
	cache            *cache.Accessor
	logger           *slog.Logger
	metrics          *metrics.Metrics
	audit            *auditEmitter
	tracer           trace.Tracer
	phoneEmailDomain string
}

func NewResolver(accounts AccountStore, provisioner ProfileProvisioner, hasher PasswordHasher, accessor *cache.Accessor, opts ...Option) *Resolver {
	cfg := newConfig(opts)
	return &Resolver{
		accounts:         accounts,
		provisioner:      provisioner,
		hasher:           hasher,
		cache:            accessor,
		logger:           cfg.logger,
		metrics:          cfg.metrics,
		audit:            newAuditEmitter(cfg.logger, cfg.auditPublisher),
		tracer:           otel.Tracer(tracerName),
		phoneEmailDomain: cfg.phoneEmailDomain,
	}
}

// ResolveByPassword never creates an account. Unknown email, an account
// without a password and a wrong password all fail with the same error.
func (r *Resolver) ResolveByPassword(ctx context.Context, req models.LoginRequest) (*models.Resolution, error) {
	ctx, span := r.startSpan(ctx, channelPassword)
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := cache.Read(ctx, r.cache, cache.UserKey(req.Email), cache.TTLIdentity,
		func(ctx context.Context) (*models.Account, error) {
			return r.accounts.FindByEmail(ctx, req.Email)
		})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, r.reject(ctx, span, channelPassword, req.Email, "unknown_account")
		}
		return nil, r.fail(span, channelPassword, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account"))
	}

	if !account.HasPassword() {
		return nil, r.reject(ctx, span, channelPassword, req.Email, "no_password")
	}
	if err := r.hasher.Verify(req.Password, account.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, r.reject(ctx, span, channelPassword, req.Email, "password_mismatch")
		}
		return nil, r.fail(span, channelPassword, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password"))
	}

	return r.complete(ctx, span, channelPassword, outcomeSignedIn, account)
}

// ResolveByOAuth signs in with a provider-asserted identity. An existing
// account with the same email gets the binding attached; otherwise a new
// employee account is created.
func (r *Resolver) ResolveByOAuth(ctx context.Context, identity models.OAuthIdentity) (*models.Resolution, error) {
	ctx, span := r.startSpan(ctx, channelOAuth)
	defer span.End()

	identity.Email = email.Normalize(identity.Email)
	identity.Subject = strings.TrimSpace(identity.Subject)
	identity.Name = strings.TrimSpace(identity.Name)
	if identity.Email == "" || identity.Subject == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "provider identity must include email and subject")
	}

	account, err := r.accounts.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if account.HasOAuthBinding() {
			return r.complete(ctx, span, channelOAuth, outcomeSignedIn, account)
		}
		linked, err := r.attachOAuth(ctx, account, identity)
		if err != nil {
			return nil, r.fail(span, channelOAuth, err)
		}
		return r.complete(ctx, span, channelOAuth, outcomeLinked, linked)
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		return nil, r.fail(span, channelOAuth, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account"))
	}

	name := identity.Name
	if name == "" {
		name = email.DisplayName(identity.Email)
	}
	created, err := r.createAccount(ctx, channelOAuth, &models.Account{
		Email:        identity.Email,
		Name:         name,
		OAuthSubject: identity.Subject,
		AvatarURL:    identity.AvatarURL,
	})
	if err != nil {
		return nil, r.fail(span, channelOAuth, err)
	}
	return r.complete(ctx, span, channelOAuth, outcomeCreated, created)
}

// ResolveByPhone signs in with a provider-verified phone number. First
// contact creates an account whose email is synthesized from the provider
// subject.
func (r *Resolver) ResolveByPhone(ctx context.Context, identity models.PhoneIdentity) (*models.Resolution, error) {
	ctx, span := r.startSpan(ctx, channelPhone)
	defer span.End()

	identity.Phone = strings.TrimSpace(identity.Phone)
	identity.Subject = strings.TrimSpace(identity.Subject)
	if identity.Phone == "" || identity.Subject == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "provider identity must include phone and subject")
	}

	account, err := r.accounts.FindByPhone(ctx, identity.Phone)
	switch {
	case err == nil:
		return r.complete(ctx, span, channelPhone, outcomeSignedIn, account)
	case errors.Is(err, sentinel.ErrNotFound):
	default:
		return nil, r.fail(span, channelPhone, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account"))
	}

	created, err := r.createAccount(ctx, channelPhone, &models.Account{
		Email: email.Synthesize(identity.Subject, r.phoneEmailDomain),
		Name:  identity.Phone,
		Phone: identity.Phone,
	})
	if err != nil {
		return nil, r.fail(span, channelPhone, err)
	}
	return r.complete(ctx, span, channelPhone, outcomeCreated, created)
}

func (r *Resolver) attachOAuth(ctx context.Context, account *models.Account, identity models.OAuthIdentity) (*models.Account, error) {
	patch := models.AccountPatch{OAuthSubject: &identity.Subject}
	if account.Name == "" && identity.Name != "" {
		patch.Name = &identity.Name
	}
	if account.AvatarURL == "" && identity.AvatarURL != "" {
		patch.AvatarURL = &identity.AvatarURL
	}

	updated, err := r.accounts.Update(ctx, account.ID, patch, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "account not found", "failed to link provider identity")
	}
	r.cache.InvalidateEntity(ctx, cache.AccountRef(updated.ID, updated.Email))
	r.audit.oauthLinked(ctx, updated)
	return updated, nil
}

// createAccount persists a new employee account. A duplicate email surfaces
// as a conflict; the caller does not retry.
func (r *Resolver) createAccount(ctx context.Context, channel string, account *models.Account) (*models.Account, error) {
	now := requestcontext.Now(ctx)
	account.ID = id.NewAccountID()
	account.Role = models.RoleEmployee
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := r.accounts.Create(ctx, account); err != nil {
		return nil, wrapStoreErr(err, "account not found", "failed to create account")
	}
	r.cache.InvalidateEntity(ctx, cache.AccountRef(account.ID, account.Email))
	r.metrics.IncAccountCreated(channel)
	r.audit.accountCreated(ctx, channel, account)
	return account, nil
}

func (r *Resolver) complete(ctx context.Context, span trace.Span, channel, outcome string, account *models.Account) (*models.Resolution, error) {
	profile, err := r.provisioner.EnsureProfile(ctx, account)
	if err != nil {
		return nil, r.fail(span, channel, err)
	}

	span.SetAttributes(
		attribute.String("identity.outcome", outcome),
		attribute.String("account.id", account.ID.String()),
	)
	r.metrics.ObserveResolution(channel, outcome)
	r.audit.loginSucceeded(ctx, channel, account)
	return &models.Resolution{Account: account, Profile: profile}, nil
}

func (r *Resolver) reject(ctx context.Context, span trace.Span, channel, subject, reason string) error {
	span.SetAttributes(attribute.String("identity.outcome", outcomeRejected))
	r.metrics.ObserveResolution(channel, outcomeRejected)
	r.audit.authFailed(ctx, channel, subject, reason)
	return errInvalidCredentials
}

func (r *Resolver) fail(span trace.Span, channel string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "resolution failed")
	r.metrics.ObserveResolution(channel, outcomeFailed)
	return err
}

func (r *Resolver) startSpan(ctx context.Context, channel string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "identity.Resolve",
		trace.WithAttributes(attribute.String("identity.channel", channel)))
}
