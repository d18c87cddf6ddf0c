package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AccountStore,ProfileStore,ProfileProvisioner,PasswordHasher,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"peoplehub/internal/identity/metrics"
	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/audit"
	"peoplehub/pkg/platform/sentinel"
)

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByPhone(ctx context.Context, phone string) (*models.Account, error)
	Update(ctx context.Context, accountID id.AccountID, patch models.AccountPatch, now time.Time) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}

type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByOwner(ctx context.Context, owner id.AccountID) (*models.Profile, error)
	Update(ctx context.Context, owner id.AccountID, patch models.ProfilePatch, now time.Time) (*models.Profile, error)
}

// ProfileProvisioner is the single get-or-create entry point for profiles.
type ProfileProvisioner interface {
	EnsureProfile(ctx context.Context, account *models.Account) (*models.Profile, error)
	UpdateProfile(ctx context.Context, account *models.Account, patch models.ProfilePatch) (*models.Profile, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	channelPassword = "password"
	channelOAuth    = "oauth"
	channelPhone    = "phone"
	channelAdmin    = "admin"
)

// DefaultPhoneEmailDomain hosts the placeholder emails of phone-created accounts.
const DefaultPhoneEmailDomain = "phone.peoplehub.local"

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

type serviceConfig struct {
	logger           *slog.Logger
	auditPublisher   AuditPublisher
	metrics          *metrics.Metrics
	phoneEmailDomain string
	newEmployeeCode  func(now time.Time) (string, error)
}

type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *serviceConfig) {
		c.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// WithPhoneEmailDomain overrides DefaultPhoneEmailDomain.
func WithPhoneEmailDomain(domain string) Option {
	return func(c *serviceConfig) {
		if domain != "" {
			c.phoneEmailDomain = domain
		}
	}
}

// WithEmployeeCodeGenerator replaces the ULID-based employee code generator.
func WithEmployeeCodeGenerator(fn func(now time.Time) (string, error)) Option {
	return func(c *serviceConfig) {
		c.newEmployeeCode = fn
	}
}

func newConfig(opts []Option) *serviceConfig {
	cfg := &serviceConfig{
		phoneEmailDomain: DefaultPhoneEmailDomain,
		newEmployeeCode:  NewEmployeeCode,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.New(nil)
	}
	return cfg
}

// wrapStoreErr converts store sentinels into domain errors. Unexpected
// errors keep their message for the response body.
func wrapStoreErr(err error, notFoundMsg, internalMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}
