package service

import (
	"context"
	"errors"
	"log/slog"

	"peoplehub/internal/cache"
	"peoplehub/internal/identity/metrics"
	"peoplehub/internal/identity/models"
	"peoplehub/internal/identity/password"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/requestcontext"
)

// Directory serves account and profile reads and the account mutations that
// happen outside sign-in.
type Directory struct {
	accounts    AccountStore
	provisioner ProfileProvisioner
	hasher      PasswordHasher
	cache       *cache.Accessor
	logger      *slog.Logger
	metrics     *metrics.Metrics
	audit       *auditEmitter
}

func NewDirectory(accounts AccountStore, provisioner ProfileProvisioner, hasher PasswordHasher, accessor *cache.Accessor, opts ...Option) *Directory {
	cfg := newConfig(opts)
	return &Directory{
		accounts:    accounts,
		provisioner: provisioner,
		hasher:      hasher,
		cache:       accessor,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		audit:       newAuditEmitter(cfg.logger, cfg.auditPublisher),
	}
}

// GetEmployee returns the account joined with its profile, provisioning the
// profile if the account has none yet.
func (d *Directory) GetEmployee(ctx context.Context, accountID id.AccountID) (*models.Employee, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "account id is required")
	}
	return cache.Read(ctx, d.cache, cache.EmployeeKey(accountID), cache.TTLGeneral,
		func(ctx context.Context) (*models.Employee, error) {
			account, err := d.account(ctx, accountID)
			if err != nil {
				return nil, err
			}
			profile, err := d.provisioner.EnsureProfile(ctx, account)
			if err != nil {
				return nil, err
			}
			return &models.Employee{Account: account.View(), Profile: profile}, nil
		})
}

// RoleOf is used by the role gate on every staff-only request.
func (d *Directory) RoleOf(ctx context.Context, accountID id.AccountID) (models.Role, error) {
	employee, err := d.GetEmployee(ctx, accountID)
	if err != nil {
		return "", err
	}
	return employee.Account.Role, nil
}

func (d *Directory) ListEmployees(ctx context.Context) ([]models.AccountView, error) {
	accounts, err := d.accounts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list accounts")
	}
	views := make([]models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}
	return views, nil
}

func (d *Directory) GetProfile(ctx context.Context, accountID id.AccountID) (*models.Profile, error) {
	account, err := d.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return d.provisioner.EnsureProfile(ctx, account)
}

func (d *Directory) UpdateProfile(ctx context.Context, accountID id.AccountID, req models.UpdateProfileRequest) (*models.Profile, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	account, err := d.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return d.provisioner.UpdateProfile(ctx, account, req.ProfilePatch)
}

// CreateAccount creates a password account on behalf of staff and
// provisions its profile.
func (d *Directory) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.Employee, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := d.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	account := &models.Account{
		ID:           id.NewAccountID(),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: hash,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := d.accounts.Create(ctx, account); err != nil {
		return nil, wrapStoreErr(err, "account not found", "failed to create account")
	}
	d.cache.InvalidateEntity(ctx, cache.AccountRef(account.ID, account.Email))
	d.metrics.IncAccountCreated(channelAdmin)
	d.audit.accountCreated(ctx, channelAdmin, account)

	profile, err := d.provisioner.EnsureProfile(ctx, account)
	if err != nil {
		return nil, err
	}
	return &models.Employee{Account: account.View(), Profile: profile}, nil
}

// ChangePassword replaces the account's password. An account that has no
// password yet may set one without supplying the current password.
func (d *Directory) ChangePassword(ctx context.Context, accountID id.AccountID, req models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	account, err := d.account(ctx, accountID)
	if err != nil {
		return err
	}

	if account.HasPassword() {
		if err := d.hasher.Verify(req.Current, account.PasswordHash); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				return dErrors.New(dErrors.CodeUnauthorized, "current password is incorrect")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
		}
	}

	hash, err := d.hasher.Hash(req.Next)
	if err != nil {
		return err
	}
	updated, err := d.accounts.Update(ctx, accountID, models.AccountPatch{PasswordHash: &hash}, requestcontext.Now(ctx))
	if err != nil {
		return wrapStoreErr(err, "account not found", "failed to update password")
	}

	d.cache.InvalidateEntity(ctx, cache.AccountRef(updated.ID, updated.Email))
	d.audit.passwordChanged(ctx, updated)
	return nil
}

func (d *Directory) account(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	account, err := d.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, wrapStoreErr(err, "account not found", "failed to load account")
	}
	return account, nil
}
