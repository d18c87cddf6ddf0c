package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"peoplehub/internal/cache"
	"peoplehub/internal/identity/models"
	"peoplehub/internal/identity/password"
	"peoplehub/internal/identity/service/mocks"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/sentinel"
)

// ServiceSuite covers store, hasher and provisioner failures that the
// in-memory wiring cannot produce.
type ServiceSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockAccounts     *mocks.MockAccountStore
	mockProfiles     *mocks.MockProfileStore
	mockProvisioner  *mocks.MockProfileProvisioner
	mockHasher       *mocks.MockPasswordHasher
	mockAudit        *mocks.MockAuditPublisher
	cacheStore       *cache.MemoryStore
	resolver         *Resolver
	directory        *Directory
	provisioner      *Provisioner
	fixedEmployeeNow time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAccounts = mocks.NewMockAccountStore(s.ctrl)
	s.mockProfiles = mocks.NewMockProfileStore(s.ctrl)
	s.mockProvisioner = mocks.NewMockProfileProvisioner(s.ctrl)
	s.mockHasher = mocks.NewMockPasswordHasher(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.cacheStore = cache.NewMemoryStore()

	accessor := cache.New(s.cacheStore)
	opts := []Option{
		WithAuditPublisher(s.mockAudit),
		WithEmployeeCodeGenerator(func(now time.Time) (string, error) {
			s.fixedEmployeeNow = now
			return "EMP-TEST", nil
		}),
	}
	s.resolver = NewResolver(s.mockAccounts, s.mockProvisioner, s.mockHasher, accessor, opts...)
	s.directory = NewDirectory(s.mockAccounts, s.mockProvisioner, s.mockHasher, accessor, opts...)
	s.provisioner = NewProvisioner(s.mockProfiles, accessor, opts...)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestResolveByPassword_Failures() {
	ctx := context.Background()
	account := &models.Account{ID: id.NewAccountID(), Email: "jane@example.com", PasswordHash: "$2a$hash"}

	s.Run("store outage is internal, not an auth failure", func() {
		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), "jane@example.com").Return(nil, errors.New("connection reset"))

		_, err := s.resolver.ResolveByPassword(ctx, models.LoginRequest{Email: "jane@example.com", Password: "secret123"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Contains(err.Error(), "connection reset")
	})

	s.Run("unusable stored hash is internal", func() {
		s.Require().NoError(s.cacheStore.Delete(ctx, cache.UserKey(account.Email)))
		s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
		s.mockHasher.EXPECT().Verify("secret123", account.PasswordHash).Return(errors.New("hash too short"))

		_, err := s.resolver.ResolveByPassword(ctx, models.LoginRequest{Email: account.Email, Password: "secret123"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("cached account skips the store", func() {
		s.mockHasher.EXPECT().Verify("wrong", account.PasswordHash).Return(password.ErrMismatch)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.resolver.ResolveByPassword(ctx, models.LoginRequest{Email: account.Email, Password: "wrong"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("provisioning failure fails the sign-in", func() {
		s.mockHasher.EXPECT().Verify("secret123", account.PasswordHash).Return(nil)
		s.mockProvisioner.EXPECT().EnsureProfile(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "profile store down"))

		_, err := s.resolver.ResolveByPassword(ctx, models.LoginRequest{Email: account.Email, Password: "secret123"})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestResolveByOAuth_CreateRace() {
	ctx := context.Background()
	s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), "jane@example.com").Return(nil, sentinel.ErrNotFound)
	s.mockAccounts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := s.resolver.ResolveByOAuth(ctx, models.OAuthIdentity{Email: "jane@example.com", Subject: "g-1"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestResolveByOAuth_BoundAccountIsNotUpdated() {
	ctx := context.Background()
	account := &models.Account{ID: id.NewAccountID(), Email: "jane@example.com", OAuthSubject: "g-1"}
	profile := &models.Profile{ID: id.NewProfileID(), OwnerID: account.ID}

	s.mockAccounts.EXPECT().FindByEmail(gomock.Any(), account.Email).Return(account, nil)
	s.mockAccounts.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.mockProvisioner.EXPECT().EnsureProfile(gomock.Any(), account).Return(profile, nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.resolver.ResolveByOAuth(ctx, models.OAuthIdentity{Email: account.Email, Subject: "g-1", Name: "Other"})
	s.Require().NoError(err)
	s.Equal(profile, res.Profile)
}

func (s *ServiceSuite) TestResolveByPhone_AuditFailureIsSwallowed() {
	ctx := context.Background()
	account := &models.Account{ID: id.NewAccountID(), Phone: "+15550100"}
	profile := &models.Profile{ID: id.NewProfileID(), OwnerID: account.ID}

	s.mockAccounts.EXPECT().FindByPhone(gomock.Any(), "+15550100").Return(account, nil)
	s.mockProvisioner.EXPECT().EnsureProfile(gomock.Any(), account).Return(profile, nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	res, err := s.resolver.ResolveByPhone(ctx, models.PhoneIdentity{Phone: " +15550100 ", Subject: "otp-1"})
	s.Require().NoError(err)
	s.Equal(account.ID, res.Account.ID)
}

func (s *ServiceSuite) TestEnsureProfile_Failures() {
	ctx := context.Background()
	account := &models.Account{ID: id.NewAccountID(), Email: "jane@example.com", Name: "Jane"}

	s.Run("nil account is a bad request", func() {
		_, err := s.provisioner.EnsureProfile(ctx, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("lookup failure does not create", func() {
		s.mockProfiles.EXPECT().FindByOwner(gomock.Any(), account.ID).Return(nil, errors.New("timeout"))
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.provisioner.EnsureProfile(ctx, account)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("create failure is internal and nothing is cached", func() {
		s.mockProfiles.EXPECT().FindByOwner(gomock.Any(), account.ID).Return(nil, sentinel.ErrNotFound)
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := s.provisioner.EnsureProfile(ctx, account)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Equal(0, s.cacheStore.Len())
	})

	s.Run("created profile copies account fields", func() {
		s.mockProfiles.EXPECT().FindByOwner(gomock.Any(), account.ID).Return(nil, sentinel.ErrNotFound)
		var created *models.Profile
		s.mockProfiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *models.Profile) error {
				created = p
				return nil
			})
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		profile, err := s.provisioner.EnsureProfile(ctx, account)
		s.Require().NoError(err)
		s.Same(created, profile)
		s.Equal("EMP-TEST", profile.EmployeeCode)
		s.Equal("Jane", profile.FullName)
		s.Equal(account.Email, profile.Email)
		s.Equal(account.ID, profile.OwnerID)
		s.False(s.fixedEmployeeNow.IsZero())
	})
}

func (s *ServiceSuite) TestChangePassword_UnknownAccount() {
	accountID := id.NewAccountID()
	s.mockAccounts.EXPECT().FindByID(gomock.Any(), accountID).Return(nil, sentinel.ErrNotFound)

	err := s.directory.ChangePassword(context.Background(), accountID, models.ChangePasswordRequest{Next: "battery-staple"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListEmployees_StripsCredentials() {
	s.mockAccounts.EXPECT().List(gomock.Any()).Return([]*models.Account{
		{ID: id.NewAccountID(), Email: "a@example.com", PasswordHash: "secret"},
		{ID: id.NewAccountID(), Email: "b@example.com", OAuthSubject: "g-2"},
	}, nil)

	views, err := s.directory.ListEmployees(context.Background())
	s.Require().NoError(err)
	s.Len(views, 2)
	s.Equal("a@example.com", views[0].Email)
}
