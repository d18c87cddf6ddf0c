package service

import (
	"context"
	"errors"
	"log/slog"

	"peoplehub/internal/cache"
	"peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/sentinel"
	"peoplehub/pkg/requestcontext"
)

type Store interface {
	Get(ctx context.Context) (*models.Settings, error)
	Put(ctx context.Context, settings *models.Settings) error
}

// Service reads and writes the company settings record.
type Service struct {
	store  Store
	cache  *cache.Accessor
	logger *slog.Logger
}

func New(store Store, accessor *cache.Accessor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, cache: accessor, logger: logger}
}

// Get returns the saved settings, or the defaults when none were saved.
func (s *Service) Get(ctx context.Context) (*models.Settings, error) {
	return cache.Read(ctx, s.cache, cache.SettingsKey, cache.TTLGeneral, s.load)
}

func (s *Service) Update(ctx context.Context, actor id.AccountID, req models.UpdateSettingsRequest) (*models.Settings, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := req.Apply(current, actor, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, next); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings")
	}

	s.cache.InvalidateEntity(ctx, cache.SettingsRef())
	s.logger.InfoContext(ctx, "settings updated",
		"actor_id", actor.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return next, nil
}

func (s *Service) load(ctx context.Context) (*models.Settings, error) {
	current, err := s.store.Get(ctx)
	switch {
	case err == nil:
		return current, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return models.Defaults(), nil
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
}
