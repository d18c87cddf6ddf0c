package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"peoplehub/internal/cache"
	"peoplehub/internal/dashboard/models"
	settingsModels "peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/requestcontext"
)

const (
	feedLimit   = 50
	eventsLimit = 20
)

type ActivityStore interface {
	Append(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, kinds []models.ActivityKind, limit int) ([]models.Activity, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
}

// Counter counts rows of one entity.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// AttendanceCounter counts one work date's check-ins.
type AttendanceCounter interface {
	CountForDate(ctx context.Context, workDate string) (present, late int, err error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*settingsModels.Settings, error)
}

// Counters are the sources of the headcount summary.
type Counters struct {
	Accounts   Counter
	Profiles   Counter
	Attendance AttendanceCounter
}

type Service struct {
	activities ActivityStore
	events     EventStore
	counters   Counters
	settings   SettingsReader
	cache      *cache.Accessor
	logger     *slog.Logger
}

func New(activities ActivityStore, events EventStore, counters Counters, settings SettingsReader, accessor *cache.Accessor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		activities: activities,
		events:     events,
		counters:   counters,
		settings:   settings,
		cache:      accessor,
		logger:     logger,
	}
}

// Stats gathers the headcount figures concurrently.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	return cache.Read(ctx, s.cache, cache.DashboardStatsKey, cache.TTLGeneral, s.loadStats)
}

func (s *Service) loadStats(ctx context.Context) (*models.Stats, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	stats := &models.Stats{WorkDate: settings.WorkDate(now), GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.counters.Accounts.Count(gctx)
		stats.Employees = n
		return err
	})
	g.Go(func() error {
		n, err := s.counters.Profiles.Count(gctx)
		stats.Profiles = n
		return err
	})
	g.Go(func() error {
		present, late, err := s.counters.Attendance.CountForDate(gctx, stats.WorkDate)
		stats.PresentToday = present
		stats.LateToday = late
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to gather dashboard stats")
	}
	return stats, nil
}

// Activities returns the recent feed. Only the unfiltered feed is cached.
func (s *Service) Activities(ctx context.Context, kinds []models.ActivityKind) ([]models.Activity, error) {
	if len(kinds) > 0 {
		return s.listActivities(ctx, kinds)
	}
	return cache.Read(ctx, s.cache, cache.DashboardActivitiesKey, cache.TTLGeneral,
		func(ctx context.Context) ([]models.Activity, error) {
			return s.listActivities(ctx, nil)
		})
}

func (s *Service) listActivities(ctx context.Context, kinds []models.ActivityKind) ([]models.Activity, error) {
	activities, err := s.activities.ListRecent(ctx, kinds, feedLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activities")
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// Record appends to the activity feed. It does not invalidate the cached
// feed; the caller's entity invalidation covers it. Failures are logged
// only.
func (s *Service) Record(ctx context.Context, kind models.ActivityKind, accountID id.AccountID, summary string) {
	err := s.activities.Append(ctx, &models.Activity{
		ID:        id.NewActivityID(),
		Kind:      kind,
		AccountID: accountID,
		Summary:   summary,
		CreatedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record activity",
			"kind", string(kind),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) Events(ctx context.Context) ([]models.Event, error) {
	return cache.Read(ctx, s.cache, cache.DashboardEventsKey, cache.TTLGeneral,
		func(ctx context.Context) ([]models.Event, error) {
			events, err := s.events.ListUpcoming(ctx, requestcontext.Now(ctx), eventsLimit)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load events")
			}
			if events == nil {
				events = []models.Event{}
			}
			return events, nil
		})
}

func (s *Service) CreateEvent(ctx context.Context, author id.AccountID, req models.CreateEventRequest) (*models.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	event := &models.Event{
		ID:          id.NewEventID(),
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		CreatedBy:   author,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event")
	}
	s.cache.InvalidateEntity(ctx, cache.DashboardEventRef())
	return event, nil
}
