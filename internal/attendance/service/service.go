package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"peoplehub/internal/attendance/models"
	"peoplehub/internal/cache"
	dashboardModels "peoplehub/internal/dashboard/models"
	settingsModels "peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/platform/sentinel"
	"peoplehub/pkg/requestcontext"
)

// listLimit bounds each cached attendance list, company-wide or per account.
const listLimit = 500

type Store interface {
	Create(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, recordID id.AttendanceID) (*models.Record, error)
	List(ctx context.Context, limit int) ([]models.Record, error)
	ListByAccount(ctx context.Context, accountID id.AccountID, limit int) ([]models.Record, error)
	Update(ctx context.Context, recordID id.AttendanceID, patch models.Patch, now time.Time) (*models.Record, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*settingsModels.Settings, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, kind dashboardModels.ActivityKind, accountID id.AccountID, summary string)
}

// Viewer is the caller on whose behalf a read or write happens.
type Viewer struct {
	AccountID id.AccountID
	Staff     bool
}

func (v Viewer) canAccess(owner id.AccountID) bool {
	return v.Staff || v.AccountID == owner
}

type Service struct {
	store    Store
	settings SettingsReader
	activity ActivityRecorder
	cache    *cache.Accessor
	logger   *slog.Logger
}

func New(store Store, settings SettingsReader, activity ActivityRecorder, accessor *cache.Accessor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:    store,
		settings: settings,
		activity: activity,
		cache:    accessor,
		logger:   logger,
	}
}

// List returns the company-wide list for staff and the viewer's own
// records otherwise. Both are cached and newest first.
func (s *Service) List(ctx context.Context, viewer Viewer) ([]models.Record, error) {
	if viewer.Staff {
		return cache.Read(ctx, s.cache, cache.AttendanceListKey, cache.TTLGeneral,
			func(ctx context.Context) ([]models.Record, error) {
				return nonNil(s.store.List(ctx, listLimit))
			})
	}
	return cache.Read(ctx, s.cache, cache.AttendanceListMineKey(viewer.AccountID), cache.TTLGeneral,
		func(ctx context.Context) ([]models.Record, error) {
			return nonNil(s.store.ListByAccount(ctx, viewer.AccountID, listLimit))
		})
}

func nonNil(records []models.Record, err error) ([]models.Record, error) {
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attendance")
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, viewer Viewer, recordID id.AttendanceID) (*models.Record, error) {
	record, err := cache.Read(ctx, s.cache, cache.AttendanceKey(recordID), cache.TTLGeneral,
		func(ctx context.Context) (*models.Record, error) {
			return s.find(ctx, recordID)
		})
	if err != nil {
		return nil, err
	}
	if !viewer.canAccess(record.AccountID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot read another employee's attendance")
	}
	return record, nil
}

// CheckIn opens today's record for accountID. Status is derived from the
// company workday start unless the caller works remotely.
func (s *Service) CheckIn(ctx context.Context, accountID id.AccountID, req models.CheckInRequest) (*models.Record, error) {
	req.Normalize()
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	status := models.StatusPresent
	switch {
	case req.Remote:
		status = models.StatusRemote
	case settings.IsLate(now):
		status = models.StatusLate
	}

	record := &models.Record{
		ID:        id.NewAttendanceID(),
		AccountID: accountID,
		WorkDate:  settings.WorkDate(now),
		CheckIn:   now,
		Status:    status,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "already checked in for "+record.WorkDate)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check in")
	}

	s.activity.Record(ctx, dashboardModels.KindCheckIn, accountID, fmt.Sprintf("checked in (%s)", status))
	s.cache.InvalidateEntity(ctx, cache.AttendanceRef(record.ID, record.AccountID))
	return record, nil
}

// Update checks a record out or edits it. Only staff may change a status.
func (s *Service) Update(ctx context.Context, viewer Viewer, recordID id.AttendanceID, req models.UpdateRequest) (*models.Record, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.find(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !viewer.canAccess(current.AccountID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot update another employee's attendance")
	}
	if req.Status != nil && !viewer.Staff {
		return nil, dErrors.New(dErrors.CodeForbidden, "only staff can change attendance status")
	}

	now := requestcontext.Now(ctx)
	patch := models.Patch{Status: req.Status, Note: req.Note}
	if req.CheckOut {
		if current.CheckOut != nil {
			return nil, dErrors.New(dErrors.CodeConflict, "already checked out")
		}
		patch.CheckOut = &now
	}

	updated, err := s.store.Update(ctx, recordID, patch, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update attendance")
	}

	if req.CheckOut {
		s.activity.Record(ctx, dashboardModels.KindCheckOut, updated.AccountID, "checked out")
	}
	if req.Status != nil {
		s.activity.Record(ctx, dashboardModels.KindStatusChanged, updated.AccountID, "status set to "+string(*req.Status))
	}
	s.cache.InvalidateEntity(ctx, cache.AttendanceRef(recordID, updated.AccountID))
	return updated, nil
}

func (s *Service) find(ctx context.Context, recordID id.AttendanceID) (*models.Record, error) {
	record, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attendance")
	}
	return record, nil
}
