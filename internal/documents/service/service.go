package service

import (
	"context"
	"log/slog"

	"peoplehub/internal/cache"
	dashboardModels "peoplehub/internal/dashboard/models"
	"peoplehub/internal/documents/models"
	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
	"peoplehub/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	ListByOwnerCategory(ctx context.Context, owner id.AccountID, category models.Category) ([]models.Document, error)
	ListByCategory(ctx context.Context, category models.Category) ([]models.Document, error)
	ListAll(ctx context.Context) ([]models.Document, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, kind dashboardModels.ActivityKind, accountID id.AccountID, summary string)
}

type Viewer struct {
	AccountID id.AccountID
	Staff     bool
}

// staffFiled lists the categories only staff may file.
var staffFiled = map[models.Category]bool{
	models.CategoryCompany:  true,
	models.CategoryContract: true,
	models.CategoryPayslip:  true,
}

type Service struct {
	store    Store
	activity ActivityRecorder
	cache    *cache.Accessor
	logger   *slog.Logger
}

func New(store Store, activity ActivityRecorder, accessor *cache.Accessor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, activity: activity, cache: accessor, logger: logger}
}

// ListMine returns the caller's own documents in one category.
func (s *Service) ListMine(ctx context.Context, accountID id.AccountID, category models.Category) ([]models.Document, error) {
	if !category.IsValid() {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown document category")
	}
	return cache.Read(ctx, s.cache, cache.CategoryDocsKey(string(category), accountID), cache.TTLGeneral,
		func(ctx context.Context) ([]models.Document, error) {
			return wrapList(s.store.ListByOwnerCategory(ctx, accountID, category))
		})
}

// ListCompany returns documents published to everyone.
func (s *Service) ListCompany(ctx context.Context) ([]models.Document, error) {
	return cache.Read(ctx, s.cache, cache.CompanyDocsKey, cache.TTLGeneral,
		func(ctx context.Context) ([]models.Document, error) {
			return wrapList(s.store.ListByCategory(ctx, models.CategoryCompany))
		})
}

func (s *Service) ListAll(ctx context.Context) ([]models.Document, error) {
	return cache.Read(ctx, s.cache, cache.AllDocumentsKey, cache.TTLGeneral,
		func(ctx context.Context) ([]models.Document, error) {
			return wrapList(s.store.ListAll(ctx))
		})
}

func (s *Service) Create(ctx context.Context, viewer Viewer, req models.CreateDocumentRequest) (*models.Document, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	owner := viewer.AccountID
	if req.OwnerID != nil && *req.OwnerID != viewer.AccountID {
		if !viewer.Staff {
			return nil, dErrors.New(dErrors.CodeForbidden, "cannot file documents for another employee")
		}
		owner = *req.OwnerID
	}
	if staffFiled[req.Category] && !viewer.Staff {
		return nil, dErrors.New(dErrors.CodeForbidden, "only staff can file "+string(req.Category)+" documents")
	}

	doc := &models.Document{
		ID:        id.NewDocumentID(),
		OwnerID:   owner,
		Category:  req.Category,
		Title:     req.Title,
		URL:       req.URL,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save document")
	}

	s.activity.Record(ctx, dashboardModels.KindDocumentAdded, owner, string(doc.Category)+": "+doc.Title)
	s.cache.InvalidateEntity(ctx, cache.DocumentRef(string(doc.Category), owner))
	return doc, nil
}

func wrapList(docs []models.Document, err error) ([]models.Document, error) {
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}
