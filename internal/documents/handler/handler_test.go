package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/cache"
	dashboardModels "peoplehub/internal/dashboard/models"
	"peoplehub/internal/documents/models"
	"peoplehub/internal/documents/service"
	"peoplehub/internal/documents/store"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/testutil"
)

type noActivity struct{}

func (noActivity) Record(context.Context, dashboardModels.ActivityKind, id.AccountID, string) {}

type listing struct {
	Documents []models.Document `json:"documents"`
}

func TestDocumentsHandler(t *testing.T) {
	employee := id.NewAccountID()
	admin := id.NewAccountID()
	logger := slog.New(slog.DiscardHandler)

	svc := service.New(store.New(), noActivity{}, cache.New(cache.NewMemoryStore()), logger)
	router := chi.NewRouter()
	New(svc, testutil.NewGuard(testutil.StaticRoles{employee: "employee", admin: "admin"}), logger).Register(router)

	post := func(caller id.AccountID, body map[string]any) int {
		return testutil.DoRequest(router, testutil.Bearer(testutil.NewJSONRequest(t, http.MethodPost, "/documents", body), caller)).Code
	}

	assert.Equal(t, http.StatusForbidden, post(employee, map[string]any{"category": "company", "title": "Handbook"}))
	assert.Equal(t, http.StatusCreated, post(admin, map[string]any{"category": "company", "title": "Handbook"}))
	assert.Equal(t, http.StatusCreated, post(admin, map[string]any{"category": "payslip", "title": "March", "owner_id": employee.String()}))
	assert.Equal(t, http.StatusCreated, post(employee, map[string]any{"category": "certificate", "title": "First aid"}))
	assert.Equal(t, http.StatusBadRequest, post(employee, map[string]any{"category": "certificate"}))

	rec := testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents/company"), employee))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.UnmarshalResponse[listing](t, rec).Documents, 1)

	rec = testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents/payslip"), employee))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.UnmarshalResponse[listing](t, rec).Documents, 1)

	rec = testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents/payslip"), admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, testutil.UnmarshalResponse[listing](t, rec).Documents)

	rec = testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents/memes"), employee))
	testutil.AssertError(t, rec, http.StatusNotFound, "not_found")

	rec = testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents"), employee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = testutil.DoRequest(router, testutil.Bearer(testutil.NewRequest(t, http.MethodGet, "/documents"), admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.UnmarshalResponse[listing](t, rec).Documents, 3)
}
