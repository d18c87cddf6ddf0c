package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/cache"
	identitymodels "peoplehub/internal/identity/models"
	"peoplehub/internal/platform/config"
	"peoplehub/pkg/platform/audit/publisher"
	auditmemory "peoplehub/pkg/platform/audit/store/memory"
	"peoplehub/pkg/testutil"
)

func newTestApp(t *testing.T) app {
	t.Helper()
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.BcryptCost = 4
	cfg.Bootstrap = config.BootstrapConfig{AdminEmail: "admin@example.test", AdminPassword: "admin-password"}

	logger := slog.New(slog.DiscardHandler)
	a := newApp(cfg, logger, prometheus.NewRegistry(), nil, newStores(nil), cache.NewMemoryStore(),
		publisher.NewPublisher(auditmemory.NewInMemoryStore()))
	require.NoError(t, bootstrapAdmin(context.Background(), a.directory, cfg.Bootstrap, logger))
	// A second run must be a no-op.
	require.NoError(t, bootstrapAdmin(context.Background(), a.directory, cfg.Bootstrap, logger))
	return a
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login",
		identitymodels.LoginRequest{Email: email, Password: password}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return testutil.UnmarshalResponse[identitymodels.AuthResponse](t, rec).Token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestServerWiring(t *testing.T) {
	testutil.Given(t, "a server on in-memory stores with a bootstrapped admin", func(t *testing.T) {
		h := newTestApp(t).handler
		adminToken := login(t, h, "admin@example.test", "admin-password")

		testutil.When(t, "the admin creates an employee who checks in", func(t *testing.T) {
			rec := testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/admin/accounts",
				map[string]string{"email": "jane@example.test", "name": "Jane", "password": "jane-password"}), adminToken))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			janeToken := login(t, h, "jane@example.test", "jane-password")
			rec = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/attendance",
				map[string]bool{"remote": true}), janeToken))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			testutil.Then(t, "the dashboard reflects the new headcount and check-in", func(t *testing.T) {
				rec := testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/dashboard/stats"), adminToken))
				require.Equal(t, http.StatusOK, rec.Code)
				testutil.AssertJSONContains(t, rec, "employees", float64(2))

				rec = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/dashboard/stats"), janeToken))
				testutil.AssertJSONContains(t, rec, "present_today", float64(1))

				rec = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/dashboard/activities"), janeToken))
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Body.String(), "attendance.check_in")
			})

			testutil.Then(t, "the employee cannot change company settings", func(t *testing.T) {
				rec := testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPut, "/settings",
					map[string]string{"company_name": "Nope"}), janeToken))
				assert.Equal(t, http.StatusForbidden, rec.Code)
			})
		})

		testutil.When(t, "probing the ops endpoints", func(t *testing.T) {
			rec := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/healthz"))
			assert.Equal(t, http.StatusOK, rec.Code)

			rec = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/metrics"))
			require.Equal(t, http.StatusOK, rec.Code)
			testutil.Then(t, "identity metrics are exported", func(t *testing.T) {
				assert.Contains(t, rec.Body.String(), "peoplehub_identity_resolutions_total")
			})
		})
	})
}
