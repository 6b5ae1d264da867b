package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketing-crm/constants"
	"marketing-crm/logger"
	"marketing-crm/metrics"
	log_model "marketing-crm/models/log"
	"marketing-crm/services/auth"
	"marketing-crm/testutil"

	"github.com/gofiber/fiber/v2"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerPersistsSanitizedEntry(t *testing.T) {
	db := testutil.NewDB(t)
	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()

	tokens := auth.NewTokenIssuer("secret")
	app := fiber.New()
	app.Use(RequestLogger(asyncLogger))
	app.Post("/login-like", RequireAuthentication(tokens), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"token": "issued-token", "ok": true})
	})

	token := issue(t, tokens, constants.RoleSystemAdmin)
	req := httptest.NewRequest(http.MethodPost, "/login-like", strings.NewReader(`{"email":"a@b.com","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	asyncLogger.Close()

	var entries []log_model.Log
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "/login-like", entry.URL)
	assert.Equal(t, http.StatusOK, entry.StatusCode)
	assert.NotContains(t, entry.RequestBody, "hunter2")
	assert.NotContains(t, entry.ResponseBody, "issued-token")
	assert.NotContains(t, entry.RequestHeaders, token)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, uint(1), *entry.UserID)
}

func TestPrometheusLabelsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Prometheus())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "204")
	before := promtest.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, before+3, promtest.ToFloat64(counter))
}
