package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketing-crm/constants"
	"marketing-crm/services/auth"
	"marketing-crm/testutil"
	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal := CurrentPrincipal(c)
		return c.JSON(fiber.Map{"email": principal.Email})
	})
	app.Get("/protected", handlers...)
	return app
}

func issue(t *testing.T, tokens *auth.TokenIssuer, role string, perms ...string) string {
	t.Helper()
	token, _, err := tokens.IssueToken(auth.Principal{
		UserID:      1,
		UUID:        "user-1",
		Email:       "user@example.com",
		Role:        role,
		Permissions: perms,
	})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, types.ApiResponse) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out types.ApiResponse
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func TestRequirePermissions(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret")
	app := newProtectedApp(RequirePermissions(tokens, constants.PermLeadsView, constants.PermLeadsManage))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantKind   types.ErrorKind
	}{
		{"missing token", "", http.StatusUnauthorized, types.KindUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized, types.KindUnauthorized},
		{"invalid token", "Bearer abc.def.ghi", http.StatusUnauthorized, types.KindUnauthorized},
		{"missing one permission", "Bearer " + issue(t, tokens, constants.RoleSalesExecutive, constants.PermLeadsView), http.StatusForbidden, types.KindForbidden},
		{"all permissions", "Bearer " + issue(t, tokens, constants.RoleSalesExecutive, constants.PermLeadsView, constants.PermLeadsManage), http.StatusOK, ""},
		{"system admin", "Bearer " + issue(t, tokens, constants.RoleSystemAdmin), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			status, body := doRequest(t, app, req)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body.Kind)
				assert.False(t, body.Success)
			}
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret")
	app := newProtectedApp(RequireAnyPermission(tokens, constants.PermUsersManage, constants.PermDashboardView))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, constants.RoleSubdealer, constants.PermDashboardView))
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, constants.RoleSubdealer))
	status, _ = doRequest(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequireAuthenticationAcceptsCookie(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret")
	app := newProtectedApp(RequireAuthentication(tokens))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access", Value: issue(t, tokens, constants.RoleSubdealer)})
	status, _ := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, status)
}

func TestExpiredSession(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	tokens := auth.NewTokenIssuer("secret").WithClock(clock.Now)
	app := newProtectedApp(RequireAuthentication(tokens))

	token := issue(t, tokens, constants.RoleSystemAdmin)
	clock.Advance(auth.TokenTTL + time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, types.KindExpired, body.Kind)
}
