package utils

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	wednesday := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	week := CurrentWeek(wednesday)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), week.Start)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), week.End)
}

func TestCurrentMonth(t *testing.T) {
	month := CurrentMonth(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), month.Start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), month.End)
}

func TestRedactJSON(t *testing.T) {
	out := RedactJSON([]byte(`{"phone":"9876543210","otp":"123456","nested":{"password":"p"}}`))

	assert.Contains(t, out, `"phone":"9876543210"`)
	assert.NotContains(t, out, "123456")
	assert.NotContains(t, out, `"password":"p"`)
	assert.Contains(t, out, "[REDACTED]")

	assert.Equal(t, "plain text", RedactJSON([]byte("plain text")))
	assert.True(t, strings.HasSuffix(RedactJSON([]byte(strings.Repeat("a", maxLoggedBody+10))), "[TRUNCATED]"))
}

func TestParsePaginationAndID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		page, limit, offset := ParsePagination(c)
		id, err := ParseID(c, "id")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"page": page, "limit": limit, "offset": offset, "id": id})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/7?page=3&limit=500", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"page":3,"limit":100,"offset":200,"id":7}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/items/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateSanitizedLogEntry(t *testing.T) {
	app := fiber.New()
	var captured string
	var headers string
	app.Post("/login", func(c *fiber.Ctx) error {
		entry := CreateSanitizedLogEntry(c)
		captured = entry.RequestBody
		headers = entry.RequestHeaders
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.com","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Contains(t, captured, "a@b.com")
	assert.NotContains(t, captured, "hunter2")
	assert.NotContains(t, headers, "abc.def.ghi")
}

func TestCreateSanitizedLogEntryRedactsSessionCookie(t *testing.T) {
	app := fiber.New()
	var entry types.LogEntry
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{Name: "access", Value: "eyJhbGciOiJIUzI1NiJ9.secret.sig", HTTPOnly: true})
		if err := c.Status(fiber.StatusOK).JSON(fiber.Map{"token": "eyJhbGciOiJIUzI1NiJ9.secret.sig"}); err != nil {
			return err
		}
		entry = CreateSanitizedLogEntry(c)
		return nil
	})

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set("Cookie", "access=old.session.token")
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Contains(t, entry.ResponseHeaders, "Set-Cookie: [REDACTED]")
	assert.NotContains(t, entry.ResponseHeaders, "secret.sig")
	assert.NotContains(t, entry.ResponseBody, "secret.sig")
	assert.NotContains(t, entry.RequestHeaders, "old.session.token")
}
