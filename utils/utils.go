package utils

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxLoggedBody    = 4000
)

var redactedFields = map[string]bool{
	"password":     true,
	"otp":          true,
	"otp_code":     true,
	"token":        true,
	"access_token": true,
}

// Period is a half-open time range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// CurrentWeek returns the Monday-based week containing t.
func CurrentWeek(t time.Time) Period {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: t.Location()}
	start := cfg.With(t).BeginningOfWeek()
	return Period{Start: start, End: start.AddDate(0, 0, 7)}
}

// CurrentMonth returns the calendar month containing t.
func CurrentMonth(t time.Time) Period {
	start := now.With(t).BeginningOfMonth()
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParsePagination reads page and limit query params with sane bounds.
func ParsePagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// ParseID reads a positive numeric route param.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewError(types.KindInvalidFormat, "Invalid "+name)
	}
	return uint(id), nil
}

// ClientIP prefers the first X-Forwarded-For hop set by the proxy.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return c.IP()
}

// RedactJSON masks credential fields in a JSON object body.
func RedactJSON(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(string(body))
	}
	redact(payload)
	out, err := json.Marshal(payload)
	if err != nil {
		return "[UNSERIALIZABLE_BODY]"
	}
	return truncate(string(out))
}

func redact(m map[string]interface{}) {
	for k, v := range m {
		if redactedFields[strings.ToLower(k)] {
			m[k] = "[REDACTED]"
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			redact(nested)
		}
	}
}

func truncate(s string) string {
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "...[TRUNCATED]"
	}
	return s
}

// sanitizeRequestBody drops multipart payloads and redacts JSON credentials.
func sanitizeRequestBody(c *fiber.Ctx) string {
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return "[MULTIPART_FORM_DATA]"
	}
	body := c.Body()
	if len(body) == 0 {
		return ""
	}
	return RedactJSON(body)
}

// CreateSanitizedLogEntry copies the request/response out of the fiber
// context, which is reused after the handler returns.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          string([]byte(c.Method())),
		URL:             string([]byte(c.OriginalURL())),
		RequestBody:     sanitizeRequestBody(c),
		ResponseBody:    RedactJSON(c.Response().Body()),
		RequestHeaders:  redactCredentials(string(requestHeaders)),
		ResponseHeaders: redactCredentials(string(responseHeaders)),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

var credentialHeaders = []string{"authorization:", "cookie:", "set-cookie:"}

// redactCredentials masks header lines that carry session tokens.
func redactCredentials(headers string) string {
	lines := strings.Split(headers, "\r\n")
	for i, line := range lines {
		if hasCredentialPrefix(strings.ToLower(line)) {
			name := line[:strings.Index(line, ":")]
			lines[i] = name + ": [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}

func hasCredentialPrefix(line string) bool {
	for _, prefix := range credentialHeaders {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// NullableString trims s and returns nil when nothing is left.
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// NullableEmail is NullableString for email addresses, lower-cased.
func NullableEmail(s string) *string {
	return NullableString(strings.ToLower(s))
}
