package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memberhub/internal/config"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(domain.Role)
		return c.SendString(string(role))
	})
	app.Get("/items/:id", handlers...)
	return app
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "secret"}}
	app := testApp(AuthMiddleware(cfg), AdminOnly())

	adminToken, err := jwt.GenerateAccessToken("507f1f77bcf86cd799439011", "a@example.com", "Admin", "secret", 5)
	require.NoError(t, err)
	memberToken, err := jwt.GenerateAccessToken("507f1f77bcf86cd799439012", "m@example.com", "Member", "secret", 5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"missing token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer admin", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) }, http.StatusOK},
		{"cookie admin", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken}) }, http.StatusOK},
		{"member forbidden", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+memberToken) }, http.StatusForbidden},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc.def.ghi") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items/507f1f77bcf86cd799439011", nil)
			tt.setup(req)
			assert.Equal(t, tt.status, status(t, app, req))
		})
	}
}

func TestValidateObjectID(t *testing.T) {
	app := testApp(ValidateObjectID("id"))

	assert.Equal(t, http.StatusOK, status(t, app, httptest.NewRequest(http.MethodGet, "/items/507f1f77bcf86cd799439011", nil)))
	assert.Equal(t, http.StatusBadRequest, status(t, app, httptest.NewRequest(http.MethodGet, "/items/123", nil)))
}

func TestCacheHeaders(t *testing.T) {
	app := testApp(NoCacheHeaders())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/x", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get("Cache-Control"))

	app = testApp(PublicCache(time.Hour))
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items/x", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
}

func TestNormalizeMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", normalizeMIME("image/jpg"))
	assert.Equal(t, "image/jpeg", normalizeMIME("Image/PJPEG"))
	assert.Equal(t, "image/png", normalizeMIME("image/png; charset=binary"))
}
