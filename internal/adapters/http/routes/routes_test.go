package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"memberhub/internal/adapters/http/middleware"
	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/storage"
	"memberhub/internal/config"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/metrics"
	"memberhub/internal/pkg/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testdb.New(t)
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie:    config.CookieConfig{SameSite: "lax"},
		Storage:   config.StorageConfig{Driver: "local", LocalPath: t.TempDir(), LocalURL: "/uploads"},
		Upload:    config.UploadConfig{MaxFileBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{Max: 1000, AuthMax: 1000, Expiration: time.Minute},
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage.LocalPath, cfg.Storage.LocalURL)
	require.NoError(t, err)

	m := metrics.NewRegistry()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg, m)
	Setup(app, db, cfg, fileStore, m)

	return &testServer{t: t, app: app, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (int, envelope) {
	s.t.Helper()

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) decode(env envelope, dest interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, dest))
}

// register signs up a Member and returns its user id and access token
func (s *testServer) register(email string) (string, string) {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     "Test Member",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)

	var auth struct {
		User        struct{ ID string } `json:"user"`
		AccessToken string              `json:"accessToken"`
	}
	s.decode(env, &auth)
	return auth.User.ID, auth.AccessToken
}

// admin inserts an Admin account and logs in
func (s *testServer) admin() string {
	s.t.Helper()

	user := &models.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "adminpass",
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	require.NoError(s.t, s.db.WithContext(context.Background()).Create(user).Error)

	status, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass",
	})
	require.Equal(s.t, http.StatusOK, status, env.Message)

	var auth struct {
		AccessToken string `json:"accessToken"`
	}
	s.decode(env, &auth)
	return auth.AccessToken
}

func (s *testServer) create(path, token string, body interface{}) string {
	s.t.Helper()

	status, env := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, status, env.Message)

	var out struct {
		ID string `json:"id"`
	}
	s.decode(env, &out)
	require.NotEmpty(s.t, out.ID)
	return out.ID
}

func receiptRequest(t *testing.T, path, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="receipt"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.register("jane@example.com")

	status, env := s.do(http.MethodGet, "/api/v1/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile struct {
		Email          string `json:"email"`
		Role           string `json:"role"`
		ActiveSessions int64  `json:"activeSessions"`
	}
	s.decode(env, &profile)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Member", profile.Role)
	assert.Equal(t, int64(1), profile.ActiveSessions)

	status, _ = s.do(http.MethodGet, "/api/v1/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/api/v1/auth/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "J", "email": "not-an-email", "password": "1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	_, member := s.register("jane@example.com")
	admin := s.admin()

	status, _ := s.do(http.MethodGet, "/api/v1/users", member, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodPost, "/api/v1/zones", member, map[string]string{"name": "North"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/v1/members/me", admin, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := s.do(http.MethodGet, "/api/v1/members/not-an-id", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid id format", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/members/507f1f77bcf86cd799439011", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Member not found", env.Message)
}

func TestListPaginationBounds(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin()

	status, env := s.do(http.MethodGet, "/api/v1/members?limit=500", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "limit must be between 1 and 100", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/zones?page=0", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "page must be at least 1", env.Message)

	status, _ = s.do(http.MethodGet, "/api/v1/events?page=1&limit=100", admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMembershipFlow(t *testing.T) {
	s := newTestServer(t)
	userID, member := s.register("jane@example.com")
	admin := s.admin()

	zoneID := s.create("/api/v1/zones", admin, map[string]string{"name": "North"})
	memberID := s.create("/api/v1/members", admin, map[string]string{
		"userId": userID,
		"phone":  "0812345678",
		"zoneId": zoneID,
	})

	status, env := s.do(http.MethodPost, "/api/v1/members", admin, map[string]string{
		"userId": userID,
		"phone":  "0812345678",
		"zoneId": zoneID,
	})
	assert.Equal(t, http.StatusConflict, status, env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/members/me", member, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var me struct {
		ID       string `json:"id"`
		MemberID string `json:"memberId"`
	}
	s.decode(env, &me)
	assert.Equal(t, memberID, me.ID)
	assert.True(t, strings.HasPrefix(me.MemberID, "MEM"))

	status, env = s.do(http.MethodPost, "/api/v1/members/"+memberID+"/renew", admin, map[string]interface{}{
		"renewalPeriod": 6,
		"paymentAmount": 600,
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/members/me/payments", member, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var payments []struct {
		PaymentType string  `json:"paymentType"`
		Amount      float64 `json:"amount"`
	}
	s.decode(env, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, "Membership Fee", payments[0].PaymentType)
	assert.Equal(t, 600.0, payments[0].Amount)

	status, env = s.do(http.MethodDelete, "/api/v1/zones/"+zoneID, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Cannot delete zone with active members", env.Message)

	status, env = s.do(http.MethodGet, "/api/v1/members?page=1&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, float64(1), meta["totalMembers"])
}

func TestUploadReceipt(t *testing.T) {
	s := newTestServer(t)
	userID, _ := s.register("jane@example.com")
	admin := s.admin()

	zoneID := s.create("/api/v1/zones", admin, map[string]string{"name": "North"})
	memberID := s.create("/api/v1/members", admin, map[string]string{
		"userId": userID,
		"phone":  "0812345678",
		"zoneId": zoneID,
	})
	paymentID := s.create("/api/v1/payments", admin, map[string]interface{}{
		"memberId":      memberID,
		"amount":        50,
		"paymentType":   "Other",
		"paymentMethod": "Cash",
	})
	path := "/api/v1/payments/" + paymentID + "/receipt"

	t.Run("png accepted", func(t *testing.T) {
		status, env := s.send(receiptRequest(t, path, "receipt.png", "image/png", pngBytes), admin)
		require.Equal(t, http.StatusOK, status, env.Message)

		var payment struct {
			ReceiptFile string `json:"receiptFile"`
		}
		s.decode(env, &payment)
		assert.True(t, strings.HasPrefix(payment.ReceiptFile, "/uploads/receipts/"))
	})

	t.Run("disguised text rejected", func(t *testing.T) {
		status, env := s.send(receiptRequest(t, path, "receipt.png", "image/png", []byte("hello world")), admin)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "File content does not match its type", env.Message)
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		status, _ := s.send(receiptRequest(t, path, "receipt.gif", "image/png", pngBytes), admin)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("pdf rejected", func(t *testing.T) {
		status, _ := s.send(receiptRequest(t, path, "receipt.pdf", "application/pdf", []byte("%PDF-1.4")), admin)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown payment", func(t *testing.T) {
		status, _ := s.send(receiptRequest(t, "/api/v1/payments/507f1f77bcf86cd799439011/receipt", "receipt.png", "image/png", pngBytes), admin)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "memberhub_http_requests_total")
}
