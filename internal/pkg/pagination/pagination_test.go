package pagination

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"memberhub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGetMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"middle page", 2, 10, 25, 3, true, true},
		{"last page", 3, 10, 25, 3, false, true},
		{"first page", 1, 10, 25, 3, true, false},
		{"exact multiple", 2, 10, 20, 2, false, true},
		{"empty", 1, 10, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &Params{Page: tt.page, Limit: tt.limit}
			meta := GetMeta(params, tt.total, "Members")

			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.wantNext, meta.HasNext)
			assert.Equal(t, tt.wantPrev, meta.HasPrev)
			assert.Equal(t, tt.total, meta.TotalCount)
		})
	}
}

func TestMeta_MarshalJSON(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 25, "Members")

	raw, err := json.Marshal(meta)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(2), out["currentPage"])
	assert.Equal(t, float64(3), out["totalPages"])
	assert.Equal(t, float64(25), out["totalMembers"])
	assert.Equal(t, float64(25), out["totalCount"])
	assert.Equal(t, true, out["hasNext"])
	assert.Equal(t, true, out["hasPrev"])
}

func TestParams_Normalize(t *testing.T) {
	p := &Params{Page: 3, Limit: 10, SortOrder: "ASC"}
	p.Normalize()
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, 20, p.Offset())

	p = &Params{Page: 1, Limit: 10, SortOrder: "sideways"}
	p.Normalize()
	assert.Equal(t, "desc", p.SortOrder)
}

func TestGetParams(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		params, err := GetParams(c)
		if err != nil {
			var appErr *domain.AppError
			if !errors.As(err, &appErr) || appErr.Kind != domain.KindValidation {
				return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
			}
			return c.Status(fiber.StatusBadRequest).SendString(appErr.Message)
		}
		return c.JSON(params)
	})

	tests := []struct {
		name    string
		query   string
		status  int
		message string
		want    Params
	}{
		{"defaults", "", fiber.StatusOK, "", Params{Page: 1, Limit: DefaultLimit, SortOrder: "desc"}},
		{"explicit", "?page=2&limit=100&sortBy=name&sortOrder=ASC", fiber.StatusOK, "", Params{Page: 2, Limit: 100, SortBy: "name", SortOrder: "asc"}},
		{"limit zero", "?limit=0", fiber.StatusBadRequest, "limit must be between 1 and 100", Params{}},
		{"limit too large", "?limit=500", fiber.StatusBadRequest, "limit must be between 1 and 100", Params{}},
		{"negative page", "?page=-3", fiber.StatusBadRequest, "page must be at least 1", Params{}},
		{"page not a number", "?page=two", fiber.StatusBadRequest, "page must be a number", Params{}},
		{"limit not a number", "?limit=ten", fiber.StatusBadRequest, "limit must be a number", Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			require.Equal(t, tt.status, resp.StatusCode, string(body))
			if tt.status != fiber.StatusOK {
				assert.Equal(t, tt.message, string(body))
				return
			}
			var got Params
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_OrderClause(t *testing.T) {
	allowed := map[string]string{"name": "name", "renewalDate": "renewal_date"}

	p := &Params{SortBy: "renewalDate", SortOrder: "asc"}
	assert.Equal(t, "renewal_date ASC", p.OrderClause(allowed, "created_at"))

	p = &Params{SortBy: "password; DROP TABLE users", SortOrder: "desc"}
	assert.Equal(t, "created_at DESC", p.OrderClause(allowed, "created_at"))
}

func TestGetMeta_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, MaxLimit).Draw(t, "limit")
		total := rapid.Int64Range(0, 5000).Draw(t, "total")
		page := rapid.IntRange(1, 600).Draw(t, "page")

		meta := GetMeta(&Params{Page: page, Limit: limit}, total, "")

		if int64(meta.TotalPages)*int64(limit) < total {
			t.Fatalf("pages %d * limit %d do not cover total %d", meta.TotalPages, limit, total)
		}
		if meta.TotalPages > 0 && int64(meta.TotalPages-1)*int64(limit) >= total {
			t.Fatalf("one page too many: %d pages for %d items at %d", meta.TotalPages, total, limit)
		}
		if meta.HasNext != (page < meta.TotalPages) {
			t.Fatalf("hasNext mismatch on page %d of %d", page, meta.TotalPages)
		}
		if meta.HasPrev != (page > 1) {
			t.Fatalf("hasPrev mismatch on page %d", page)
		}
	})
}
