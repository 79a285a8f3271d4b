package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mautops/testimonial-gin/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchFormKey(t *testing.T, router http.Handler) string {
	w, env := doJSON(router, http.MethodGet, "/testimonials/form", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var form struct {
		FormKey string `json:"form_key"`
		Ratings []struct {
			Value int    `json:"value"`
			Label string `json:"label"`
		} `json:"rating_options"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &form))
	require.NotEmpty(t, form.FormKey)
	require.Len(t, form.Ratings, 5)
	assert.Equal(t, "1 Star", form.Ratings[0].Label)
	return form.FormKey
}

// TestStorefront_SubmitRequiresFormKey 测试提交需要表单密钥
func TestStorefront_SubmitRequiresFormKey(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := map[string]interface{}{
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"message":        "Great product, highly recommend!",
		"rating":         5,
	}

	w, _ := doJSON(router, http.MethodPost, "/testimonials", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(router, http.MethodPost, "/testimonials", body, "X-Form-Key", "forged")
	assert.Equal(t, http.StatusForbidden, w.Code)

	key := fetchFormKey(t, router)
	w, env := doJSON(router, http.MethodPost, "/testimonials", body, "X-Form-Key", key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, env.Code)
}

// TestStorefront_SubmittedTestimonialAwaitsReview 测试提交的评价审核前不展示
func TestStorefront_SubmittedTestimonialAwaitsReview(t *testing.T) {
	router, _ := setupTestRouter(t)
	key := fetchFormKey(t, router)

	w, env := doJSON(router, http.MethodPost, "/testimonials", map[string]interface{}{
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"message":        "Great product, highly recommend!",
		"rating":         4,
	}, "X-Form-Key", key)
	require.Equal(t, http.StatusOK, w.Code)
	var submitted struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))

	type listing struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			ID          uint   `json:"id"`
			Rating      int    `json:"rating"`
			DisplayDate string `json:"display_date"`
			RatingHTML  string `json:"rating_html"`
			Stars       []struct {
				Filled bool `json:"filled"`
			} `json:"stars"`
		} `json:"items"`
	}

	_, env = doJSON(router, http.MethodGet, "/testimonials", nil)
	var list listing
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Zero(t, list.TotalCount)
	assert.Empty(t, list.Items)

	w, _ = doJSON(router, http.MethodPost, "/admin/testimonials/mass-status", map[string]interface{}{
		"selected": []uint{submitted.ID},
		"status":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	_, env = doJSON(router, http.MethodGet, "/testimonials", nil)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.TotalCount)
	item := list.Items[0]
	assert.Equal(t, submitted.ID, item.ID)
	assert.Equal(t, time.Now().Format("January 2, 2006"), item.DisplayDate)
	assert.Contains(t, item.RatingHTML, "width:80%")
	require.Len(t, item.Stars, 5)
	assert.True(t, item.Stars[3].Filled)
	assert.False(t, item.Stars[4].Filled)
}

// TestStorefront_SubmitValidation 测试前台提交的验证错误
func TestStorefront_SubmitValidation(t *testing.T) {
	router, _ := setupTestRouter(t)
	key := fetchFormKey(t, router)

	w, env := doJSON(router, http.MethodPost, "/testimonials", map[string]interface{}{
		"customer_name":  "Jane Doe",
		"customer_email": "jane@example.com",
		"message":        "Great product!",
		"rating":         0,
	}, "X-Form-Key", key)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5 stars.", env.Message)
}

// TestFormKeyStore 测试表单密钥有效期
func TestFormKeyStore(t *testing.T) {
	cfg := api.DefaultFormKeyConfig()
	cfg.TokenTTL = 20 * time.Millisecond
	store := api.NewFormKeyStore(cfg)
	defer store.Stop()

	token, err := store.GenerateToken()
	require.NoError(t, err)
	assert.True(t, store.ValidateToken(token))
	assert.True(t, store.ValidateToken(token))
	assert.False(t, store.ValidateToken(""))

	time.Sleep(40 * time.Millisecond)
	assert.False(t, store.ValidateToken(token))
}

// TestClientRateLimiter 测试按客户端限流
func TestClientRateLimiter(t *testing.T) {
	limiter := api.NewClientRateLimiter(0.001, 1)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

// TestHealthAndMetrics 测试运维端点
func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"healthy"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "api_requests_total"))
}

// TestCORSPreflight 测试预检请求
func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/testimonials", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

// TestSwaggerDoc 测试 Swagger 文档端点
func TestSwaggerDoc(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Testimonial Gin API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/admin/testimonials/mass-status")
}

// TestStorefront_FormKeyCookieAloneRejected 测试仅携带 Cookie 不能通过校验
func TestStorefront_FormKeyCookieAloneRejected(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/testimonials/form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	cookie := cookies[0]

	body := `{"customer_name":"Jane Doe","customer_email":"jane@example.com","message":"Great product, highly recommend!","rating":5}`
	submit := func(header string, withCookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodPost, "/testimonials", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set("X-Form-Key", header)
		}
		if withCookie != nil {
			req.AddCookie(withCookie)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, submit("", cookie))

	other := fetchFormKey(t, router)
	assert.Equal(t, http.StatusForbidden, submit(other, cookie))

	assert.Equal(t, http.StatusOK, submit(cookie.Value, cookie))
}
