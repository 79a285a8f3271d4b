package api

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// FormKeyConfig 表单密钥配置
type FormKeyConfig struct {
	TokenLength    int           // Token 长度
	TokenTTL       time.Duration // Token 有效期
	HeaderName     string        // Token 请求头名称
	FieldName      string        // 表单字段名称
	CookieName     string        // Cookie 名称
	CookieSecure   bool          // Cookie 是否仅 HTTPS
	CookieSameSite http.SameSite // Cookie SameSite 属性
}

// DefaultFormKeyConfig 默认表单密钥配置
func DefaultFormKeyConfig() *FormKeyConfig {
	return &FormKeyConfig{
		TokenLength:    32,
		TokenTTL:       time.Hour,
		HeaderName:     "X-Form-Key",
		FieldName:      "form_key",
		CookieName:     "form_key",
		CookieSecure:   false,
		CookieSameSite: http.SameSiteStrictMode,
	}
}

// FormKeyStore 表单密钥存储
type FormKeyStore struct {
	tokens map[string]time.Time
	mu     sync.RWMutex
	config *FormKeyConfig
	now    func() time.Time
	stop   chan struct{}
	once   sync.Once
}

// NewFormKeyStore 创建表单密钥存储, 后台定期清理过期密钥
func NewFormKeyStore(config *FormKeyConfig) *FormKeyStore {
	if config == nil {
		config = DefaultFormKeyConfig()
	}
	store := &FormKeyStore{
		tokens: make(map[string]time.Time),
		config: config,
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	go store.cleanupExpiredTokens(time.Hour)

	return store
}

// GenerateToken 生成表单密钥
func (s *FormKeyStore) GenerateToken() (string, error) {
	token, err := generateRandomToken(s.config.TokenLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[token] = s.now().Add(s.config.TokenTTL)
	s.mu.Unlock()

	return token, nil
}

// ValidateToken 验证表单密钥, 有效期内可重复使用
func (s *FormKeyStore) ValidateToken(token string) bool {
	if token == "" {
		return false
	}

	s.mu.RLock()
	expiresAt, exists := s.tokens[token]
	s.mu.RUnlock()

	if !exists {
		return false
	}

	if s.now().After(expiresAt) {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return false
	}

	return true
}

// Stop 停止清理协程
func (s *FormKeyStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *FormKeyStore) cleanupExpiredTokens(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for token, expiresAt := range s.tokens {
				if now.After(expiresAt) {
					delete(s.tokens, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

// IssueToken 生成密钥并写入 Cookie
func (s *FormKeyStore) IssueToken(c *gin.Context) (string, error) {
	token, err := s.GenerateToken()
	if err != nil {
		return "", err
	}

	c.SetSameSite(s.config.CookieSameSite)
	c.SetCookie(
		s.config.CookieName,
		token,
		int(s.config.TokenTTL.Seconds()),
		"/",
		"",
		s.config.CookieSecure,
		true,
	)
	return token, nil
}

// FormKeyMiddleware 校验写请求携带的表单密钥
func FormKeyMiddleware(store *FormKeyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet ||
			c.Request.Method == http.MethodHead ||
			c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		cfg := store.config
		token := c.GetHeader(cfg.HeaderName)
		if token == "" {
			token = c.PostForm(cfg.FieldName)
		}
		// 必须由客户端显式提交, Cookie 存在时需与之一致
		valid := store.ValidateToken(token)
		if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie != token {
			valid = false
		}

		if !valid {
			Error(c, http.StatusForbidden, "Invalid Form Key. Please refresh the page.", "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// generateRandomToken 生成随机 token
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
