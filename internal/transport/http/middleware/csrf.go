package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"animal-market/internal/core/cache"
	resp "animal-market/internal/transport/http/response"
)

// 双提交 CSRF：令牌放 redis（带 TTL）+ cookie，写请求必须在
// X-CSRF-Token 头里回显同一个值。进程重启、多实例都不受影响。

const (
	csrfCookie    = "csrf_token"
	csrfHeader    = "X-CSRF-Token"
	csrfKeyPrefix = "csrf:"
)

type CSRF struct {
	Cache *cache.Cache
	TTL   time.Duration
}

func NewCSRF(c *cache.Cache, ttl time.Duration) *CSRF {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CSRF{Cache: c, TTL: ttl}
}

// IssueHandler GET /csrf：发新令牌，cookie + body 双通道返回
func (m *CSRF) IssueHandler(c *gin.Context) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		resp.Fail(c, http.StatusInternalServerError, "token generation failed")
		return
	}
	token := hex.EncodeToString(buf)
	if err := m.Cache.SetTTL(c.Request.Context(), csrfKeyPrefix+token, "1", m.TTL); err != nil {
		resp.Fail(c, http.StatusInternalServerError, "token store failed")
		return
	}
	c.SetCookie(csrfCookie, token, int(m.TTL.Seconds()), "/", "", false, false)
	resp.OK(c, gin.H{"csrfToken": token})
}

// Verify 写请求校验：header == cookie 且 redis 里存在
func (m *CSRF) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		header := c.GetHeader(csrfHeader)
		cookie, err := c.Cookie(csrfCookie)
		if header == "" || err != nil || header != cookie {
			resp.AbortFail(c, http.StatusForbidden, "csrf token mismatch")
			return
		}
		ok, err := m.Cache.Exists(c.Request.Context(), csrfKeyPrefix+header)
		if err != nil || !ok {
			resp.AbortFail(c, http.StatusForbidden, "csrf token expired")
			return
		}
		c.Next()
	}
}
