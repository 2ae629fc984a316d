package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"animal-market/internal/core/auth"
	resp "animal-market/internal/transport/http/response"
)

// AuthJWT 必须带合法 Bearer token；requireRoles 非空时还要角色命中其一
func AuthJWT(j *auth.JWTer, requireRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortFail(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortFail(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Banned {
			resp.AbortFail(c, http.StatusForbidden, "account banned")
			return
		}
		if len(requireRoles) > 0 {
			ok := false
			for _, r := range requireRoles {
				if claims.Role == r {
					ok = true
					break
				}
			}
			if !ok {
				resp.AbortFail(c, http.StatusForbidden, "forbidden")
				return
			}
		}
		c.Set(CtxUserID, claims.UID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxBanned, claims.Banned)
		c.Next()
	}
}

// OptionalAuth token 有就解析，没有/无效照样放行（浏览计数、游客举报、心跳）
func OptionalAuth(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer ")); err == nil && !claims.Banned {
				c.Set(CtxUserID, claims.UID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}
