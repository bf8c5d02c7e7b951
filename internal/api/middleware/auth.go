package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/pkg/response"
)

const userKey = "current_user"

// RequireUser 没有登录用户时直接返回登录视图；会话即将过期时先刷新，刷新失败视为未登录
func RequireUser(s *identity.Session, loginView func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := s.Refresh(c.Request.Context())
		if u == nil {
			response.LoginRequired(c, loginView())
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *identity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*identity.User)
	return u
}
