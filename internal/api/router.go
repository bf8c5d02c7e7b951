// Package api wires the local UI surface: the feed, profile and create-post views, the auth
// actions and the swagger docs.
package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/social-feed/docs"
	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/identity"
)

type RouterOptions struct {
	ServiceName string
	Swagger     bool
}

// NewRouter 注册中间件与路由；未知路径统一跳转到 /feed
func NewRouter(h *handler.Handler, opts RouterOptions) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := identity.RegisterValidations(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		otelgin.Middleware(opts.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
	)

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/federated", h.Federated)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.CurrentSession)
	}

	views := r.Group("/", middleware.RequireUser(h.Session(), handler.LoginView))
	{
		views.GET("/feed", h.Feed)
		views.POST("/feed/posts/:id/like", h.Like)
		views.POST("/feed/posts/:id/comments", h.Comment)
		views.POST("/feed/clear", h.ClearFeed)

		views.GET("/create-post", h.Composer)
		views.POST("/create-post", h.CreatePost)
		views.POST("/create-post/media", h.UploadMedia)

		views.GET("/profile", h.Profile)
		views.PUT("/profile", h.SaveProfile)
		views.POST("/profile/avatar", h.UploadAvatar)
		views.GET("/profile/posts", h.UserPosts)
	}

	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/feed")
	})
	return r, nil
}
