package handler

import (
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/service"
)

// Options 视图里需要展示的上传限制
type Options struct {
	MaxFiles    int
	MaxFileSize int64
}

// Handler 聚合各视图依赖
type Handler struct {
	session  *identity.Session
	posts    *service.PostStore
	profiles *service.ProfileService
	uploader service.MediaUploader
	opts     Options
}

func New(session *identity.Session, posts *service.PostStore, profiles *service.ProfileService, uploader service.MediaUploader, opts Options) *Handler {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 5
	}
	return &Handler{session: session, posts: posts, profiles: profiles, uploader: uploader, opts: opts}
}

func (h *Handler) Session() *identity.Session { return h.session }
