package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type createPostRequest struct {
	Content string                  `json:"content"`
	Media   []model.MediaAttachment `json:"media"`
}

// Composer 发帖视图
// @Summary 发帖视图
// @Tags 发帖
// @Produce json
// @Success 200 {object} response.Response{data=ComposerView}
// @Router /create-post [get]
func (h *Handler) Composer(c *gin.Context) {
	response.Success(c, ComposerView{
		View:          "create-post",
		User:          middleware.CurrentUser(c),
		MaxFiles:      h.opts.MaxFiles,
		MaxFileSize:   h.opts.MaxFileSize,
		AcceptedTypes: []string{"image/*", "video/*"},
	})
}

// UploadMedia 上传一批媒体，existing 为已附加的数量
// @Summary 上传媒体
// @Tags 发帖
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "媒体文件（可多个）"
// @Param existing formData int false "已附加的媒体数量"
// @Success 200 {object} response.Response{data=UploadView}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /create-post/media [post]
func (h *Handler) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form expected")
		return
	}
	existing, _ := strconv.Atoi(c.PostForm("existing"))
	if existing < 0 {
		existing = 0
	}

	headers := form.File["files"]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := media.FileFromMultipart(fh)
		if err != nil {
			response.BadRequest(c, "unreadable file: "+fh.Filename)
			return
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		response.BadRequest(c, "no files")
		return
	}

	span := trace.SpanFromContext(c.Request.Context())
	span.SetAttributes(attribute.Int("media.files", len(files)), attribute.Int("media.existing", existing))

	res, err := h.uploader.Upload(c.Request.Context(), files, existing, h.opts.MaxFiles)
	switch {
	case errors.Is(err, media.ErrTooManyFiles):
		response.BadRequest(c, "Maximum "+strconv.Itoa(h.opts.MaxFiles)+" media files allowed.")
		return
	case err != nil:
		span.RecordError(err)
		response.BadGateway(c, "Failed to upload media. Please try again.", err)
		return
	}
	span.SetAttributes(attribute.Int("media.uploaded", len(res.Attachments)), attribute.Int("media.rejected", len(res.Rejections)))
	response.Success(c, UploadView{Attachments: res.Attachments, Rejections: res.Rejections})
}

// CreatePost 发布帖子；文本为空且没有媒体时拒绝
// @Summary 发布帖子
// @Tags 发帖
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容与已上传的媒体"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Router /create-post [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(req.Media) > h.opts.MaxFiles {
		response.BadRequest(c, "Maximum "+strconv.Itoa(h.opts.MaxFiles)+" media files allowed.")
		return
	}
	for _, m := range req.Media {
		if m.URL == "" || (m.Type != model.MediaImage && m.Type != model.MediaVideo) {
			response.BadRequest(c, "invalid media attachment")
			return
		}
	}

	p, err := h.posts.NewPost(authorOf(middleware.CurrentUser(c)), req.Content, req.Media)
	if errors.Is(err, service.ErrEmptyPost) {
		response.BadRequest(c, "Post cannot be empty")
		return
	}
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.posts.Append(c.Request.Context(), p); err != nil {
		response.InternalError(c, err)
		return
	}
	c.Header("Location", "/feed")
	response.Created(c, p)
}
