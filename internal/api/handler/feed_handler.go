package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type commentRequest struct {
	Text string `json:"text"`
}

// Feed 信息流视图
// @Summary 信息流
// @Tags 信息流
// @Produce json
// @Success 200 {object} response.Response{data=FeedView}
// @Failure 401 {object} response.Response{data=AuthView}
// @Router /feed [get]
func (h *Handler) Feed(c *gin.Context) {
	response.Success(c, FeedView{View: "feed", User: middleware.CurrentUser(c), Posts: h.posts.Posts()})
}

// Like 点赞；帖子不存在时不做任何改变
// @Summary 点赞
// @Tags 信息流
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Router /feed/posts/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	p, err := h.posts.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// Comment 评论
// @Summary 评论
// @Tags 信息流
// @Accept json
// @Produce json
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Router /feed/posts/{id}/comments [post]
func (h *Handler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.posts.Comment(c.Request.Context(), c.Param("id"), req.Text, authorOf(middleware.CurrentUser(c)))
	if errors.Is(err, service.ErrEmptyComment) {
		response.BadRequest(c, "Comment cannot be empty")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// ClearFeed 清空信息流与本地存储
// @Summary 清空信息流
// @Tags 信息流
// @Produce json
// @Success 200 {object} response.Response
// @Router /feed/clear [post]
func (h *Handler) ClearFeed(c *gin.Context) {
	if err := h.posts.Clear(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

func authorOf(u *identity.User) service.Author {
	if u == nil {
		return service.Author{}
	}
	return service.Author{Name: u.DisplayName, Avatar: u.PhotoURL}
}
