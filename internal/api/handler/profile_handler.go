package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/api/middleware"
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type profileRequest struct {
	DisplayName string `json:"displayName" binding:"max=100"`
	Bio         string `json:"bio" binding:"max=1000"`
	Location    string `json:"location" binding:"max=255"`
	Occupation  string `json:"occupation" binding:"max=255"`
	Website     string `json:"website" binding:"omitempty,url,max=512"`
	JoinDate    string `json:"joinDate"`
}

// Profile 个人资料视图
// @Summary 个人资料
// @Tags 个人资料
// @Produce json
// @Success 200 {object} response.Response{data=ProfileView}
// @Failure 401 {object} response.Response{data=AuthView}
// @Router /profile [get]
func (h *Handler) Profile(c *gin.Context) {
	u := middleware.CurrentUser(c)
	p, err := h.profiles.Load(c.Request.Context(), *u)
	if err != nil {
		response.BadGateway(c, "Failed to load profile. Please try again.", err)
		return
	}
	response.Success(c, ProfileView{View: "profile", User: u, Profile: p})
}

// SaveProfile 保存资料：显示名写身份服务，其余字段写文档库
// @Summary 保存个人资料
// @Tags 个人资料
// @Accept json
// @Produce json
// @Param request body profileRequest true "资料"
// @Success 200 {object} response.Response{data=model.Profile}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response{data=model.Profile}
// @Router /profile [put]
func (h *Handler) SaveProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u := middleware.CurrentUser(c)
	p, err := h.profiles.Save(c.Request.Context(), *u, model.Profile{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		Occupation:  req.Occupation,
		Website:     req.Website,
		JoinDate:    req.JoinDate,
	})
	var partial *service.PartialSaveError
	if errors.As(err, &partial) {
		response.BadGatewayWithData(c, partialMessage(partial), err, p)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, p)
}

// UploadAvatar 上传头像并更新账号头像地址
// @Summary 上传头像
// @Tags 个人资料
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "头像图片"
// @Success 200 {object} response.Response{data=identity.User}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /profile/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}
	f, err := media.FileFromMultipart(fh)
	if err != nil {
		response.BadRequest(c, "unreadable file: "+fh.Filename)
		return
	}
	u, err := h.profiles.UpdateAvatar(c.Request.Context(), f)
	switch {
	case errors.Is(err, service.ErrInvalidAvatar):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.BadGateway(c, identity.Message(identity.OpUpdate, err), err)
	default:
		response.Success(c, u)
	}
}

// UserPosts 文档库中当前用户的帖子
// @Summary 我的帖子
// @Tags 个人资料
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /profile/posts [get]
func (h *Handler) UserPosts(c *gin.Context) {
	u := middleware.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	list, err := h.profiles.UserPosts(c.Request.Context(), u.UID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

func partialMessage(e *service.PartialSaveError) string {
	switch {
	case e.AuthErr != nil && e.DocumentErr != nil:
		return "Profile update failed. Please try again."
	case e.AuthErr != nil:
		return "Profile details saved, but the display name could not be updated."
	default:
		return "Display name saved, but the profile details could not be updated."
	}
}
