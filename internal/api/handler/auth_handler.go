package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/pkg/response"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"strongpassword"`
}

type federatedRequest struct {
	ProviderID string `json:"provider_id"`
	IDToken    string `json:"id_token" binding:"required"`
}

// Register 邮箱密码注册
// @Summary 注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response{data=identity.User}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindMessage(err, identity.ValidateRegistration(req.Email, req.Password)))
		return
	}
	u, err := h.session.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authFailed(c, identity.OpRegister, err)
		return
	}
	response.Success(c, u)
}

// Login 邮箱密码登录
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "登录信息"
// @Success 200 {object} response.Response{data=identity.User}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindMessage(err, identity.ValidateSignIn(req.Email, req.Password)))
		return
	}
	u, err := h.session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authFailed(c, identity.OpSignIn, err)
		return
	}
	response.Success(c, u)
}

// Federated 第三方身份登录（Google 等）
// @Summary 第三方登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body federatedRequest true "身份令牌"
// @Success 200 {object} response.Response{data=identity.User}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/federated [post]
func (h *Handler) Federated(c *gin.Context) {
	var req federatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Identity token is required")
		return
	}
	if req.ProviderID == "" {
		req.ProviderID = "google.com"
	}
	u, err := h.session.SignInWithIdP(c.Request.Context(), req.ProviderID, req.IDToken)
	if err != nil {
		authFailed(c, identity.OpFederated, err)
		return
	}
	response.Success(c, u)
}

// Logout 退出登录
// @Summary 退出
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	_ = h.session.SignOut(c.Request.Context())
	response.Success(c, nil)
}

// CurrentSession 当前登录用户，未登录时 data 为空
// @Summary 当前会话
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=identity.User}
// @Router /auth/session [get]
func (h *Handler) CurrentSession(c *gin.Context) {
	response.Success(c, h.session.Refresh(c.Request.Context()))
}

// bindMessage 优先使用业务校验给出的提示
func bindMessage(bindErr, validationErr error) string {
	var ve *identity.ValidationError
	if errors.As(validationErr, &ve) {
		return ve.Message
	}
	return bindErr.Error()
}

func authFailed(c *gin.Context, op identity.Operation, err error) {
	msg := identity.Message(op, err)
	var ve *identity.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, identity.ErrEmailInUse):
		response.BadRequest(c, msg)
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrWrongCredential),
		errors.Is(err, identity.ErrInvalidToken):
		response.Unauthorized(c, msg)
	default:
		response.BadGateway(c, msg, err)
	}
}
