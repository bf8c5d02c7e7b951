package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "created", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

// BadRequestWithData 校验失败但仍需带回部分结果（如被拒绝的文件列表）
func BadRequestWithData(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg, Data: data})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: msg})
}

// BadGateway 外部服务（鉴权、媒体、文档库）失败，返回映射后的提示
func BadGateway(c *gin.Context, msg string, err error) {
	logger.Warn("upstream call failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadGateway, Response{Code: http.StatusBadGateway, Message: msg})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: "internal server error"})
}

// LoginRequired 未登录：带回登录/注册视图
func LoginRequired(c *gin.Context, view interface{}) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: "login required", Data: view})
}

// BadGatewayWithData 外部写入部分成功时带回当前结果
func BadGatewayWithData(c *gin.Context, msg string, err error, data interface{}) {
	logger.Warn("upstream call failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadGateway, Response{Code: http.StatusBadGateway, Message: msg, Data: data})
}
