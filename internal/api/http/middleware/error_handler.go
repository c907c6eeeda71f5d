package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
)

// ErrorHandler 把处理器通过 c.Error 登记的错误写成统一错误响应
//
// 处理器已自行写出响应时不再覆盖。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := apitypes.FromError(err)
		if status >= 500 {
			logger.Error("HTTP error",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(status, body.WithRequestID(GetRequestID(c)))
	}
}

// Recovery 捕获处理器 panic，返回 500 统一错误响应
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("HTTP handler panic",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
			zap.Any("panic", recovered))
		body := apitypes.NewErrorResponse(apitypes.ErrInternal, "internal error", nil)
		c.AbortWithStatusJSON(http.StatusInternalServerError, body.WithRequestID(GetRequestID(c)))
	})
}
