// Package handlers provides HTTP API handlers for the RWA ledger
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/rwaledger/internal/api/http/middleware"
	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
)

// ok 写出 200 成功响应
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apitypes.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

// created 写出 201 成功响应
func created(c *gin.Context, id uint64) {
	c.JSON(http.StatusCreated, apitypes.NewSuccessResponse(apitypes.IDResponse{ID: id}).WithRequestID(middleware.GetRequestID(c)))
}

// fail 登记错误，由 ErrorHandler 转换为响应
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// badRequest 写出参数错误
func badRequest(c *gin.Context, message string, details interface{}) {
	body := apitypes.NewErrorResponse(apitypes.ErrInvalidArgument, message, details)
	c.AbortWithStatusJSON(http.StatusBadRequest, body.WithRequestID(middleware.GetRequestID(c)))
}

// uintParam 解析路径中的十进制 ID
func uintParam(c *gin.Context, name string) (uint64, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid path parameter", map[string]interface{}{"param": name, "value": raw})
		return 0, false
	}
	return v, true
}

// bindJSON 解析请求体
func bindJSON(c *gin.Context, logger log.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if logger != nil {
			logger.Debugf("请求体解析失败: %s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		badRequest(c, "invalid request body", map[string]interface{}{"reason": err.Error()})
		return false
	}
	return true
}

// okResult 变更类入口成功时的响应体
func okResult(c *gin.Context) {
	ok(c, gin.H{"success": true})
}
