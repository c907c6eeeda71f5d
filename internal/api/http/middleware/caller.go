package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/rwaledger/internal/api/http/types"
	"github.com/weisyn/rwaledger/pkg/types"
)

// 宿主注入的调用上下文头
const (
	HeaderCaller = "X-Caller"
	HeaderHeight = "X-Height"
)

const callContextKey = "call_context"

// CallContext 从请求头解析调用者与高度
//
// 调用者地址原样透传，由账本入口校验；高度缺失或不是十进制非负整数时返回 400。
func CallContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderHeight)
		height, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			body := apitypes.NewErrorResponse(apitypes.ErrInvalidArgument, "X-Height must be a non-negative integer", map[string]interface{}{
				"header": HeaderHeight,
				"value":  raw,
			})
			c.AbortWithStatusJSON(http.StatusBadRequest, body.WithRequestID(GetRequestID(c)))
			return
		}
		c.Set(callContextKey, types.CallContext{
			Caller: types.Address(c.GetHeader(HeaderCaller)),
			Height: height,
		})
		c.Next()
	}
}

// GetCallContext 读取 CallContext 中间件解析的调用上下文
func GetCallContext(c *gin.Context) types.CallContext {
	if v, ok := c.Get(callContextKey); ok {
		if call, ok := v.(types.CallContext); ok {
			return call
		}
	}
	return types.CallContext{}
}
