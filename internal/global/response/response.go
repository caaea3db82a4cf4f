package response

import (
	"errors"
	"fmt"

	"competition-jury-system/config"
	"competition-jury-system/internal/global/logger"
	"competition-jury-system/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应结构
type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data"`
	Origin string `json:"origin,omitempty"`
}

// Success data 可省略
func Success(c *gin.Context, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	c.JSON(200, ResponseBody{
		Code: 200,
		Msg:  "success",
		Data: payload,
	})
}

// Fail 非 *Error 的错误按服务器内部错误处理
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}
	c.Set(ErrorContextKey, e)

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	status := e.HTTPStatus()
	if status >= 500 {
		sentry.CaptureException(c, e)
	}
	c.JSON(status, body)
}

// Recovery 在 defer 中调用，将 panic 转为 500 响应
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		logger.Get().Error("panic recovered", "error", err, "path", c.Request.URL.Path)
		Fail(c, ErrServerInternal.WithOrigin(err))
		c.Abort()
	}
}
