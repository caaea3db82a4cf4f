package response

var (
	ErrInvalidRequest  = newError(400, "请求参数错误")
	ErrInvalidPassword = newError(4001, "密码错误")
	ErrInvalidScore    = newError(4002, "评分超出范围")
	ErrTokenInvalid    = newError(401, "登录状态无效")
	ErrUnauthorized    = newError(403, "权限不足")
	ErrNotFound        = newError(404, "资源不存在")
	ErrAlreadyExists   = newError(409, "资源已存在")
	ErrDatabase        = newError(500, "数据库错误")
	ErrServerInternal  = newError(5001, "服务器内部错误")
)
