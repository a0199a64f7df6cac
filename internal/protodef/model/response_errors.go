package model

type ResponseError struct {
	// 自定义错误码。
	Code int `json:"code"`
	// 请求ID。
	RequestID string `json:"requestID"`
	// Message
	Message string `json:"message"`
}

const (
	ResponseErrorBadRequest       = 400000
	ResponseErrorValidation       = 400001
	ResponseErrorNotLoggedIn      = 401001
	ResponseErrorBadToken         = 401003
	ResponseErrorAlreadyLoggedIn  = 401004
	// ResponseErrorZoomAuthRequired 操作者尚未授权（或授权已失效），需要重新走授权流程。
	ResponseErrorZoomAuthRequired = 401100
	ResponseErrorNoPermission     = 403001
	ResponseErrorNotFound         = 404000
	ResponseErrorNoSuchUser       = 404001
	ResponseErrorNoSuchRecruit    = 404002
	ResponseErrorNoSuchMeeting    = 404003
	ResponseErrorInternal         = 500000
	ResponseErrorExternalService  = 502001
	ResponseErrorUpstreamTimeout  = 504001
)

// NewResponseErrorBadRequest 参数错误。
func NewResponseErrorBadRequest() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadRequest,
		Message: "参数错误",
	}
}

func NewResponseErrorValidation(err error) *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorValidation,
		Message: err.Error(),
	}
}

// NewResponseErrorNotLoggedIn 用户未登录。
func NewResponseErrorNotLoggedIn() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotLoggedIn,
		Message: "not logged in",
	}
}

// NewResponseErrorBadToken 登录token错误。
func NewResponseErrorBadToken() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorBadToken,
		Message: "bad token",
	}
}

// NewResponseErrorAlreadyLoggedin 用户已经登录，此为重复登录
func NewResponseErrorAlreadyLoggedin() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorAlreadyLoggedIn,
		Message: "already logged in",
	}
}

// NewResponseErrorZoomAuthRequired 未连接会议账号，需引导操作者重新授权，不能当作一般失败重试。
func NewResponseErrorZoomAuthRequired() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorZoomAuthRequired,
		Message: "conferencing authorization required",
	}
}

// NewResponseErrorNoPermission 角色或归属校验未通过。
func NewResponseErrorNoPermission(reason string) *ResponseError {
	if reason == "" {
		reason = "no permission"
	}
	return &ResponseError{
		Code:    ResponseErrorNoPermission,
		Message: reason,
	}
}

func NewResponseErrorNotFound() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNotFound,
		Message: "not found",
	}
}

// NewResponseErrorNoSuchUser 无此用户。
func NewResponseErrorNoSuchUser() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchUser,
		Message: "no such user",
	}
}

// NewResponseErrorNoSuchRecruit 无此应聘者。
func NewResponseErrorNoSuchRecruit() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchRecruit,
		Message: "no such recruit",
	}
}

func NewResponseErrorNoSuchMeeting() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorNoSuchMeeting,
		Message: "no such meeting",
	}
}

// NewResponseErrorInternal 其他内部服务错误。
func NewResponseErrorInternal() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorInternal,
		Message: "internal server error",
	}
}

// NewResponseErrorExternalService 调用外部服务错误。
func NewResponseErrorExternalService(message string) *ResponseError {
	if message == "" {
		message = "calling external service failed"
	}
	return &ResponseError{
		Code:    ResponseErrorExternalService,
		Message: message,
	}
}

// NewResponseErrorUpstreamTimeout 调用外部服务超时。
func NewResponseErrorUpstreamTimeout() *ResponseError {
	return &ResponseError{
		Code:    ResponseErrorUpstreamTimeout,
		Message: "upstream timeout",
	}
}

func NewResponseError(code int, message string) *ResponseError {
	return &ResponseError{
		Code:    code,
		Message: message,
	}
}
