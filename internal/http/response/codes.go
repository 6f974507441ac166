package response

// 业务状态码，HTTP 状态始终为 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeLinkExpired     = 410
	CodeTooManyRequests = 429
	CodeInternal        = 500
	CodeDeliveryFailed  = 502
)
