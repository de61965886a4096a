package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserNotFound = 10001
	ErrAuthFailed   = 10002
	ErrTokenInvalid = 10003
	ErrNoPermission = 10004

	// 订单/支付模块错误 200xx
	ErrOrderNotFound    = 20001
	ErrOrderDuplicate   = 20002
	ErrSignatureInvalid = 20003
	ErrGatewayFailed    = 20004

	// 地址模块错误 300xx
	ErrAddressNotFound = 30001

	// 系统错误 500xx
	ErrServerInternal   = 50001
	ErrInvalidParam     = 50002
	ErrTooManyRequests  = 50003
	ErrStoreUnavailable = 50004
)
