package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Is 只比较错误码，这样 WithMessage 派生出来的错误依然能被 errors.Is 识别
func (e Errno) Is(target error) bool {
	var t Errno
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// WithMessage 返回同一错误码、不同提示信息的副本
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: msg}
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTokenInvalid     = Errno{Code: 10003, Message: "Token invalid"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrNotFound     = Errno{Code: 20001, Message: "not found"}
	ErrInvalidInput = Errno{Code: 20002, Message: "invalid input"}
	ErrUnauthorized = Errno{Code: 20003, Message: "unauthorized"}
	ErrDuplicate    = Errno{Code: 20004, Message: "duplicate record"}

	ErrCampaignNotFound  = Errno{Code: 20101, Message: "campaign not found"}
	ErrEventNotFound     = Errno{Code: 20102, Message: "event not found"}
	ErrPartnerNotFound   = Errno{Code: 20103, Message: "partner not found"}
	ErrTokenNotFound     = Errno{Code: 20104, Message: "token not registered"}
	ErrOperationNotFound = Errno{Code: 20105, Message: "pending operation not found"}

	ErrMalformedMemo      = Errno{Code: 20201, Message: "malformed memo"}
	ErrInvalidAmount      = Errno{Code: 20202, Message: "invalid amount"}
	ErrInvalidPage        = Errno{Code: 20203, Message: "page must be >= 1"}
	ErrDuplicateDonation  = Errno{Code: 20204, Message: "donation id already recorded"}
	ErrInsufficientFunds  = Errno{Code: 20205, Message: "insufficient custody balance"}
	ErrOperationPending   = Errno{Code: 20206, Message: "correlation id already pending"}
	ErrOperationResolved  = Errno{Code: 20207, Message: "correlation id already resolved"}
	ErrCallerNotSystem    = Errno{Code: 20301, Message: "confirmation caller is not the system account"}
	ErrCallerNotOperator  = Errno{Code: 20302, Message: "caller is not an operator"}
)

// 分类判断: 具体错误码归入 NotFound / InvalidInput / Unauthorized 三大类
var (
	notFoundCodes = map[int]bool{
		ErrNotFound.Code: true, ErrCampaignNotFound.Code: true, ErrEventNotFound.Code: true,
		ErrPartnerNotFound.Code: true, ErrTokenNotFound.Code: true, ErrOperationNotFound.Code: true,
	}
	invalidCodes = map[int]bool{
		ErrInvalidInput.Code: true, ErrDuplicate.Code: true, ErrMalformedMemo.Code: true,
		ErrInvalidAmount.Code: true, ErrInvalidPage.Code: true, ErrDuplicateDonation.Code: true,
		ErrInsufficientFunds.Code: true, ErrOperationPending.Code: true, ErrBind.Code: true,
		ErrOperationResolved.Code: true,
	}
	unauthorizedCodes = map[int]bool{
		ErrUnauthorized.Code: true, ErrCallerNotSystem.Code: true, ErrCallerNotOperator.Code: true,
	}
)

func codeOf(err error) (int, bool) {
	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, true
	}
	return 0, false
}

// IsNotFound 判断是否属于 NotFound 类
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && notFoundCodes[code]
}

// IsInvalidInput 判断是否属于 InvalidInput 类
func IsInvalidInput(err error) bool {
	code, ok := codeOf(err)
	return ok && invalidCodes[code]
}

// IsUnauthorized 判断是否属于 Unauthorized 类
func IsUnauthorized(err error) bool {
	code, ok := codeOf(err)
	return ok && unauthorizedCodes[code]
}
