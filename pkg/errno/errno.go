package errno

import (
	"errors"
	"fmt"
)

const (
	SuccessCode                = 0
	ServiceErrCode             = 10001
	ParamErrCode               = 10002
	AuthorizationFailedErrCode = 10003
	NotFoundErrCode            = 10004
	TooManyRequestErrCode      = 10005
	ConflictErrCode            = 10009
	TokenInvalidErrCode        = 10010
)

// ErrNo is the error every layer hands back to the api gateway. Two ErrNo
// values are the same kind when their codes match, whatever the message.
type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func (e ErrNo) Is(target error) bool {
	var t ErrNo
	if !errors.As(target, &t) {
		return false
	}
	return t.ErrCode == e.ErrCode
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) WithMessagef(format string, args ...interface{}) ErrNo {
	e.ErrMsg = fmt.Sprintf(format, args...)
	return e
}

var (
	Success                = NewErrNo(SuccessCode, "Success")
	ServiceErr             = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
	ParamErr               = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	AuthorizationFailedErr = NewErrNo(AuthorizationFailedErrCode, "You are not authorised to access this content")
	NotFoundErr            = NewErrNo(NotFoundErrCode, "Resource not found")
	TooManyRequestErr      = NewErrNo(TooManyRequestErrCode, "Too many requests, try again later")
	ConflictErr            = NewErrNo(ConflictErrCode, "Resource already exists")
	TokenInvalidErr        = NewErrNo(TokenInvalidErrCode, "Token is invalid or expired")

	// InvalidOperationErr is an InvalidArgument-kind failure raised when the
	// requested transition has nothing to act on.
	InvalidOperationErr = NewErrNo(ParamErrCode, "Nothing to remove")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	// 未知错误只记日志, 不把底层信息返回给客户端
	return ServiceErr
}

func IsNotFound(err error) bool { return errors.Is(err, NotFoundErr) }

func IsConflict(err error) bool { return errors.Is(err, ConflictErr) }
