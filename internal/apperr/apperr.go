package apperr

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Kind 是贯穿service层的错误类别，在HTTP边界统一翻译成状态码，
// 取代按错误文案做字符串匹配的派发方式
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindValidation
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "内部错误", Err: err}
}

// KindOf 提取错误类别，非*Error一律按Internal处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Wrap 把repository层的原始错误翻译成带类别的错误：
// gorm的记录不存在 -> NotFound；MySQL的1062重复键 -> Conflict；其余 -> Internal
func Wrap(err error, notFoundMsg, conflictMsg string) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundMsg)
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return Conflict(conflictMsg)
	}
	return Internal(err)
}

// IsDuplicate 判断是否为MySQL重复键错误（errno 1062）
func IsDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
