package apperr

import (
	"errors"
	"net/http"
)

// Error 服务层统一错误对象，Code 直接用 HTTP 语义
type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf 非 *Error 一律按 500 处理，不向客户端泄漏内部细节
func CodeOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
