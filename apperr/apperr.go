// apperr 统一业务错误分类，controller 层据此映射 HTTP 状态码
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindState         Kind = "STATE"
	KindConflict      Kind = "CONFLICT"
	KindAuthorization Kind = "AUTHORIZATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindInternal      Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func State(msg string) error {
	return &Error{Kind: KindState, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// Message returns the human-readable part without the kind prefix.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
