package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
)

// AppError — классифицированная ошибка, которую внешние слои пробрасывают без изменений.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал с обёрнутыми копиями.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func BadRequest(message string) *AppError { return New(ErrCodeBadRequest, message) }

func NotFound(message string) *AppError { return New(ErrCodeNotFound, message) }

func Conflict(message string) *AppError { return New(ErrCodeConflict, message) }

func Forbidden(message string) *AppError { return New(ErrCodeForbidden, message) }

func Internal(err error, message string) *AppError { return Wrap(err, ErrCodeInternal, message) }

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// As извлекает AppError из цепочки.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

func IsForbidden(err error) bool { return hasCode(err, ErrCodeForbidden) }

func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

func IsBadRequest(err error) bool {
	return hasCode(err, ErrCodeBadRequest) || hasCode(err, ErrCodeValidation)
}

func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }

// IsClassified сообщает, что ошибка уже отнесена к клиентской категории
// и не должна превращаться во внутреннюю.
func IsClassified(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code != ErrCodeInternal
}

// StatusOf возвращает HTTP статус для произвольной ошибки.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// PublicMessage возвращает сообщение, безопасное для клиента.
func PublicMessage(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Message
	}
	return "внутренняя ошибка сервера"
}

var (
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrInvalidInput       = New(ErrCodeBadRequest, "некорректные входные данные")
	ErrUserIDRequired     = New(ErrCodeBadRequest, "требуется идентификатор пользователя")
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrActivityNotFound   = New(ErrCodeNotFound, "активность не найдена")
	ErrFavoriteNotFound   = New(ErrCodeNotFound, "избранное не найдено")
	ErrFavoriteExists     = New(ErrCodeConflict, "активность уже в избранном")
	ErrEmailTaken         = New(ErrCodeConflict, "email уже зарегистрирован")
	ErrEmptyReorder       = New(ErrCodeBadRequest, "для сортировки нужен хотя бы один элемент избранного")
	ErrForeignFavorites   = New(ErrCodeForbidden, "часть элементов избранного не принадлежит пользователю")
	ErrTooManyRequests    = New(ErrCodeTooManyRequests, "слишком много запросов, попробуйте позже")
)
