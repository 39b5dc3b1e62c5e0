package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError - типизированная ошибка сервиса. Сравнение через errors.Is идёт по Code,
// поэтому копии с Details/причиной совпадают со своим sentinel.
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`

	cause error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New создает новую ошибку
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Is - target является *AppError с тем же кодом
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithDetails возвращает копию с деталями; sentinel не меняется
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := e.clone()
	if cp.Details == nil {
		cp.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		cp.Details[k] = v
	}
	return cp
}

// WithMessage возвращает копию с уточненным сообщением
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	cp := e.clone()
	cp.Message = fmt.Sprintf(format, args...)
	return cp
}

// Wrap возвращает копию с причиной
func (e *AppError) Wrap(cause error) *AppError {
	cp := e.clone()
	cp.cause = cause
	return cp
}

func (e *AppError) clone() *AppError {
	cp := *e
	if e.Details != nil {
		cp.Details = make(map[string]interface{}, len(e.Details))
		for k, v := range e.Details {
			cp.Details[k] = v
		}
	}
	return &cp
}

// As достает первый *AppError из цепочки err
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is - прокси для errors.Is из стандартной библиотеки
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
