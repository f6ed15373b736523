package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	// User errors
	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists    ErrorCode = "USER_EXISTS"
	ErrCodeInvalidEmail  ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidPhone  ErrorCode = "INVALID_PHONE"
	ErrCodeInvalidRole   ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// Voucher errors
	ErrCodeVoucherNotFound       ErrorCode = "VOUCHER_NOT_FOUND"
	ErrCodeVoucherExpired        ErrorCode = "VOUCHER_EXPIRED"
	ErrCodeVoucherUsageExhausted ErrorCode = "VOUCHER_USAGE_EXHAUSTED"
	ErrCodeVoucherBelowMinimum   ErrorCode = "VOUCHER_BELOW_MINIMUM"
	ErrCodeVoucherCodeExists     ErrorCode = "VOUCHER_CODE_EXISTS"

	// Booking errors
	ErrCodeBookingLocked     ErrorCode = "BOOKING_LOCKED"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeIDMismatch    ErrorCode = "ID_MISMATCH"

	// Upstream errors
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error (kể cả khi đã bị wrap)
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode kiểm tra err có mang mã lỗi code không
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// HTTPStatus ánh xạ mã lỗi sang HTTP status
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken, ErrCodeInvalidPassword:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUserNotFound, ErrCodeDBNotFound, ErrCodeVoucherNotFound:
		return http.StatusNotFound
	case ErrCodeUserExists, ErrCodeDBDuplicate, ErrCodeVoucherCodeExists, ErrCodeBookingLocked, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeDBError:
		return http.StatusInternalServerError
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

var (
	// Voucher errors
	ErrVoucherNotFound       = NewAppError(ErrCodeVoucherNotFound, "Mã voucher không tồn tại hoặc không còn hiệu lực", nil)
	ErrVoucherExpired        = NewAppError(ErrCodeVoucherExpired, "Voucher đã hết hạn hoặc chưa có hiệu lực", nil)
	ErrVoucherUsageExhausted = NewAppError(ErrCodeVoucherUsageExhausted, "Voucher đã hết lượt sử dụng", nil)
	ErrVoucherCodeExists     = NewAppError(ErrCodeVoucherCodeExists, "Mã voucher đã tồn tại", nil)
)

// BelowMinimum tạo lỗi đơn hàng chưa đạt giá trị tối thiểu
func BelowMinimum(minimum string) *AppError {
	return NewAppError(ErrCodeVoucherBelowMinimum, fmt.Sprintf("Đơn hàng phải có giá trị tối thiểu %s VND", minimum), nil)
}

// Internal bọc lỗi hạ tầng thành lỗi DB_ERROR
func Internal(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

// NotFound tạo lỗi không tìm thấy với thông điệp riêng
func NotFound(message string) *AppError {
	return NewAppError(ErrCodeDBNotFound, message, nil)
}

// Validation tạo lỗi validation
func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}
