package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidToken, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeVoucherNotFound, http.StatusNotFound},
		{ErrCodeDBNotFound, http.StatusNotFound},
		{ErrCodeInvalidTransition, http.StatusConflict},
		{ErrCodeVoucherCodeExists, http.StatusConflict},
		{ErrCodeVoucherExpired, http.StatusBadRequest},
		{ErrCodeVoucherUsageExhausted, http.StatusBadRequest},
		{ErrCodeVoucherBelowMinimum, http.StatusBadRequest},
		{ErrCodeDBError, http.StatusInternalServerError},
		{ErrCodeUpstream, http.StatusBadGateway},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestGetAppErrorThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", ErrVoucherExpired)
	if !IsAppError(wrapped) {
		t.Fatal("wrapped AppError not detected")
	}
	if got := GetAppError(wrapped); got != ErrVoucherExpired {
		t.Errorf("GetAppError = %v", got)
	}
	if !HasCode(wrapped, ErrCodeVoucherExpired) || HasCode(wrapped, ErrCodeVoucherNotFound) {
		t.Error("HasCode mismatch")
	}
	if GetAppError(fmt.Errorf("plain")) != nil {
		t.Error("plain error should not be an AppError")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := Internal("Lỗi truy vấn", fmt.Errorf("timeout"))
	if err.Error() != "[DB_ERROR] Lỗi truy vấn: timeout" {
		t.Errorf("Error() = %q", err.Error())
	}
	if BelowMinimum("500,000").Error() != "[VOUCHER_BELOW_MINIMUM] Đơn hàng phải có giá trị tối thiểu 500,000 VND" {
		t.Errorf("BelowMinimum = %q", BelowMinimum("500,000").Error())
	}
}
