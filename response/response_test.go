package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookingtour/errors"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMess   string
		wantLogged bool
	}{
		{"duplicate voucher code", errors.ErrVoucherCodeExists, http.StatusConflict, "Mã voucher đã tồn tại", false},
		{"duplicate row", errors.NewAppError(errors.ErrCodeDBDuplicate, "Dữ liệu đã tồn tại", nil), http.StatusConflict, "Dữ liệu đã tồn tại", false},
		{"voucher not found", errors.ErrVoucherNotFound, http.StatusNotFound, "Mã voucher không tồn tại hoặc không còn hiệu lực", false},
		{"validation", errors.NewAppError(errors.ErrCodeValidation, "Sai dữ liệu", nil), http.StatusBadRequest, "Sai dữ liệu", false},
		{"upstream", errors.NewAppError(errors.ErrCodeUpstream, "Upload thất bại", nil), http.StatusBadGateway, "Upload thất bại", true},
		{"plain error", http.ErrHandlerTimeout, http.StatusInternalServerError, "Lỗi server", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Fail(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			body := decode(t, w)
			if body.Code != 0 || body.Mess != tt.wantMess {
				t.Errorf("body = %+v, want code 0 mess %q", body, tt.wantMess)
			}
			if logged := len(c.Errors) > 0; logged != tt.wantLogged {
				t.Errorf("error attached to context = %v, want %v", logged, tt.wantLogged)
			}
		})
	}
}

func TestConflictDefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, "")

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if body := decode(t, w); body.Mess != "Xung đột dữ liệu" {
		t.Errorf("mess = %q", body.Mess)
	}
}
