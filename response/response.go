package response

import (
	"net/http"

	"bookingtour/errors"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
	})
}

// SuccessWithMessage trả về response thành công kèm thông điệp riêng
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: message,
		Data: data,
	})
}

// Created trả về response 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Tạo mới thành công",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error trả về response lỗi
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code: 0,
		Mess: message,
	})
}

// Fail trả về response lỗi dựa trên AppError, lỗi khác coi là lỗi server
func Fail(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		_ = c.Error(err)
		ServerError(c)
		return
	}
	status := errors.HTTPStatus(appErr.Code)
	switch {
	case status == http.StatusConflict:
		Conflict(c, appErr.Message)
	case status >= http.StatusInternalServerError:
		_ = c.Error(err)
		Error(c, status, appErr.Message)
	default:
		Error(c, status, appErr.Message)
	}
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Lỗi server")
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Chưa xác thực")
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Không có quyền truy cập")
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Không tìm thấy")
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Conflict trả về response conflict (409), message rỗng dùng thông báo mặc định
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Xung đột dữ liệu"
	}
	Error(c, http.StatusConflict, message)
}
