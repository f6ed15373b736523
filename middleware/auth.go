package middleware

import (
	"strings"

	"bookingtour/errors"
	"bookingtour/response"
	"bookingtour/services"
	"bookingtour/types"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware xác thực Bearer token, roles khác rỗng thì user phải có ít nhất một role
func AuthMiddleware(tokens *services.TokenService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		info, err := tokens.ParseToken(tokenString)
		if err != nil {
			response.Fail(c, err)
			c.Abort()
			return
		}

		if len(roles) > 0 && !info.HasAnyRole(roles...) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set(types.ContextUserKey, info)
		c.Set("userID", info.UserID)
		c.Next()
	}
}

// RoleMiddleware kiểm tra role, dùng sau AuthMiddleware
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(types.ContextUserKey)
		if !exists {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		info, ok := v.(types.UserInfo)
		if !ok || !info.HasAnyRole(roles...) {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ErrorHandler trả response cho lỗi được handler gắn vào c.Errors mà chưa ghi response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if appErr := errors.GetAppError(err); appErr != nil {
			response.Error(c, errors.HTTPStatus(appErr.Code), appErr.Message)
			return
		}
		response.ServerError(c)
	}
}
