package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service services.AuthServiceInterface
}

func NewAuthController(service services.AuthServiceInterface) *AuthController {
	return &AuthController{service: service}
}

func (a *AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	out, err := a.service.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Đăng nhập thành công", out)
}

// AuthGoogle đăng nhập bằng id token của Google, tạo user mới nếu email chưa có
func (a *AuthController) AuthGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if !bindJSON(c, &input) {
		return
	}
	out, err := a.service.GoogleLogin(c.Request.Context(), input.IDToken)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Đăng nhập thành công", out)
}
