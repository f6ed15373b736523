package controllers

import (
	"strconv"

	"bookingtour/response"
	"bookingtour/types"

	"github.com/gin-gonic/gin"
)

// parseID đọc tham số đường dẫn kiểu số, trả lời 400 nếu sai
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ: "+err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Tham số không hợp lệ: "+err.Error())
		return false
	}
	return true
}

// queryInt đọc số nguyên trên query string, sai định dạng thì dùng fallback
func queryInt(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// currentUser lấy thông tin user do AuthMiddleware gắn vào context
func currentUser(c *gin.Context) (types.UserInfo, bool) {
	v, ok := c.Get(types.ContextUserKey)
	if !ok {
		return types.UserInfo{}, false
	}
	info, ok := v.(types.UserInfo)
	return info, ok
}
