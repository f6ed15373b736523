package controllers

import (
	"bookingtour/dto"
	"bookingtour/response"
	"bookingtour/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	service services.UserServiceInterface
}

func NewUserController(service services.UserServiceInterface) *UserController {
	return &UserController{service: service}
}

func (u *UserController) GetUsers(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	page := services.Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
	includeDeleted := c.Query("includeDeleted") == "true"

	users, total, err := u.service.List(c.Request.Context(), page, includeDeleted)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithPagination(c, dto.NewUserResponses(users), page.Page, page.PageSize, int(total))
}

func (u *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := u.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(*user))
}

func (u *UserController) SearchUsers(c *gin.Context) {
	var q dto.UserQuery
	if !bindQuery(c, &q) {
		return
	}
	users, total, err := u.service.Search(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	page := services.Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
	response.SuccessWithPagination(c, dto.NewUserResponses(users), page.Page, page.PageSize, int(total))
}

// GetProfile thông tin user đang đăng nhập
func (u *UserController) GetProfile(c *gin.Context) {
	info, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	user, err := u.service.Get(c.Request.Context(), info.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(*user))
}

func (u *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, dto.NewUserResponse(*user))
}

func (u *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := u.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(*user))
}

func (u *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := u.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Xóa người dùng thành công", nil)
}

func (u *UserController) ActivateUser(c *gin.Context) {
	u.setActive(c, true)
}

func (u *UserController) DeactivateUser(c *gin.Context) {
	u.setActive(c, false)
}

func (u *UserController) setActive(c *gin.Context, active bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := u.service.SetActive(c.Request.Context(), id, active)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, dto.NewUserResponse(*user))
}

func (u *UserController) GetRoles(c *gin.Context) {
	roles, err := u.service.ListRoles(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, roles)
}

func (u *UserController) CreateRole(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := u.service.CreateRole(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, role)
}

// AssignRole gán role cho user, gán lại role đã thu hồi sẽ kích hoạt lại
func (u *UserController) AssignRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	var assignedBy *uint
	if info, ok := currentUser(c); ok {
		assignedBy = &info.UserID
	}
	userRole, err := u.service.AssignRole(c.Request.Context(), id, req.RoleID, assignedBy)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, userRole)
}

func (u *UserController) RevokeRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseID(c, "roleId")
	if !ok {
		return
	}
	if err := u.service.RevokeRole(c.Request.Context(), id, roleID); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "Đã thu hồi role", nil)
}
