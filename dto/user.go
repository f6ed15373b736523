package dto

import (
	"time"

	"bookingtour/models"
)

// DateLayout định dạng ngày sinh trên API
const DateLayout = "2006-01-02"

// UserResponse định nghĩa response cho user
type UserResponse struct {
	UserID          uint      `json:"userId"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	IsActive        bool      `json:"isActive"`
	IsDelete        bool      `json:"isDelete"`
	DefaultRoleID   *uint     `json:"defaultRoleId"`
	DefaultRoleName string    `json:"defaultRoleName,omitempty"`
	Roles           []string  `json:"roles"`
	CreatedDate     time.Time `json:"createdDate"`
	ModifyDate      time.Time `json:"modifyDate"`
}

// CreateUserRequest định nghĩa request tạo user
type CreateUserRequest struct {
	Username      string `json:"username" binding:"required,min=3,max=50"`
	Password      string `json:"password" binding:"required"`
	FullName      string `json:"fullName" binding:"max=100"`
	Email         string `json:"email"`
	Phone         string `json:"phone" binding:"phone"`
	Address       string `json:"address" binding:"max=255"`
	DateOfBirth   string `json:"dateOfBirth"`
	IsActive      *bool  `json:"isActive"`
	DefaultRoleID *uint  `json:"defaultRoleId"`
}

// UpdateUserRequest chỉ cập nhật các trường được gửi lên
type UpdateUserRequest struct {
	Username      *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password      *string `json:"password"`
	FullName      *string `json:"fullName" binding:"omitempty,max=100"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone" binding:"omitempty,phone"`
	Address       *string `json:"address" binding:"omitempty,max=255"`
	DateOfBirth   *string `json:"dateOfBirth"`
	Avatar        *string `json:"avatar"`
	IsActive      *bool   `json:"isActive"`
	DefaultRoleID *uint   `json:"defaultRoleId"`
}

type UserQuery struct {
	Keyword  string `form:"keyword"`
	IsActive *bool  `form:"isActive"`
	RoleID   *uint  `form:"roleId"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

type RoleRequest struct {
	RoleName    string `json:"roleName" binding:"required,max=50"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	IsActive    *bool  `json:"isActive"`
}

type AssignRoleRequest struct {
	RoleID uint `json:"roleId" binding:"required"`
}

func NewUserResponse(u models.User) UserResponse {
	resp := UserResponse{
		UserID:        u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Address:       u.Address,
		Avatar:        u.Avatar,
		IsActive:      u.IsActive,
		IsDelete:      u.IsDelete,
		DefaultRoleID: u.DefaultRoleID,
		Roles:         u.RoleNames(),
		CreatedDate:   u.CreatedDate,
		ModifyDate:    u.ModifyDate,
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(DateLayout)
	}
	if u.DefaultRole != nil {
		resp.DefaultRoleName = u.DefaultRole.RoleName
	}
	return resp
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
