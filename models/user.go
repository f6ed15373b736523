package models

import (
	"time"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"userId"`
	Username      string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	FullName      string     `gorm:"size:100" json:"fullName"`
	Email         *string    `gorm:"size:100;uniqueIndex" json:"email"`
	Phone         string     `gorm:"size:20" json:"phone"`
	Address       string     `gorm:"size:255" json:"address"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"dateOfBirth"`
	Avatar        string     `json:"avatar"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`
	IsDelete      bool       `gorm:"default:false" json:"isDelete"`
	DefaultRoleID *uint      `json:"defaultRoleId"`
	DefaultRole   *Role      `gorm:"foreignKey:DefaultRoleID" json:"defaultRole,omitempty"`
	UserRoles     []UserRole `gorm:"foreignKey:UserID" json:"userRoles,omitempty"`
	CreatedDate   time.Time  `gorm:"autoCreateTime" json:"createdDate"`
	ModifyDate    time.Time  `gorm:"autoUpdateTime" json:"modifyDate"`
}

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"roleId"`
	RoleName    string    `gorm:"size:50;uniqueIndex;not null" json:"roleName"`
	DisplayName string    `gorm:"size:100;not null" json:"displayName"`
	Description string    `gorm:"size:255" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedDate time.Time `gorm:"autoCreateTime" json:"createdDate"`
	ModifyDate  time.Time `gorm:"autoUpdateTime" json:"modifyDate"`
}

type UserRole struct {
	ID           uint      `gorm:"primaryKey" json:"userRoleId"`
	UserID       uint      `gorm:"uniqueIndex:idx_user_role;not null" json:"userId"`
	RoleID       uint      `gorm:"uniqueIndex:idx_user_role;not null" json:"roleId"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	AssignedDate time.Time `gorm:"autoCreateTime" json:"assignedDate"`
	AssignedBy   *uint     `json:"assignedBy"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
}

// RoleNames danh sách tên role đang hiệu lực của user
func (u *User) RoleNames() []string {
	seen := make(map[string]bool)
	var names []string
	if u.DefaultRole != nil && u.DefaultRole.IsActive {
		seen[u.DefaultRole.RoleName] = true
		names = append(names, u.DefaultRole.RoleName)
	}
	for _, ur := range u.UserRoles {
		if !ur.IsActive || ur.Role == nil || !ur.Role.IsActive || seen[ur.Role.RoleName] {
			continue
		}
		seen[ur.Role.RoleName] = true
		names = append(names, ur.Role.RoleName)
	}
	return names
}
