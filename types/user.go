package types

// UserInfo thông tin user được nhúng trong JWT (claim "userinfo")
type UserInfo struct {
	UserID   uint     `json:"userid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasAnyRole kiểm tra user có ít nhất một trong các role
func (u UserInfo) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ContextUserKey key lưu UserInfo trong gin.Context
const ContextUserKey = "userInfo"
