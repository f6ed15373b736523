package services

import (
	"context"
	"strings"
	"time"

	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/validator"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserServiceInterface interface {
	List(ctx context.Context, page Page, includeDeleted bool) ([]models.User, int64, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Search(ctx context.Context, q dto.UserQuery) ([]models.User, int64, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) (*models.User, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, req dto.RoleRequest) (*models.Role, error)
	AssignRole(ctx context.Context, userID, roleID uint, assignedBy *uint) (*models.UserRole, error)
	RevokeRole(ctx context.Context, userID, roleID uint) error
}

type UserService struct {
	db     *gorm.DB
	logger logger.Logger
}

type UserServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewUserService(opts UserServiceOptions) *UserService {
	s := &UserService{db: opts.DB, logger: opts.Logger}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

func (s *UserService) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("DefaultRole").Preload("UserRoles", "is_active = ?", true).Preload("UserRoles.Role")
}

func (s *UserService) List(ctx context.Context, page Page, includeDeleted bool) ([]models.User, int64, error) {
	page = page.Normalize()
	query := s.db.WithContext(ctx).Model(&models.User{})
	if !includeDeleted {
		query = query.Where("is_delete = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "")
	}
	users := []models.User{}
	err := s.preload(query).
		Order("created_date desc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&users).Error
	return users, total, dbError(err, "")
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.preload(s.db.WithContext(ctx)).
		Where("id = ? AND is_delete = ?", id, false).
		First(&user).Error
	if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy người dùng", nil)
	}
	if err != nil {
		return nil, dbError(err, "")
	}
	return &user, nil
}

// Search tìm user theo từ khóa (username, họ tên, email, điện thoại), role và trạng thái
func (s *UserService) Search(ctx context.Context, q dto.UserQuery) ([]models.User, int64, error) {
	page := Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("users.is_delete = ?", false)

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where(
			"LOWER(users.username) LIKE ? OR LOWER(users.full_name) LIKE ? OR LOWER(users.email) LIKE ? OR users.phone LIKE ?",
			like, like, like, like,
		)
	}
	if q.IsActive != nil {
		query = query.Where("users.is_active = ?", *q.IsActive)
	}
	if q.RoleID != nil {
		query = query.Where(
			"users.default_role_id = ? OR EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = users.id AND ur.role_id = ? AND ur.is_active = ?)",
			*q.RoleID, *q.RoleID, true,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, "")
	}
	users := []models.User{}
	err := s.preload(query).
		Order("users.username asc").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&users).Error
	return users, total, dbError(err, "")
}

func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	user := models.User{
		Username:      strings.TrimSpace(req.Username),
		FullName:      req.FullName,
		Email:         normalizeEmail(req.Email),
		Phone:         req.Phone,
		Address:       req.Address,
		IsActive:      true,
		DefaultRoleID: req.DefaultRoleID,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	user.DateOfBirth = dob

	if err := validator.ValidateUser(&user); err != nil {
		return nil, err
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUnique(db, user.Username, user.Email, 0); err != nil {
		return nil, err
	}
	if err := s.ensureRole(db, user.DefaultRoleID); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, errors.Internal("Không thể mã hóa mật khẩu", err)
	}
	user.PasswordHash = hash

	if err := db.Create(&user).Error; err != nil {
		return nil, uniqueError(err)
	}
	s.logger.Info("Tạo user %s (id=%d)", user.Username, user.ID)
	return s.Get(ctx, user.ID)
}

// Update chỉ cập nhật các trường được gửi lên, mật khẩu đổi khi có giá trị mới
func (s *UserService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
		updates["username"] = user.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
		updates["full_name"] = user.FullName
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
		updates["email"] = user.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
		updates["phone"] = user.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
		updates["address"] = user.Address
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DefaultRoleID != nil {
		updates["default_role_id"] = *req.DefaultRoleID
	}

	if err := validator.ValidateUser(user); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUnique(db, user.Username, user.Email, id); err != nil {
		return nil, err
	}
	if err := s.ensureRole(db, req.DefaultRoleID); err != nil {
		return nil, err
	}
	if req.Password != nil && *req.Password != "" {
		if err := validator.ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, errors.Internal("Không thể mã hóa mật khẩu", err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, uniqueError(err)
		}
	}
	return s.Get(ctx, id)
}

// Delete xóa mềm user
func (s *UserService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_delete = ?", id, false).
		Updates(map[string]interface{}{"is_delete": true, "is_active": false})
	if res.Error != nil {
		return dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy người dùng", nil)
	}
	s.logger.Info("Xóa user id=%d", id)
	return nil
}

func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_delete = ?", id, false).
		Update("is_active", active)
	if res.Error != nil {
		return nil, dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil, errors.NewAppError(errors.ErrCodeUserNotFound, "Không tìm thấy người dùng", nil)
	}
	return s.Get(ctx, id)
}

func (s *UserService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles := []models.Role{}
	err := s.db.WithContext(ctx).Order("role_name asc").Find(&roles).Error
	return roles, dbError(err, "")
}

func (s *UserService) CreateRole(ctx context.Context, req dto.RoleRequest) (*models.Role, error) {
	role := models.Role{
		RoleName:    strings.TrimSpace(req.RoleName),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}
	if err := validator.ValidateRole(&role); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&role).Error; err != nil {
		if errors.HasCode(dbError(err, ""), errors.ErrCodeDBDuplicate) {
			return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Role đã tồn tại", nil)
		}
		return nil, dbError(err, "")
	}
	return &role, nil
}

// AssignRole gán role cho user. Gán lại role đã thu hồi sẽ kích hoạt lại bản ghi cũ.
func (s *UserService) AssignRole(ctx context.Context, userID, roleID uint, assignedBy *uint) (*models.UserRole, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureRole(db, &roleID); err != nil {
		return nil, err
	}

	ur := models.UserRole{
		UserID:       userID,
		RoleID:       roleID,
		AssignedBy:   assignedBy,
		AssignedDate: time.Now(),
		IsActive:     true,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_active", "assigned_by", "assigned_date"}),
	}).Create(&ur).Error
	if err != nil {
		return nil, dbError(err, "")
	}

	var saved models.UserRole
	if err := db.Preload("Role").Where("user_id = ? AND role_id = ?", userID, roleID).First(&saved).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy role của user")
	}
	s.logger.Info("Gán role %d cho user %d", roleID, userID)
	return &saved, nil
}

// RevokeRole thu hồi role (đánh dấu không hiệu lực)
func (s *UserService) RevokeRole(ctx context.Context, userID, roleID uint) error {
	res := s.db.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ? AND is_active = ?", userID, roleID, true).
		Update("is_active", false)
	if res.Error != nil {
		return dbError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("User không có role này")
	}
	s.logger.Info("Thu hồi role %d của user %d", roleID, userID)
	return nil
}

func (s *UserService) ensureUnique(db *gorm.DB, username string, email *string, excludeID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", username, excludeID).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count > 0 {
		return errors.NewAppError(errors.ErrCodeUserExists, "Tên đăng nhập đã được sử dụng", nil)
	}
	if email == nil {
		return nil
	}
	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", *email, excludeID).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count > 0 {
		return errors.NewAppError(errors.ErrCodeUserExists, "Email đã được sử dụng", nil)
	}
	return nil
}

func (s *UserService) ensureRole(db *gorm.DB, roleID *uint) error {
	if roleID == nil {
		return nil
	}
	var count int64
	if err := db.Model(&models.Role{}).Where("id = ? AND is_active = ?", *roleID, true).Count(&count).Error; err != nil {
		return dbError(err, "")
	}
	if count == 0 {
		return errors.NewAppError(errors.ErrCodeInvalidRole, "Role không tồn tại", nil)
	}
	return nil
}

func uniqueError(err error) error {
	if errors.HasCode(dbError(err, ""), errors.ErrCodeDBDuplicate) {
		return errors.NewAppError(errors.ErrCodeUserExists, "Tên đăng nhập hoặc email đã được sử dụng", nil)
	}
	return dbError(err, "")
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

// parseDate đọc ngày dạng yyyy-mm-dd, chuỗi rỗng trả về nil
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Ngày không đúng định dạng yyyy-mm-dd", err)
	}
	return &t, nil
}
