package services

import (
	"context"
	"strings"
	"time"

	"bookingtour/constants"
	"bookingtour/dto"
	"bookingtour/errors"
	"bookingtour/models"
	"bookingtour/services/logger"
	"bookingtour/types"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*dto.LoginResponse, error)
}

// GoogleVerifier kiểm tra id token Google, mặc định là idtoken.Validate
type GoogleVerifier func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthService struct {
	db             *gorm.DB
	tokens         *TokenService
	logger         logger.Logger
	googleClientID string
	verify         GoogleVerifier
}

type AuthServiceOptions struct {
	DB             *gorm.DB
	Tokens         *TokenService
	Logger         logger.Logger
	GoogleClientID string
	Verifier       GoogleVerifier
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		db:             opts.DB,
		tokens:         opts.Tokens,
		logger:         opts.Logger,
		googleClientID: opts.GoogleClientID,
		verify:         opts.Verifier,
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.verify == nil {
		s.verify = idtoken.Validate
	}
	return s
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword so sánh mật khẩu với hash bcrypt
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var user models.User
	err := s.withRoles(s.db.WithContext(ctx)).
		Where("username = ? AND is_delete = ?", strings.TrimSpace(username), false).
		First(&user).Error
	if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidPassword, "Sai tên đăng nhập hoặc mật khẩu", nil)
	}
	if err != nil {
		return nil, dbError(err, "")
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidPassword, "Sai tên đăng nhập hoặc mật khẩu", nil)
	}
	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrCodeForbidden, "Tài khoản đã bị khóa", nil)
	}

	s.logger.Info("User %s đăng nhập", user.Username)
	return s.issue(&user)
}

// GoogleLogin đăng nhập bằng id token Google, tạo user mới nếu email chưa tồn tại
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	if s.googleClientID == "" {
		return nil, errors.NewAppError(errors.ErrCodeUpstream, "Chưa cấu hình GOOGLE_CLIENT_ID", nil)
	}
	payload, err := s.verify(ctx, idToken, s.googleClientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token Google không hợp lệ", err)
	}
	gu := googleUserFromClaims(payload.Claims)
	if gu.Email == "" {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Token Google không chứa email", nil)
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err = s.withRoles(db).Where("email = ?", gu.Email).First(&user).Error
	switch {
	case pkgerrors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.createGoogleUser(ctx, db, gu)
		if err != nil {
			return nil, err
		}
		user = *created
	case err != nil:
		return nil, dbError(err, "")
	}

	if user.IsDelete || !user.IsActive {
		return nil, errors.NewAppError(errors.ErrCodeForbidden, "Tài khoản đã bị khóa", nil)
	}
	return s.issue(&user)
}

func (s *AuthService) createGoogleUser(ctx context.Context, db *gorm.DB, gu dto.GoogleUser) (*models.User, error) {
	email := gu.Email
	user := models.User{
		Username: usernameFromEmail(email),
		FullName: gu.Name,
		Email:    &email,
		Avatar:   gu.Picture,
		IsActive: true,
	}
	var role models.Role
	if err := db.Where("role_name = ?", constants.RoleCustomer).First(&role).Error; err == nil {
		user.DefaultRoleID = &role.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			user.Username = user.Username + "_" + time.Now().Format("150405")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	s.logger.Info("Tạo user Google %s (id=%d)", user.Username, user.ID)
	var loaded models.User
	if err := s.withRoles(db).First(&loaded, user.ID).Error; err != nil {
		return nil, dbError(err, "Không tìm thấy user")
	}
	return &loaded, nil
}

func (s *AuthService) issue(user *models.User) (*dto.LoginResponse, error) {
	token, expiresAt, err := s.tokens.GenerateToken(types.UserInfo{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.NewUserResponse(*user),
	}, nil
}

func (s *AuthService) withRoles(db *gorm.DB) *gorm.DB {
	return db.Preload("DefaultRole").Preload("UserRoles", "is_active = ?", true).Preload("UserRoles.Role")
}

func googleUserFromClaims(claims map[string]interface{}) dto.GoogleUser {
	var gu dto.GoogleUser
	gu.Email, _ = claims["email"].(string)
	gu.Name, _ = claims["name"].(string)
	gu.Picture, _ = claims["picture"].(string)
	gu.VerifiedEmail, _ = claims["email_verified"].(bool)
	return gu
}

// usernameFromEmail lấy phần trước @ và bỏ ký tự không hợp lệ
func usernameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	for len(name) < 3 {
		name += "_"
	}
	if len(name) > 40 {
		name = name[:40]
	}
	return name
}
