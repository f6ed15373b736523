package services

import (
	"time"

	"bookingtour/errors"
	"bookingtour/types"

	"github.com/dgrijalva/jwt-go"
)

// Claims payload của access token
type Claims struct {
	UserInfo types.UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// TokenService ký và kiểm tra JWT (HS256)
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken tạo access token chứa thông tin user
func (s *TokenService) GenerateToken(info types.UserInfo) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Chưa cấu hình JWT_SECRET", nil)
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserInfo: info,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
			Issuer:    "bookingtour",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Không thể tạo token", err)
	}
	return signed, expiresAt, nil
}

// ParseToken kiểm tra chữ ký, hạn dùng và trả về thông tin user
func (s *TokenService) ParseToken(tokenString string) (types.UserInfo, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Thuật toán ký không hợp lệ", nil)
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return types.UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Token không hợp lệ", err)
	}
	if claims.UserInfo.UserID == 0 {
		return types.UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Không tìm thấy thông tin user trong token", nil)
	}
	return claims.UserInfo, nil
}
