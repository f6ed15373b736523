package services

import (
	"testing"
	"time"

	"bookingtour/errors"
	"bookingtour/types"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	info := types.UserInfo{UserID: 7, Username: "minh", Roles: []string{"Admin"}}

	token, expiresAt, err := svc.GenerateToken(info)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiresAt %v should be in the future", expiresAt)
	}

	got, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got.UserID != 7 || got.Username != "minh" || !got.HasAnyRole("Admin") {
		t.Errorf("ParseToken = %+v, want %+v", got, info)
	}
}

func TestParseTokenRejects(t *testing.T) {
	signer := NewTokenService("secret", time.Hour)
	valid, _, err := signer.GenerateToken(types.UserInfo{UserID: 1, Username: "a"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, _, err := expired.GenerateToken(types.UserInfo{UserID: 1, Username: "a"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	noUser, _, err := signer.GenerateToken(types.UserInfo{Username: "ghost"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name  string
		svc   *TokenService
		token string
	}{
		{"wrong secret", NewTokenService("other", time.Hour), valid},
		{"expired", signer, old},
		{"garbage", signer, "not-a-jwt"},
		{"missing user id", signer, noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ParseToken(tt.token)
			if !errors.HasCode(err, errors.ErrCodeInvalidToken) {
				t.Fatalf("err = %v, want INVALID_TOKEN", err)
			}
		})
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	_, _, err := NewTokenService("", time.Hour).GenerateToken(types.UserInfo{UserID: 1})
	if err == nil {
		t.Fatal("expected error when secret is empty")
	}
}
