package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jsun2020/xiaohongshuarticleextrator-sub000/internal/modules/auth"
)

func TestPasswordRoundTrip(t *testing.T) {
	m := auth.New("test-secret", time.Hour)

	hash, err := m.HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in the clear")
	}

	if !m.CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if m.CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := auth.New("test-secret", time.Hour)

	token := m.IssueToken(42)
	userID, err := m.VerifyToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 {
		t.Fatalf("user id - want: 42, got: %d", userID)
	}
}

func TestTokenExpiry(t *testing.T) {
	m := auth.New("test-secret", -time.Minute)

	_, err := m.VerifyToken(m.IssueToken(42))
	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got: %v", err)
	}
}

func TestTokenTamperRejected(t *testing.T) {
	m := auth.New("test-secret", time.Hour)
	token := m.IssueToken(42)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"missing signature", strings.Split(token, ".")[0]},
		{"flipped payload", "x" + token},
		{"wrong secret", auth.New("other-secret", time.Hour).IssueToken(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.VerifyToken(tt.token); !errors.Is(err, auth.ErrInvalidToken) {
				t.Fatalf("want ErrInvalidToken, got: %v", err)
			}
		})
	}
}
