package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrTokenExpired   = errors.New("session expired")
	ErrBadCredentials = errors.New("wrong username or password")
)

// Manager issues and validates signed session tokens and hashes
// passwords. The secret is supplied by configuration; there is no
// package-level state.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (m *Manager) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken returns "<base64(userID:expiry)>.<hex(hmac-sha256)>".
func (m *Manager) IssueToken(userID int64) string {
	payload := fmt.Sprintf("%d:%d", userID, time.Now().Add(m.ttl).Unix())
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + m.sign(encoded)
}

func (m *Manager) VerifyToken(token string) (int64, error) {
	encoded, signature, found := strings.Cut(token, ".")
	if !found {
		return 0, ErrInvalidToken
	}
	if !hmac.Equal([]byte(m.sign(encoded)), []byte(signature)) {
		return 0, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, ErrInvalidToken
	}

	idPart, expiryPart, found := strings.Cut(string(payload), ":")
	if !found {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if time.Now().Unix() > expiry {
		return 0, ErrTokenExpired
	}

	return userID, nil
}

func (m *Manager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
