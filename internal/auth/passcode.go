// Package auth implements the single-user passcode login. The passcode is
// a 4-digit PIN stored as a SHA-256 hex digest; there is exactly one
// provisioned user and no session persistence, the client keeps the
// returned session object.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

var (
	ErrPasscodeFormat = errors.New("パスコードは4桁の数字で入力してください")
	ErrUserNotFound   = errors.New("ユーザーが見つかりません")
	ErrWrongPasscode  = errors.New("パスコードが間違っています")
)

var passcodeRE = regexp.MustCompile(`^\d{4}$`)

// HashPasscode returns the SHA-256 hex digest of the passcode.
func HashPasscode(passcode string) string {
	sum := sha256.Sum256([]byte(passcode))
	return hex.EncodeToString(sum[:])
}

// VerifyPasscode compares a cleartext passcode against a stored digest in
// constant time.
func VerifyPasscode(passcode, hash string) bool {
	digest := HashPasscode(passcode)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1
}

// Session is what a successful login returns. Timestamp is Unix
// milliseconds at login time.
type Session struct {
	UserID    int64 `json:"userId"`
	Timestamp int64 `json:"timestamp"`
}

// UserSource is the slice of the store the login flow needs.
type UserSource interface {
	FirstUser(ctx context.Context) (core.User, error)
}

// Service checks passcodes against the provisioned user.
type Service struct {
	users UserSource
	now   func() time.Time
}

func NewService(users UserSource) *Service {
	return &Service{users: users, now: time.Now}
}

// Login validates the passcode format, loads the provisioned user and
// verifies the passcode against its stored hash.
func (s *Service) Login(ctx context.Context, passcode string) (Session, error) {
	if !passcodeRE.MatchString(passcode) {
		return Session{}, ErrPasscodeFormat
	}

	user, err := s.users.FirstUser(ctx)
	if errors.Is(err, ledger.ErrNotFound) {
		return Session{}, ErrUserNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	if !VerifyPasscode(passcode, user.PasscodeHash) {
		return Session{}, ErrWrongPasscode
	}

	return Session{UserID: user.ID, Timestamp: s.now().UnixMilli()}, nil
}
