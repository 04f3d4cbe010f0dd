package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/ledger"
)

type fakeUsers struct {
	user core.User
	err  error
}

func (f fakeUsers) FirstUser(context.Context) (core.User, error) {
	return f.user, f.err
}

func TestHashPasscode(t *testing.T) {
	// sha256("1234")
	const want = "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4"
	if got := HashPasscode("1234"); got != want {
		t.Errorf("HashPasscode(1234) = %q, want %q", got, want)
	}
}

func TestVerifyPasscode(t *testing.T) {
	hash := HashPasscode("1234")
	if !VerifyPasscode("1234", hash) {
		t.Error("correct passcode rejected")
	}
	if VerifyPasscode("4321", hash) {
		t.Error("wrong passcode accepted")
	}
}

func TestLogin(t *testing.T) {
	user := core.User{ID: 1, PasscodeHash: HashPasscode("1234")}

	tests := []struct {
		name     string
		users    fakeUsers
		passcode string
		wantErr  error
	}{
		{"success", fakeUsers{user: user}, "1234", nil},
		{"too short", fakeUsers{user: user}, "123", ErrPasscodeFormat},
		{"too long", fakeUsers{user: user}, "12345", ErrPasscodeFormat},
		{"non-digit", fakeUsers{user: user}, "12ab", ErrPasscodeFormat},
		{"empty", fakeUsers{user: user}, "", ErrPasscodeFormat},
		{"wrong passcode", fakeUsers{user: user}, "9999", ErrWrongPasscode},
		{"no user provisioned", fakeUsers{err: ledger.ErrNotFound}, "1234", ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.users)
			session, err := svc.Login(context.Background(), tt.passcode)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && session.UserID != user.ID {
				t.Errorf("session userId = %d, want %d", session.UserID, user.ID)
			}
		})
	}
}

func TestLoginSessionTimestamp(t *testing.T) {
	svc := NewService(fakeUsers{user: core.User{ID: 1, PasscodeHash: HashPasscode("1234")}})
	fixed := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	session, err := svc.Login(context.Background(), "1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Timestamp != fixed.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", session.Timestamp, fixed.UnixMilli())
	}
}

func TestLoginStoreFailure(t *testing.T) {
	svc := NewService(fakeUsers{err: errors.New("db down")})
	_, err := svc.Login(context.Background(), "1234")
	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want wrapped store failure", err)
	}
}
