package profile

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/pkg/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// setupTestDB 把全局数据库替换为一个独立的内存SQLite实例。
// Redis标记为不可用，会话登记与档案缓存因此都是空操作。
func setupTestDB(t *testing.T) {
	t.Helper()

	config.Cfg = &config.Config{
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost, SessionTTLHours: 1},
	}
	database.UpdateStatus(false, "")

	dsn := fmt.Sprintf("file:profile_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&Profile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func mustRegister(t *testing.T, username, email, password string) *Profile {
	t.Helper()
	p, err := Register(username, email, password, "")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return p
}

func TestRegisterAndAuthenticate(t *testing.T) {
	setupTestDB(t)

	created := mustRegister(t, "ahmad", "Ahmad@Example.com", "secret1")
	if created.ID == "" {
		t.Fatal("registered profile must have an ID")
	}
	if created.Email != "ahmad@example.com" {
		t.Fatalf("email must be lowercased, got %q", created.Email)
	}
	if created.DisplayName != "ahmad" {
		t.Fatalf("empty displayName must fall back to username, got %q", created.DisplayName)
	}
	if created.PasswordHash == "secret1" {
		t.Fatal("password must not be stored in plaintext")
	}

	// 用户名和邮箱都可以作为登录标识
	byName, err := Authenticate("ahmad", "secret1")
	if err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("authenticate returned wrong profile: %s", byName.ID)
	}
	byEmail, err := Authenticate("Ahmad@Example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("authenticate returned wrong profile: %s", byEmail.ID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	setupTestDB(t)
	mustRegister(t, "ahmad", "ahmad@example.com", "secret1")

	// 密码错误和账号不存在必须返回同一个错误
	if _, err := Authenticate("ahmad", "wrong-password"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := Authenticate("nobody", "secret1"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	mustRegister(t, "ahmad", "ahmad@example.com", "secret1")

	if _, err := Register("ahmad", "other@example.com", "secret2", ""); err != ErrAccountExists {
		t.Fatalf("duplicate username: expected ErrAccountExists, got %v", err)
	}
	if _, err := Register("other", "ahmad@example.com", "secret2", ""); err != ErrAccountExists {
		t.Fatalf("duplicate email: expected ErrAccountExists, got %v", err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@example.com", "secret1"},
		{"blank username", "   ", "a@example.com", "secret1"},
		{"empty email", "ahmad", "", "secret1"},
		{"short password", "ahmad", "a@example.com", "12345"},
	}
	for _, tc := range cases {
		if _, err := Register(tc.username, tc.email, tc.password, ""); err != ErrInvalidInput {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestGetProfileByIDMissing(t *testing.T) {
	setupTestDB(t)

	p, err := GetProfileByID("no-such-id")
	if err != nil {
		t.Fatalf("missing profile must not be an error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil profile, got %+v", p)
	}
}

func TestSessionLifecycle(t *testing.T) {
	setupTestDB(t)
	token.GenerateSecretKey()

	created := mustRegister(t, "ahmad", "ahmad@example.com", "secret1")

	signed, err := CreateSession(created.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	payload, err := ValidateSession(signed)
	if err != nil {
		t.Fatalf("validate session: %v", err)
	}
	if payload.UserID != created.ID {
		t.Fatalf("session user: got %s, want %s", payload.UserID, created.ID)
	}

	if _, err := ValidateSession(signed + "x"); err == nil {
		t.Fatal("tampered token must not validate")
	}
}

func TestProfileNameFallback(t *testing.T) {
	p := Profile{Username: "ahmad"}
	if p.Name() != "ahmad" {
		t.Fatalf("Name must fall back to username, got %q", p.Name())
	}
	p.DisplayName = "Ahmad K."
	if p.Name() != "Ahmad K." {
		t.Fatalf("Name must prefer displayName, got %q", p.Name())
	}
}
