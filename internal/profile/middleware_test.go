package profile

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// setupSessionEnv 准备会话签发所需的最小环境：密钥、配置，
// 以及标记为不可用的Redis（此时中间件只信任签名）。
func setupSessionEnv(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Cfg = &config.Config{
		Auth: config.AuthConfig{SessionTTLHours: 1},
	}
	database.UpdateStatus(false, "")
	token.GenerateSecretKey()
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c))
	})
	return r
}

func getProtected(t *testing.T, r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSessionMissingCookie(t *testing.T) {
	setupSessionEnv(t)

	w := getProtected(t, protectedRouter(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie: got %d, want 401", w.Code)
	}
}

func TestRequireSessionTamperedToken(t *testing.T) {
	setupSessionEnv(t)

	signed, err := CreateSession("user-a")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	w := getProtected(t, protectedRouter(), signed+"x")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: got %d, want 401", w.Code)
	}
}

// Redis不可用时，签名合法的令牌必须放行：
// 已知用户核对与撤销检查都只在Redis可用时执行。
func TestRequireSessionTrustsSignatureWithoutRedis(t *testing.T) {
	setupSessionEnv(t)

	signed, err := CreateSession("user-a")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	w := getProtected(t, protectedRouter(), signed)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token without redis: got %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-a" {
		t.Fatalf("context user id: got %q, want %q", w.Body.String(), "user-a")
	}
}

func TestSessionRevocationDegradesWithoutRedis(t *testing.T) {
	setupSessionEnv(t)

	if isSessionRevoked("any-session-id") {
		t.Fatal("revocation must not trigger while redis is unavailable")
	}
}

func TestSessionCookieSecureFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		secure bool
		want   bool
	}{
		{secure: false, want: false},
		{secure: true, want: true},
	}
	for _, tc := range cases {
		config.Cfg = &config.Config{Auth: config.AuthConfig{CookieSecure: tc.secure}}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		setSessionCookie(c, "token-value", 60)

		header := w.Header().Get("Set-Cookie")
		if header == "" {
			t.Fatal("no Set-Cookie header written")
		}
		got := strings.Contains(header, "Secure")
		if got != tc.want {
			t.Fatalf("cookieSecure=%v: Secure attribute present=%v, header: %s", tc.secure, got, header)
		}
	}
}
