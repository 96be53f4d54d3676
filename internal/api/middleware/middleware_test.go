package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/jwt"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-2026",
		Issuer:         "kubhub-identity",
		AccessTokenTTL: 15 * time.Minute,
	})
}

// ═══════════════════════════════════════════════════════════
// JWTAuth / RoleAuth
// ═══════════════════════════════════════════════════════════

func newAuthRouter(mgr *jwt.Manager, roles ...string) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{JWTAuth(mgr, nil)}
	if len(roles) > 0 {
		chain = append(chain, RoleAuth(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	r.GET("/protected", chain...)
	return r
}

func TestJWTAuth(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("coord-1", jwt.RoleCoordinator)
	if err != nil {
		t.Fatalf("签发 token 失败: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少认证头", "", http.StatusUnauthorized},
		{"格式无效", "Token " + token, http.StatusUnauthorized},
		{"签名无效", "Bearer not-a-token", http.StatusUnauthorized},
		{"合法 token", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			newAuthRouter(mgr).ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
			if tc.want == http.StatusOK && w.Body.String() != "coord-1" {
				t.Errorf("期望注入 user_id=coord-1，实际 %q", w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	mgr := newTestJWT()

	cases := []struct {
		role string
		want int
	}{
		{jwt.RoleAdmin, http.StatusOK},
		{jwt.RoleCoordinator, http.StatusOK},
		{jwt.RoleTeacher, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			token, _ := mgr.GenerateAccessToken("u-1", tc.role)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			newAuthRouter(mgr, jwt.RoleAdmin, jwt.RoleCoordinator).ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// RequestID
// ═══════════════════════════════════════════════════════════

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("沿用上游 ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Request-ID", "gw-123")
		r.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "gw-123" {
			t.Errorf("期望 gw-123，实际 %s", got)
		}
	})

	t.Run("过长时重新生成", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
		r.ServeHTTP(w, req)

		got := w.Header().Get("X-Request-ID")
		if len(got) != 36 {
			t.Errorf("期望生成 UUID，实际 %q", got)
		}
		if w.Body.String() != got {
			t.Errorf("上下文与响应头不一致: %q vs %q", w.Body.String(), got)
		}
	})
}

// ═══════════════════════════════════════════════════════════
// BodyLimit
// ═══════════════════════════════════════════════════════════

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Error(err)
			return
		}
		c.String(http.StatusOK, string(b))
	})

	t.Run("未超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader("small")))
		if w.Code != http.StatusOK {
			t.Errorf("期望 200，实际 %d", w.Code)
		}
	})

	t.Run("超限", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader(strings.Repeat("a", 64))))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("期望 413，实际 %d", w.Code)
		}
	})
}

// ═══════════════════════════════════════════════════════════
// CORS / RateLimit
// ═══════════════════════════════════════════════════════════

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("期望 204，实际 %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("期望回显 Origin，实际 %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("应暴露 Content-Disposition，实际 %q", got)
	}
}

func TestRateLimit_NilClientPasses(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute))
	r.POST("/x", func(c *gin.Context) { response.NoContent(c) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/x", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("第 %d 次请求期望 204，实际 %d", i+1, w.Code)
		}
	}
}
