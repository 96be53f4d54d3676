package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/config"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/api/handler"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/repository"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/service"
	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/jwt"
)

func init() {
	if err := handler.RegisterValidators(); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret-2026",
			Issuer:         "kubhub-identity",
			AccessTokenTTL: 15 * time.Minute,
			RateLimit:      60,
			RateWindow:     time.Minute,
		},
		Schedule: config.ScheduleConfig{SyncInterval: time.Second},
		Database: config.DatabaseConfig{Timezone: "UTC"},
	}
}

// setupRouter 只命中不访问数据库的路由，Repository 留空即可
func setupRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := testConfig()
	engine := scheduling.NewEngine(false)
	svc := service.NewService(cfg, &repository.Repository{}, engine, nil, nil, zap.NewNop())
	h := handler.NewHandler(svc, nil)
	mgr := jwt.NewManager(&cfg.Auth)
	return Setup(cfg, h, mgr, nil, zap.NewNop()), mgr
}

func do(r http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应带 X-Request-ID")
	}
}

func TestAPIRequiresToken(t *testing.T) {
	r, _ := setupRouter(t)

	if w := do(r, "GET", "/api/v1/time-slots", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

func TestTeacherCanReadButNotWrite(t *testing.T) {
	r, mgr := setupRouter(t)
	token, _ := mgr.GenerateAccessToken("t-1", jwt.RoleTeacher)

	if w := do(r, "GET", "/api/v1/time-slots", token, nil); w.Code != http.StatusOK {
		t.Errorf("读接口期望 200，实际 %d", w.Code)
	}
	if w := do(r, "POST", "/api/v1/courses", token, []byte(`{"name":"Panificação","code":"PAN-1"}`)); w.Code != http.StatusForbidden {
		t.Errorf("写接口期望 403，实际 %d", w.Code)
	}
}

func TestCoordinatorCreatesCourse(t *testing.T) {
	r, mgr := setupRouter(t)
	token, _ := mgr.GenerateAccessToken("c-1", jwt.RoleCoordinator)

	w := do(r, "POST", "/api/v1/courses", token, []byte(`{"name":"Panificação","code":"PAN-1"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}

	// 试算接口与 /sections/:id 共存
	w = do(r, "POST", "/api/v1/sections/check", token, []byte(`{"schedule":[{"room_id":999,"weekday":"MONDAY","block":1}]}`))
	if w.Code != http.StatusNotFound {
		t.Errorf("未知教室期望 404，实际 %d", w.Code)
	}
}
