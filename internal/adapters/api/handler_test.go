package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ipwatch/internal/adapters/api/middleware"
	"ipwatch/internal/adapters/db/memory"
	appmonitor "ipwatch/internal/application/monitor"
	"ipwatch/internal/config"
	"ipwatch/internal/domain/metrics"
	"ipwatch/internal/domain/monitor"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type recordingSink struct {
	batches []metrics.Batch
}

func (s *recordingSink) Publish(ctx context.Context, batch metrics.Batch) error {
	s.batches = append(s.batches, batch)
	return nil
}

func setupRouter(t *testing.T, authCfg *config.AuthConfig) (*gin.Engine, *recordingSink, *appmonitor.SnapshotStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	repo := memory.NewInventoryRepository(ctx)
	if err := repo.CreateNetwork(ctx, "vpc-1", "test", "10.0.0.0/16"); err != nil {
		t.Fatalf("CreateNetwork: %v", err)
	}
	sn, err := repo.AddSubnet(ctx, "vpc-1", "a", "10.0.0.0/24")
	if err != nil {
		t.Fatalf("AddSubnet: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := repo.AttachInterface(ctx, "vpc-1", sn.ID); err != nil {
			t.Fatalf("AttachInterface: %v", err)
		}
	}

	sink := &recordingSink{}
	collector := appmonitor.NewService(repo, sink, "", time.Second, time.Second)
	store := appmonitor.NewSnapshotStore()
	handler := NewHandler(collector, store)

	if authCfg == nil {
		authCfg = &config.AuthConfig{Enabled: false}
	}
	r := gin.New()
	handler.RegisterRoutes(r, middleware.AuthMiddleware(authCfg))
	return r, sink, store
}

func TestGetUtilization(t *testing.T) {
	r, sink, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var snap monitor.UtilizationSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.TotalIPs != 256 || snap.UsedIPs != 4 || snap.AvailableIPs != 252 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(sink.batches) != 1 {
		t.Errorf("expected one publish, got %d", len(sink.batches))
	}
}

func TestGetUtilization_UnknownNetwork(t *testing.T) {
	r, sink, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-missing/utilization", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if len(sink.batches) != 0 {
		t.Errorf("nothing may be published for an unknown network")
	}
}

func TestGetLatestUtilization(t *testing.T) {
	r, _, store := setupRouter(t, nil)

	// Nothing collected yet.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization/latest", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 before first pass", w.Code)
	}

	store.Put(&monitor.UtilizationSnapshot{RunID: "run-1", NetworkID: "vpc-1", TotalIPs: 256})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization/latest", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var snap monitor.UtilizationSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", snap.RunID)
	}
}

func TestHealth(t *testing.T) {
	r, _, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestAuth_RejectsMissingAndBadTokens(t *testing.T) {
	authCfg := &config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	r, _, _ := setupRouter(t, authCfg)

	// Missing header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without token", w.Code)
	}

	// Token signed with the wrong secret
	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ops"})
	badToken, err := bad.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization", nil)
	req.Header.Set("Authorization", "Bearer "+badToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 with bad signature", w.Code)
	}
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	authCfg := &config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	r, _, _ := setupRouter(t, authCfg)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/networks/vpc-1/utilization", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Health stays open regardless of auth.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
}
