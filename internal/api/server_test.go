package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sesame-Disk/sesamefs/internal/config"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// createTestServer creates a minimal test server without database
func createTestServer() *Server {
	cfg := config.DefaultConfig()
	cfg.Auth.DevMode = true
	cfg.Auth.DevTokens = []config.DevTokenEntry{
		{Token: "test-token-123", UserID: "user-1", OrgID: "org-1"},
		{Token: "admin-token", UserID: "admin", OrgID: "org-1"},
	}

	return &Server{
		config:     cfg,
		db:         nil,
		blockStore: nil,
		router:     gin.New(),
	}
}

// TestHandlePing tests the ping endpoint
func TestHandlePing(t *testing.T) {
	s := createTestServer()
	s.router.GET("/ping", s.handlePing)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "pong" {
		t.Errorf("body = %q, want %q", w.Body.String(), "pong")
	}
}

// TestHandleHealth tests the health endpoint
func TestHandleHealth(t *testing.T) {
	s := createTestServer()
	s.router.GET("/health", s.handleHealth)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
}

// TestAuthMiddleware tests the authentication middleware
func TestAuthMiddleware(t *testing.T) {
	s := createTestServer()

	// Setup protected route
	s.router.GET("/protected", s.authMiddleware(), func(c *gin.Context) {
		userID := c.GetString("user_id")
		orgID := c.GetString("org_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "org_id": orgID})
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid Token format",
			authHeader: "Token test-token-123",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid Bearer format",
			authHeader: "Bearer test-token-123",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Token invalid-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid format",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "TokenWithoutSpace",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

// TestAuthMiddlewareSetsContext tests that auth middleware sets user context
func TestAuthMiddlewareSetsContext(t *testing.T) {
	s := createTestServer()

	var capturedUserID, capturedOrgID string

	s.router.GET("/check", s.authMiddleware(), func(c *gin.Context) {
		capturedUserID = c.GetString("user_id")
		capturedOrgID = c.GetString("org_id")
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/check", nil)
	req.Header.Set("Authorization", "Token test-token-123")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	if capturedUserID != "user-1" {
		t.Errorf("user_id = %s, want user-1", capturedUserID)
	}
	if capturedOrgID != "org-1" {
		t.Errorf("org_id = %s, want org-1", capturedOrgID)
	}
}

// TestHandleNotImplemented tests the not implemented handler
func TestHandleNotImplemented(t *testing.T) {
	s := createTestServer()
	s.router.GET("/not-implemented", s.handleNotImplemented)

	req, _ := http.NewRequest("GET", "/not-implemented", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotImplemented)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["error"] != "not implemented yet" {
		t.Errorf("error = %v, want 'not implemented yet'", response["error"])
	}
}

// TestSetupRoutesSkipsBlocksWithoutBlockStore verifies that the block
// route group is omitted entirely when no block store is configured,
// rather than registering handlers that would panic on a nil store.
func TestSetupRoutesSkipsBlocksWithoutBlockStore(t *testing.T) {
	s := createTestServer()
	s.setupRoutes()

	req, _ := http.NewRequest("POST", "/api/v2/blocks/upload", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d (route not registered without a block store)", w.Code, http.StatusNotFound)
	}
}
