package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"communityhub/pkg/rbac"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString("user_id"),
			"network_id": c.GetString("network_id"),
			"role":       c.GetString("role"),
		})
	})
	r.GET("/whoami", handlers...)
	return r
}

func doAuthRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := authTestRouter()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{
			"missing network claim",
			"Bearer " + signToken(t, jwt.MapClaims{"user_id": "u-1"}),
			http.StatusUnauthorized,
		},
		{
			"valid token",
			"Bearer " + signToken(t, jwt.MapClaims{"user_id": "u-1", "network_id": "net-1", "role": "admin"}),
			http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(r, tt.authHeader)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	r := authTestRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    "u-1",
		"network_id": "net-1",
	})
	signed, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if w := doAuthRequest(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsUnexpectedSigningMethod(t *testing.T) {
	r := authTestRouter()

	// Correctly signed with the shared secret, but not HS256.
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"user_id":    "u-1",
		"network_id": "net-1",
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if w := doAuthRequest(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareDefaultsRoleToMember(t *testing.T) {
	r := authTestRouter()

	token := signToken(t, jwt.MapClaims{"user_id": "u-1", "network_id": "net-1"})
	w := doAuthRequest(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"role":"member"`) {
		t.Errorf("expected role defaulted to member, body %s", body)
	}
}

func TestRequirePermission(t *testing.T) {
	r := authTestRouter(RequirePermission(rbac.PermissionReadHistory))

	adminToken := signToken(t, jwt.MapClaims{"user_id": "u-1", "network_id": "net-1", "role": "admin"})
	if w := doAuthRequest(r, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}

	memberToken := signToken(t, jwt.MapClaims{"user_id": "u-2", "network_id": "net-1", "role": "member"})
	if w := doAuthRequest(r, "Bearer "+memberToken); w.Code != http.StatusForbidden {
		t.Errorf("member status = %d, want 403", w.Code)
	}
}
