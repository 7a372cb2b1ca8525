package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/TheFahmi/Laundry-Systems-sub005/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testRouter builds the full router with auth replaced by a fixed caller
func testRouter(t *testing.T, auth gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })

	cfg := &config.Config{GoEnv: "test", CORSAllowedOrigins: []string{"http://localhost:3000"}}
	return setupRouter(cfg, zap.NewNop(), auth)
}

func rejectAll(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false})
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := testRouter(t, rejectAll)

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Laundry API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := testRouter(t, rejectAll)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		req, _ := http.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	router := testRouter(t, rejectAll)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t, rejectAll)

	routes := [][2]string{
		{"GET", "/api/v1/database/status"},
		{"POST", "/api/v1/users"},
		{"GET", "/api/v1/orders"},
		{"GET", "/api/v1/queue"},
		{"POST", "/api/v1/work-orders"},
		{"POST", "/api/v1/work-order-steps/abc/complete"},
	}
	for _, r := range routes {
		req, _ := http.NewRequest(r[0], r[1], nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r[0], r[1])
	}
}

func TestDatabaseStatus(t *testing.T) {
	router := testRouter(t, testutil.MockAuthMiddleware("auth0|status", models.RoleStaff))

	req, _ := http.NewRequest("GET", "/api/v1/database/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Greater(t, response["schema_version"], float64(0))
}

func TestUnregisteredCallerIsRejected(t *testing.T) {
	router := testRouter(t, testutil.MockAuthMiddleware("auth0|stranger", models.RoleStaff))

	req, _ := http.NewRequest("GET", "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")
}

func TestAdminRoutesRejectStaff(t *testing.T) {
	router := testRouter(t, testutil.MockAuthMiddleware("auth0|staff", models.RoleStaff))
	testutil.CreateStaff(t, config.GetDB(), "auth0|staff", models.RoleStaff)

	routes := [][2]string{
		{"PUT", "/api/v1/queue/reorder"},
		{"DELETE", "/api/v1/queue/some-slot"},
		{"POST", "/api/v1/work-orders/some-wo/cancel"},
	}
	for _, r := range routes {
		req, _ := http.NewRequest(r[0], r[1], nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", r[0], r[1])
	}
}
