package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/TheFahmi/Laundry-Systems-sub005/middleware"
	"github.com/TheFahmi/Laundry-Systems-sub005/models"
	"github.com/TheFahmi/Laundry-Systems-sub005/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB installs a fresh migrated database as the global connection
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestDB(t)
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })
	return db
}

// staffRouter authenticates every request as a registered user with the given role
func staffRouter(t *testing.T, db *gorm.DB, auth0ID, role string) (*gin.Engine, models.User) {
	t.Helper()
	user := testutil.CreateStaff(t, db, auth0ID, role)
	router := gin.New()
	router.Use(testutil.MockAuthMiddleware(auth0ID, role), middleware.RequireRegisteredUser())
	return router, user
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Size  int   `json:"size"`
	} `json:"pagination"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decode(t, w, nil)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "body: %s", w.Body.String())
	return env.Error.Code
}
