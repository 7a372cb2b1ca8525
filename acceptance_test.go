package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerStartup verifies the router can be built and served
func TestServerStartup(t *testing.T) {
	router := testRouter(t, rejectAll)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance issues a real HTTP request against a running server
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	server := httptest.NewServer(testRouter(t, rejectAll))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, "Laundry API is running", response.Message)
}

// TestCORSPreflight checks that a configured origin passes preflight
func TestCORSPreflight(t *testing.T) {
	server := httptest.NewServer(testRouter(t, rejectAll))
	defer server.Close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/v1/orders", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
