package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"go.uber.org/zap"
)

// maxUserInfoBody caps how much of an Auth0 response is read
const maxUserInfoBody = 64 << 10

// Auth0UserInfo is the subset of the /userinfo profile used to register staff
type Auth0UserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth0Service calls the Auth0 authentication API on behalf of a signed-in staff member
type Auth0Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuth0Service builds a client for cfg.Auth0Domain. A domain that already
// carries a scheme is used as is, which lets tests point it at httptest servers.
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	base := strings.TrimSuffix(cfg.Auth0Domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return &Auth0Service{
		baseURL:    base,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUserInfo exchanges the caller's access token for their Auth0 profile
func (s *Auth0Service) GetUserInfo(ctx context.Context, accessToken string) (*Auth0UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			config.GetLogger().Warn("Failed to close userinfo response", zap.Error(closeErr))
		}
	}()

	body := io.LimitReader(resp.Body, maxUserInfoBody)
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var info Auth0UserInfo
	if err := json.NewDecoder(body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &info, nil
}
