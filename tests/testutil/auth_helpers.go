package testutil

import (
	"github.com/TheFahmi/Laundry-Systems-sub005/middleware"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims returns claims as Auth0 would issue them for subject
func MockValidatedClaims(subject, role string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{Role: role},
	}
}

// MockAuthMiddleware stands in for EnsureValidToken, filling the same context keys
func MockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, auth0ID)
		c.Set(middleware.ContextAccessToken, "mock-token")
		c.Set(middleware.ContextClaims, MockValidatedClaims(auth0ID, role))
		c.Next()
	}
}
