package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TheFahmi/Laundry-Systems-sub005/config"
	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys filled by EnsureValidToken
const (
	ContextUserID      = "user_id"
	ContextAccessToken = "access_token"
	ContextClaims      = "validated_claims"
)

const (
	jwksCacheTTL   = 5 * time.Minute
	allowedSkew    = time.Minute
	tokenRejection = `{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`
)

// CustomClaims carries the laundry role namespaced claim set by the Auth0 login action
type CustomClaims struct {
	Role string `json:"https://laundry.app/role"`
}

// Validate accepts any role; unknown roles are treated as staff on registration
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken builds the middleware that validates Auth0 RS256 access tokens
// and exposes the subject, raw token and claims on the gin context.
func EnsureValidToken(cfg *config.Config, logger *zap.Logger) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, err
	}

	jwtValidator, err := validator.New(
		jwks.NewCachingProvider(issuerURL, jwksCacheTTL).KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &CustomClaims{} }),
		validator.WithAllowedClockSkew(allowedSkew),
	)
	if err != nil {
		return nil, err
	}

	checker := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Debug("Rejected JWT", zap.String("path", r.URL.Path), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if _, writeErr := w.Write([]byte(tokenRejection)); writeErr != nil {
				logger.Warn("Failed to write token rejection", zap.Error(writeErr))
			}
		}),
	)

	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			c.Set(ContextUserID, claims.RegisteredClaims.Subject)
			c.Set(ContextClaims, claims)
			c.Set(ContextAccessToken, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

			c.Request = r
			c.Next()
		})

		checker.CheckJWT(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			// the error handler already wrote the response
			c.Abort()
		}
	}, nil
}

// contextValue reads a typed value set by the auth middleware
func contextValue[T any](c *gin.Context, key, missingCode, invalidCode string) (T, error) {
	var zero T
	raw, exists := c.Get(key)
	if !exists {
		return zero, &AuthError{Code: missingCode, Message: key + " not found in context"}
	}
	value, ok := raw.(T)
	if !ok {
		return zero, &AuthError{Code: invalidCode, Message: key + " has an unexpected type"}
	}
	return value, nil
}

// GetUserID returns the Auth0 subject of the validated token
func GetUserID(c *gin.Context) (string, error) {
	return contextValue[string](c, ContextUserID, "MISSING_USER_ID", "INVALID_USER_ID")
}

// GetAccessToken returns the raw bearer token, used to call Auth0 /userinfo
func GetAccessToken(c *gin.Context) (string, error) {
	token, err := contextValue[string](c, ContextAccessToken, "MISSING_TOKEN", "INVALID_TOKEN")
	if err == nil && token == "" {
		return "", &AuthError{Code: "INVALID_TOKEN", Message: "Access token is empty"}
	}
	return token, err
}

// GetClaims returns the validated JWT claims
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	return contextValue[*validator.ValidatedClaims](c, ContextClaims, "MISSING_CLAIMS", "INVALID_CLAIMS")
}

// GetRoleClaim returns the role carried by the token, or "" when absent
func GetRoleClaim(c *gin.Context) string {
	claims, err := GetClaims(c)
	if err != nil {
		return ""
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom.Role
	}
	return ""
}

// AuthError represents a missing or malformed authentication value
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
