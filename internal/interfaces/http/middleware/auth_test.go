package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/infrastructure/auth"
	"github.com/shopx/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "backoffice-test",
	})
}

func newTestUser(t *testing.T, role identity.AdminRole) *identity.User {
	t.Helper()
	user, err := identity.NewUser("testadmin", "sup3rs3cret!", role)
	require.NoError(t, err)
	return user
}

func authRouter(jwtService *auth.JWTService, blacklist *auth.InMemoryTokenBlacklist, guards ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	chain := append([]gin.HandlerFunc{Authenticated(jwtService, blacklist, zap.NewNop())}, guards...)
	router.GET("/protected", append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(AuthUserIDKey)})
	})...)
	return router
}

func TestAuthenticated(t *testing.T) {
	jwtService := newTestJWTService(time.Minute)
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := authRouter(jwtService, blacklist)

	t.Run("accepts a valid token", func(t *testing.T) {
		pair, err := jwtService.Issue(newTestUser(t, identity.AdminRoleOperator))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		shortLived := newTestJWTService(-time.Minute)
		pair, err := shortLived.Issue(newTestUser(t, identity.AdminRoleOperator))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		authRouter(shortLived, blacklist).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		pair, err := jwtService.Issue(newTestUser(t, identity.AdminRoleOperator))
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(context.Background(), pair.TokenID, time.Minute))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "revoked")
	})
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWTService(time.Minute)
	blacklist := auth.NewInMemoryTokenBlacklist()

	issue := func(t *testing.T, role identity.AdminRole) string {
		pair, err := jwtService.Issue(newTestUser(t, role))
		require.NoError(t, err)
		return pair.AccessToken
	}

	router := authRouter(jwtService, blacklist, RequireRole(identity.AdminRoleFinance))

	request := func(token string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("listed role passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(issue(t, identity.AdminRoleFinance)).Code)
	})

	t.Run("admin always passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(issue(t, identity.AdminRoleAdmin)).Code)
	})

	t.Run("other roles are forbidden", func(t *testing.T) {
		rec := request(issue(t, identity.AdminRoleViewer))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
	})
}
