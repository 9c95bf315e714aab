package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/infrastructure/auth"
	"github.com/shopx/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys populated by the Authenticated middleware
const (
	AuthClaimsKey   = "auth_claims"
	AuthUserIDKey   = "auth_user_id"
	AuthUsernameKey = "auth_username"
	AuthRoleKey     = "auth_role"
)

const bearerPrefix = "Bearer "

// Authenticated verifies the access token and loads its claims into the
// request context. Revoked tokens are rejected; a blacklist lookup failure
// lets the request through so Redis outages do not lock everyone out.
func Authenticated(jwtService *auth.JWTService, blacklist admin.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed authorization header")
			return
		}

		claims, err := jwtService.VerifyAccess(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
			}
			abortUnauthorized(c, code, "Invalid or expired access token")
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token blacklist check failed",
					zap.String("token_id", claims.ID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token has been revoked")
				return
			}
		}

		c.Set(AuthClaimsKey, claims)
		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the listed roles through. ADMIN always passes.
// Place after Authenticated.
func RequireRole(roles ...identity.AdminRole) gin.HandlerFunc {
	allowed := make(map[identity.AdminRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := identity.AdminRole(c.GetString(AuthRoleKey))
		if role == identity.AdminRoleAdmin {
			c.Next()
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden,
					"Insufficient permissions for this operation", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the verified token claims, if any
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(AuthClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// CurrentUserID returns the authenticated user's ID, or uuid.Nil
func CurrentUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(AuthUserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// CurrentActor builds the audit actor for the authenticated request
func CurrentActor(c *gin.Context) admin.Actor {
	return admin.Actor{
		ID:   CurrentUserID(c),
		Name: c.GetString(AuthUsernameKey),
		IP:   c.ClientIP(),
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(code, message, GetRequestID(c)))
}
