package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KanalKids/kanalkids_api/internal/utils"
)

// JWTMiddleware authenticates buyers and backoffice operators from Bearer
// tokens. Repeated invalid attempts from one IP are rate limited.
type JWTMiddleware struct {
	secret      string
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware constructs a new JWTMiddleware.
func NewJWTMiddleware(secret string) *JWTMiddleware {
	return &JWTMiddleware{
		secret:      secret,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle requires a valid user-scoped token.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}
		if claims.Scope != utils.ScopeUser {
			utils.Error(c, 403, "FORBIDDEN", "User access required")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// Optional resolves the viewer when a token is present but lets anonymous
// requests through. Invalid tokens are treated as anonymous.
func (m *JWTMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if claims, err := utils.ValidateJWT(token, m.secret); err == nil && claims.Scope == utils.ScopeUser {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
			}
		}
		c.Next()
	}
}

// Admin requires a valid admin-scoped token.
func (m *JWTMiddleware) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			return
		}
		if claims.Scope != utils.ScopeAdmin {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Set("admin_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func (m *JWTMiddleware) authenticate(c *gin.Context) (*utils.Claims, bool) {
	token := bearerToken(c)
	if token == "" {
		m.handleAuthError(c, "UNAUTHORIZED", "Missing or invalid authorization header")
		return nil, false
	}

	claims, err := utils.ValidateJWT(token, m.secret)
	if err != nil {
		m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

func (m *JWTMiddleware) handleAuthError(c *gin.Context, code, message string) {
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserID returns the authenticated user's ID from context, empty when
// anonymous.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}
