package middleware

import (
	"net/http"
	"strings"
	"time"

	"seatmap/internal/shared/config"
	"seatmap/internal/shared/utils/response"
	"seatmap/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// CartCookieName carries the anonymous cart identity between requests.
	CartCookieName = "seatmap_cart"
	// CartHeaderName lets API clients pass the cart identity explicitly.
	CartHeaderName = "X-Cart-ID"
	// ContextCartID is the gin context key the resolved cart identity is stored under.
	ContextCartID = "cart_id"
)

// Claims is the JWT payload for staff users managing plans and mappings.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token and stores the claims on the context.
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header must be a Bearer token", nil, nil)
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth and rejects non-admin users.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != "admin" {
			response.RespondJSON(c, "error", http.StatusForbidden, "Admin access required", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CartIdentity resolves the anonymous cart identity for the request. The
// header takes precedence over the cookie; a fresh identity is minted and
// set as a cookie when neither is present.
func CartIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID := c.GetHeader(CartHeaderName)
		if cartID == "" {
			if cookie, err := c.Cookie(CartCookieName); err == nil {
				cartID = cookie
			}
		}
		if _, err := uuid.Parse(cartID); err != nil {
			cartID = uuid.NewString()
			c.SetCookie(CartCookieName, cartID, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
		}
		c.Set(ContextCartID, cartID)
		c.Next()
	}
}

// CartIDFrom returns the cart identity stored by CartIdentity.
func CartIDFrom(c *gin.Context) string {
	if v, exists := c.Get(ContextCartID); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// RequestLogger logs each request with latency and status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogHTTPRequest(c, time.Since(start))
	}
}
