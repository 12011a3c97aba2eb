package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/metrics"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshTokenMaxAge = 3600 * 24 * 30 // 30 days

	userKey = "user"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		// handlers that already replied only attach the error for logging
		if c.Writer.Written() {
			return
		}
		// Don't return error details in production
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// SetAuthCookies stores a Supabase session in httpOnly cookies.
func SetAuthCookies(c *gin.Context, res *types.TokenResponse, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, res.AccessToken, res.ExpiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, res.RefreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

// CurrentUser returns the claims stored by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	return claims, ok && claims != nil
}

func requestToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

type authenticator struct {
	tv            *helpers.TokenValidator
	users         *services.UserService
	logger        *slog.Logger
	secureCookies bool
}

// verify validates the request token, refreshing the session through the
// refresh_token cookie when the access token is missing or expired.
func (a *authenticator) verify(c *gin.Context) (*helpers.CustomClaims, string) {
	token := requestToken(c)
	var reason string
	if token != "" {
		claims, err := a.tv.ValidateToken(token)
		if err == nil {
			return claims, ""
		}
		reason = err.Error()
	} else {
		reason = "JWT token not found in cookie or header"
	}

	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, reason
	}
	res, err := a.users.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		a.logger.Error("Token refresh failed", "error", err)
		return nil, "Token expired and refresh failed"
	}
	a.logger.Info("Token refreshed successfully",
		"user_id", res.User.ID,
		"expires_in", res.ExpiresIn,
	)
	SetAuthCookies(c, res, a.secureCookies)

	claims, err := a.tv.ValidateToken(res.AccessToken)
	if err != nil {
		return nil, "Refreshed token validation failed"
	}
	return claims, ""
}

// load ensures the portal user document for the verified token.
func (a *authenticator) load(c *gin.Context, claims *helpers.CustomClaims) (*helpers.EnhancedClaims, error) {
	user, err := a.users.EnsureUser(c.Request.Context(), claims.Subject, claims.Email, claims.DisplayName())
	if err != nil {
		return nil, err
	}
	return &helpers.EnhancedClaims{
		CustomClaims: claims,
		Role:         user.Role,
		UserID:       user.UID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		IsBlocked:    user.IsBlocked,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}, nil
}

// AuthMiddleware rejects requests without a valid session (401) and blocked
// accounts (403).
func AuthMiddleware(tv *helpers.TokenValidator, userService *services.UserService, logger *slog.Logger, secureCookies bool) gin.HandlerFunc {
	a := &authenticator{tv: tv, users: userService, logger: logger, secureCookies: secureCookies}
	return func(c *gin.Context) {
		claims, reason := a.verify(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ApiResponse{
				Message: "Unauthorized access",
				Error:   reason,
			})
			return
		}

		enhanced, err := a.load(c, claims)
		if err != nil {
			logger.Error("Failed to load user profile", "user_id", claims.Subject, "error", err)
			c.AbortWithStatusJSON(helpers.StatusFromError(err), models.ErrorResponse("Failed to load user profile"))
			return
		}
		if enhanced.IsBlocked {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse(models.ErrBlocked.Error()))
			return
		}

		c.Set(userKey, enhanced)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid session is present and lets
// anonymous requests through. It never refreshes or rejects.
func OptionalAuth(tv *helpers.TokenValidator, userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	a := &authenticator{tv: tv, users: userService, logger: logger}
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := tv.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}
		enhanced, err := a.load(c, claims)
		if err != nil {
			logger.Warn("Failed to load optional user", "user_id", claims.Subject, "error", err)
			c.Next()
			return
		}
		if !enhanced.IsBlocked {
			c.Set(userKey, enhanced)
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Unauthorized access"))
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("Admin access required"))
			return
		}
		c.Next()
	}
}
