package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/middleware"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

const (
	verifierCookie = "pkce_verifier"
	verifierMaxAge = 600
)

// AuthConfig carries the deployment settings the auth endpoints need.
type AuthConfig struct {
	FrontendURL   string
	SecureCookies bool
}

func (ac AuthConfig) frontend() string {
	if ac.FrontendURL == "" {
		return "http://localhost:3000"
	}
	return ac.FrontendURL
}

func SignUp(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required"`
			Password    string `json:"password" binding:"required"`
			DisplayName string `json:"displayName"`
		}
		if !bindJSON(c, &req) {
			return
		}

		res, err := u.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName)
		if err != nil {
			if errors.Is(err, helpers.ErrValidation) {
				respondError(c, err, "")
				return
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
			"id":    res.User.ID,
			"email": res.User.Email,
		}, "Account created, check your inbox to confirm your email"))
	}
}

func Login(u *services.UserService, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		res, user, err := u.SignIn(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, models.ErrBlocked), errors.Is(err, helpers.ErrValidation):
			respondError(c, err, "")
			return
		case err != nil && user == nil && res == nil:
			c.JSON(http.StatusUnauthorized, models.ValidationResponse("invalid email or password", err.Error()))
			return
		case err != nil:
			respondError(c, err, "Failed to load user profile")
			return
		}

		middleware.SetAuthCookies(c, res, cfg.SecureCookies)
		// tokens stay in the httpOnly cookies
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"user": user}, "Signed in"))
	}
}

func Logout(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearAuthCookies(c, cfg.SecureCookies)
		c.SetCookie(verifierCookie, "", -1, "/", "", cfg.SecureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// RefreshSession trades the refresh_token cookie (or a JSON refresh_token)
// for a new session.
func RefreshSession(u *services.UserService, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(middleware.RefreshTokenCookie)
		if token == "" {
			var req struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = c.ShouldBindJSON(&req)
			token = req.RefreshToken
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("refresh token not found"))
			return
		}

		res, err := u.RefreshToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}
		middleware.SetAuthCookies(c, res, cfg.SecureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"expires_in": res.ExpiresIn}, "Session refreshed"))
	}
}

// GoogleAuth initiates Google OAuth flow via Supabase
func GoogleAuth(u *services.UserService, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirectTo := c.Query("redirect_to")
		if redirectTo == "" {
			redirectTo = callbackURL(c)
		}

		authURL, verifier, err := u.GoogleAuthURL(c.Request.Context(), redirectTo)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to generate Google auth URL"))
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(verifierCookie, verifier, verifierMaxAge, "/", "", cfg.SecureCookies, true)
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// GoogleAuthCallback exchanges the authorization code for a session, sets the
// auth cookies and sends the browser back to the frontend.
func GoogleAuthCallback(u *services.UserService, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		frontendURL := cfg.frontend()
		fail := func(code, description string) {
			q := url.Values{}
			q.Set("error", code)
			if description != "" {
				q.Set("error_description", description)
			}
			c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/auth/signin?"+q.Encode())
		}

		if e := c.Query("error"); e != "" {
			fail(e, c.Query("error_description"))
			return
		}
		verifier, _ := c.Cookie(verifierCookie)
		c.SetCookie(verifierCookie, "", -1, "/", "", cfg.SecureCookies, true)

		res, _, err := u.ExchangeCode(c.Request.Context(), c.Query("code"), verifier)
		switch {
		case errors.Is(err, models.ErrBlocked):
			fail("account_blocked", "")
			return
		case err != nil:
			_ = c.Error(err)
			fail("exchange_failed", "")
			return
		}

		middleware.SetAuthCookies(c, res, cfg.SecureCookies)
		c.Redirect(http.StatusTemporaryRedirect, frontendURL+"/")
	}
}

func callbackURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/api/v1/auth/callback"
}

// Me returns the caller's stored user document.
func Me(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		user, err := u.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err, "Failed to load user profile")
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user":     user,
			"is_admin": claims.IsAdmin(),
			"provider": claims.AppMetadata.Provider,
		}, ""))
	}
}
