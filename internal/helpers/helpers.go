package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/careerportal/internal/models"
)

const (
	LogoFolder   = "logos"
	EventsFolder = "events"
)

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// DisplayName picks the name the auth provider stored for the account.
func (c *CustomClaims) DisplayName() string {
	for _, key := range []string{"display_name", "full_name", "name"} {
		if v, ok := c.UserMetadata[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// TokenValidator verifies Supabase access tokens. HS256 tokens are checked
// against the project secret, asymmetric ones against the project JWKS.
type TokenValidator struct {
	secret []byte
	jwks   *keyfunc.JWKS
}

func NewTokenValidator(jwksURL, secret string) (*TokenValidator, error) {
	tv := &TokenValidator{secret: []byte(secret)}
	if jwksURL == "" {
		if secret == "" {
			return nil, errors.New("either a JWKS url or a JWT secret is required")
		}
		return tv, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		if secret == "" {
			return nil, fmt.Errorf("failed to load JWKS from %s: %v", jwksURL, err)
		}
		// projects on the legacy secret publish an empty key set
		return tv, nil
	}
	tv.jwks = jwks
	return tv, nil
}

func (tv *TokenValidator) keyfunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(tv.secret) == 0 {
			return nil, errors.New("HMAC tokens are not accepted")
		}
		return tv.secret, nil
	default:
		if tv.jwks == nil {
			return nil, fmt.Errorf("no key set for %s tokens", token.Method.Alg())
		}
		return tv.jwks.Keyfunc(token)
	}
}

func (tv *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyfunc, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (tv *TokenValidator) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&#^_\-]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

// StringTrim strips whitespace and the quotes clients sometimes leave around
// path values.
func StringTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}

// ImageUploader stores an uploaded image and returns its public url.
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (url string, publicID string, err error)
	DeleteImages(ctx context.Context, publicIDs []string) error
}

type CloudinaryUploader struct {
	Cld *cloudinary.Cloudinary
}

func (cu *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	res, err := cu.Cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"career-portal"},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %v", err)
	}
	if res.Error.Message != "" {
		return "", "", fmt.Errorf("failed to upload image: %s", res.Error.Message)
	}
	return res.SecureURL, res.PublicID, nil
}

func (cu *CloudinaryUploader) DeleteImages(ctx context.Context, publicIDs []string) error {
	var errs []error
	for _, id := range publicIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, err := cu.Cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id}); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete image %s: %v", id, err))
		}
	}
	return errors.Join(errs...)
}

// StatusFromError maps service errors onto HTTP status codes.
func StatusFromError(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidID), errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrBlocked):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

var (
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("service unavailable")
)

// ValidationDetails flattens validator errors into field -> rule.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Namespace()] = rule
	}
	return out
}
