package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/supabase-community/gotrue-go/types"
	"go.mongodb.org/mongo-driver/bson"
)

type UserService struct {
	userRepo    models.UserRepo
	authRepo    models.AuthRepo
	adminEmails map[string]struct{}
}

func NewUserService(userRepo models.UserRepo, authRepo models.AuthRepo, adminEmails []string) *UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &UserService{
		userRepo:    userRepo,
		authRepo:    authRepo,
		adminEmails: admins,
	}
}

func (us *UserService) IsAdminEmail(email string) bool {
	_, ok := us.adminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (us *UserService) SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", helpers.ErrValidation)
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters with upper and lower case letters, a number and a symbol", helpers.ErrValidation)
	}
	displayName = strings.TrimSpace(displayName)
	if err := models.Validate.Var(displayName, "max=80"); err != nil {
		return nil, fmt.Errorf("%w: display name is too long", helpers.ErrValidation)
	}
	return us.authRepo.SignUp(ctx, email, password, displayName)
}

// SignIn authenticates with the auth provider and makes sure the portal user
// document exists. Blocked accounts get ErrBlocked and no session.
func (us *UserService) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email format", helpers.ErrValidation)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid password format", helpers.ErrValidation)
	}
	res, err := us.authRepo.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication failed: %v", err)
	}
	user, err := us.userFromSession(ctx, res)
	if err != nil {
		return nil, user, err
	}
	return res, user, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	res, err := us.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return res, nil
}

func (us *UserService) GoogleAuthURL(ctx context.Context, redirectTo string) (string, string, error) {
	return us.authRepo.OAuthURL(ctx, types.ProviderGoogle, redirectTo)
}

// ExchangeCode finishes a federated sign-in started by GoogleAuthURL.
func (us *UserService) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, *models.User, error) {
	if code == "" || verifier == "" {
		return nil, nil, fmt.Errorf("%w: missing authorization code or verifier", helpers.ErrValidation)
	}
	res, err := us.authRepo.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, nil, err
	}
	user, err := us.userFromSession(ctx, res)
	if err != nil {
		return nil, user, err
	}
	return res, user, nil
}

func (us *UserService) userFromSession(ctx context.Context, res *types.TokenResponse) (*models.User, error) {
	if res == nil || res.AccessToken == "" {
		return nil, fmt.Errorf("invalid token response")
	}
	user, err := us.EnsureUser(ctx, res.User.ID.String(), res.User.Email, metadataName(res.User.UserMetadata))
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return user, models.ErrBlocked
	}
	return user, nil
}

func metadataName(meta map[string]interface{}) string {
	for _, key := range []string{"display_name", "full_name", "name"} {
		if v, ok := meta[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// EnsureUser returns the stored user for uid, creating it on first sight.
// New users whose email is listed as an admin email start as admins.
func (us *UserService) EnsureUser(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, fmt.Errorf("%w: empty user id", models.ErrInvalidID)
	}
	role := models.RoleUser
	if us.IsAdminEmail(email) {
		role = models.RoleAdmin
	}
	return us.userRepo.EnsureUser(ctx, &models.User{
		UID:         uid,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: displayName,
		Role:        role,
	})
}

func (us *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return us.userRepo.GetUser(ctx, helpers.StringTrim(uid))
}

func (us *UserService) UpdateProfile(ctx context.Context, uid, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if err := models.Validate.Var(displayName, "required,max=80"); err != nil {
		return nil, fmt.Errorf("%w: display name must be 1-80 characters", helpers.ErrValidation)
	}
	return us.userRepo.UpdateUser(ctx, uid, bson.M{"displayName": displayName})
}

func (us *UserService) ListUsers(ctx context.Context, filter models.UserFilter, page, size int) (models.Page[*models.User], error) {
	users, err := us.userRepo.ListUsers(ctx)
	if err != nil {
		return models.Page[*models.User]{}, err
	}
	if size < 1 {
		size = models.AdminPageSize
	}
	return models.Paginate(models.FilterUsers(users, filter), page, size), nil
}

func (us *UserService) SetBlocked(ctx context.Context, actorUID, uid string, blocked bool) (*models.User, error) {
	uid = helpers.StringTrim(uid)
	if actorUID == uid {
		return nil, fmt.Errorf("%w: admins cannot block themselves", models.ErrForbidden)
	}
	return us.userRepo.UpdateUser(ctx, uid, bson.M{"isBlocked": blocked})
}

func (us *UserService) SetRole(ctx context.Context, actorUID, uid string, role models.Role) (*models.User, error) {
	uid = helpers.StringTrim(uid)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be %q or %q", helpers.ErrValidation, models.RoleUser, models.RoleAdmin)
	}
	if actorUID == uid && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admins cannot demote themselves", models.ErrForbidden)
	}
	return us.userRepo.UpdateUser(ctx, uid, bson.M{"role": role})
}

func (us *UserService) DeleteUser(ctx context.Context, actorUID, uid string) error {
	uid = helpers.StringTrim(uid)
	if actorUID == uid {
		return fmt.Errorf("%w: admins cannot delete themselves", models.ErrForbidden)
	}
	if err := us.userRepo.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (us *UserService) CountUsers(ctx context.Context) (int64, error) {
	return us.userRepo.CountUsers(ctx)
}
