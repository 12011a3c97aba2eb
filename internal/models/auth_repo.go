package models

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

type AuthRepo interface {
	SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error)
	SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	OAuthURL(ctx context.Context, provider types.Provider, redirectTo string) (authURL string, verifier string, err error)
	ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error)
}

func (su *SupabaseRepo) SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error) {
	req := types.SignupRequest{
		Email:    email,
		Password: password,
	}
	if displayName != "" {
		req.Data = map[string]interface{}{"display_name": displayName}
	}

	res, err := su.supabaseClient.Auth.Signup(req)
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "already registered") {
			return nil, fmt.Errorf("email already in use")
		}
		if strings.Contains(errMsg, "unique constraint") {
			return nil, fmt.Errorf("user already exists")
		}
		if strings.Contains(errMsg, "invalid input syntax") {
			return nil, fmt.Errorf("invalid input format")
		}
		return nil, fmt.Errorf("failed to create user")
	}
	return res, nil
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

// OAuthURL starts a PKCE authorization with the federated provider. The
// verifier must be kept by the caller until the callback exchanges the code.
func (su *SupabaseRepo) OAuthURL(ctx context.Context, provider types.Provider, redirectTo string) (string, string, error) {
	resp, err := su.supabaseClient.Auth.Authorize(types.AuthorizeRequest{
		Provider: provider,
		FlowType: types.FlowPKCE,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to build %s authorization url: %v", provider, err)
	}

	authURL := resp.AuthorizationURL
	if redirectTo != "" {
		u, err := url.Parse(authURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid authorization url: %v", err)
		}
		q := u.Query()
		q.Set("redirect_to", redirectTo)
		u.RawQuery = q.Encode()
		authURL = u.String()
	}
	return authURL, resp.Verifier, nil
}

func (su *SupabaseRepo) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.Token(types.TokenRequest{
		GrantType:    "pkce",
		Code:         code,
		CodeVerifier: verifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %v", err)
	}
	return resp, nil
}
