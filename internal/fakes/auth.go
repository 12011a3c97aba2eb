package fakes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/search"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	OAuthVerifier = "verifier-123"
	OAuthCode     = "good-code"
)

// Token signs an HS256 access token the way Supabase does for projects on
// the legacy JWT secret.
func Token(secret, sub, email string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"role":  "authenticated",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
		"user_metadata": map[string]interface{}{
			"full_name": strings.Split(email, "@")[0],
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

type account struct {
	id       uuid.UUID
	password string
}

// Auth is an in-memory stand-in for the Supabase auth API.
type Auth struct {
	Secret   string
	mu       sync.Mutex
	accounts map[string]account
}

var _ models.AuthRepo = (*Auth)(nil)

func NewAuth(secret string) *Auth {
	return &Auth{Secret: secret, accounts: make(map[string]account)}
}

func (a *Auth) session(id uuid.UUID, email string) *types.TokenResponse {
	return &types.TokenResponse{Session: types.Session{
		AccessToken:  Token(a.Secret, id.String(), email, time.Hour),
		TokenType:    "bearer",
		ExpiresIn:    3600,
		RefreshToken: "refresh-" + id.String(),
		User:         types.User{ID: id, Email: email},
	}}
}

func (a *Auth) SignUp(ctx context.Context, email, password, displayName string) (*types.SignupResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[email]; ok {
		return nil, errors.New("email already in use")
	}
	id := uuid.New()
	a.accounts[email] = account{id: id, password: password}
	return &types.SignupResponse{User: types.User{ID: id, Email: email}}, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[email]
	if !ok || acc.password != password {
		return nil, errors.New("failed to authenticate user: invalid login credentials")
	}
	return a.session(acc.id, email), nil
}

func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for email, acc := range a.accounts {
		if refreshToken == "refresh-"+acc.id.String() {
			return a.session(acc.id, email), nil
		}
	}
	return nil, errors.New("failed to refresh token: invalid refresh token")
}

func (a *Auth) OAuthURL(ctx context.Context, provider types.Provider, redirectTo string) (string, string, error) {
	return fmt.Sprintf("https://auth.example/authorize?provider=%s&redirect_to=%s", provider, redirectTo), OAuthVerifier, nil
}

func (a *Auth) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error) {
	if code != OAuthCode || verifier != OAuthVerifier {
		return nil, errors.New("failed to exchange auth code")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	const email = "google.user@gmail.com"
	acc, ok := a.accounts[email]
	if !ok {
		acc = account{id: uuid.New()}
		a.accounts[email] = acc
	}
	return a.session(acc.id, email), nil
}

// AccountID returns the auth uid for email, registering it if needed.
func (a *Auth) AccountID(email, password string) uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[email]
	if !ok {
		acc = account{id: uuid.New(), password: password}
		a.accounts[email] = acc
	}
	return acc.id
}

// Uploader records uploads instead of sending them to Cloudinary.
type Uploader struct {
	mu       sync.Mutex
	Uploaded []string
	Deleted  []string
	Fail     bool
}

func (u *Uploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	if u.Fail {
		return "", "", errors.New("failed to upload image: upstream unavailable")
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	publicID := fmt.Sprintf("%s/%d", folder, len(u.Uploaded)+1)
	u.Uploaded = append(u.Uploaded, publicID)
	return "https://res.cloudinary.example/" + publicID + ".png", publicID, nil
}

func (u *Uploader) DeleteImages(ctx context.Context, publicIDs []string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Deleted = append(u.Deleted, publicIDs...)
	return nil
}

// Indexer is a search index that keeps documents in a map.
type Indexer struct {
	mu      sync.Mutex
	Docs    map[string]*models.Listing
	Fail    bool
	Queries []string
}

var _ search.Indexer = (*Indexer)(nil)

func NewIndexer() *Indexer {
	return &Indexer{Docs: make(map[string]*models.Listing)}
}

func (ix *Indexer) Enabled() bool { return true }

func (ix *Indexer) IndexListing(ctx context.Context, l *models.Listing) error {
	if ix.Fail {
		return errors.New("index listing: cluster unavailable")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	cp := *l
	ix.Docs[l.ID.Hex()] = &cp
	return nil
}

func (ix *Indexer) RemoveListing(ctx context.Context, id string) error {
	if ix.Fail {
		return errors.New("remove listing: cluster unavailable")
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.Docs, id)
	return nil
}

func (ix *Indexer) SearchListings(ctx context.Context, q string, kinds []models.ListingKind, size int) ([]search.SearchHit, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.Queries = append(ix.Queries, q)
	if ix.Fail {
		return nil, errors.New("search catalog: cluster unavailable")
	}
	hits := []search.SearchHit{}
	for id, l := range ix.Docs {
		if strings.Contains(strings.ToLower(l.Title), strings.ToLower(q)) {
			hits = append(hits, search.SearchHit{ID: id, Kind: l.Kind, Title: l.Title, Company: l.Company, Score: 1})
		}
	}
	return hits, nil
}
