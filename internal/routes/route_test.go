package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/config"
	"github.com/joshua-takyi/careerportal/internal/container"
	"github.com/joshua-takyi/careerportal/internal/fakes"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/joshua-takyi/careerportal/internal/services"
)

const secret = "routes-test-secret"

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *fakes.Store
	auth   *fakes.Auth
	admin  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		FrontendURL:    "http://localhost:3000",
		AllowedOrigins: []string{"http://localhost:3000"},
		AdminEmails:    []string{"admin@uni.edu"},
		Environment:    "test",
	}
	tv, err := helpers.NewTokenValidator("", secret)
	if err != nil {
		t.Fatalf("NewTokenValidator: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fakes.NewStore()
	auth := fakes.NewAuth(secret)
	indexer := fakes.NewIndexer()
	uploader := &fakes.Uploader{}

	c := &container.Container{
		Config:             cfg,
		Logger:             logger,
		TokenValidator:     tv,
		Indexer:            indexer,
		UserService:        services.NewUserService(store, auth, cfg.AdminEmails),
		ListingService:     services.NewListingService(store, indexer, uploader, logger),
		EventService:       services.NewEventService(store, uploader, logger),
		InteractionService: services.NewInteractionService(store, store, store),
		AnalyticsService:   services.NewAnalyticsService(store, store, store, store, store),
		ResumeService:      services.NewResumeService(store),
	}
	return &testAPI{
		t:      t,
		router: SetupRoutes(c),
		store:  store,
		auth:   auth,
		admin:  fakes.Token(secret, "admin-uid", "admin@uni.edu", time.Hour),
	}
}

func (a *testAPI) call(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	if into != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func eventBody(title string) *models.Event {
	start := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	return &models.Event{
		EventBasics: models.EventBasics{
			Title:       title,
			Category:    "hackathon",
			Description: "Twenty four hours of building with mentors on site.",
			Mode:        "offline",
		},
		EventOrganizer: models.EventOrganizer{OrganizerName: "ACM Chapter", OrganizerEmail: "acm@uni.edu"},
		EventSchedule:  models.EventSchedule{StartDate: start, EndDate: start.Add(24 * time.Hour)},
		EventVenue:     models.EventVenue{DetailedLocation: "Main Auditorium", City: "Pune", RegistrationType: "free"},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	if w := api.call(http.MethodGet, "/api/v1/health", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	w := api.call(http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "portal_http_requests_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestEventModerationOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	w := api.call(http.MethodPost, "/api/v1/events", eventBody("Campus Hackathon"), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var created models.Event
	decode(t, w, &created)
	if created.Status != models.EventPending {
		t.Fatalf("status = %q", created.Status)
	}
	id := created.ID.Hex()

	if env := decode(t, api.call(http.MethodGet, "/api/v1/events", nil, ""), nil); env.Total != 0 {
		t.Fatalf("pending event listed publicly")
	}
	if w := api.call(http.MethodGet, "/api/v1/events/"+id, nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("public detail of pending: %d", w.Code)
	}

	student := fakes.Token(secret, "student-uid", "student@uni.edu", time.Hour)
	if w := api.call(http.MethodPost, "/api/v1/admin/events/"+id+"/approve", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous approve: %d", w.Code)
	}
	if w := api.call(http.MethodPost, "/api/v1/admin/events/"+id+"/approve", nil, student); w.Code != http.StatusForbidden {
		t.Fatalf("student approve: %d", w.Code)
	}
	if w := api.call(http.MethodPost, "/api/v1/admin/events/"+id+"/approve", nil, api.admin); w.Code != http.StatusOK {
		t.Fatalf("admin approve: %d %s", w.Code, w.Body.String())
	}
	if w := api.call(http.MethodPost, "/api/v1/admin/events/"+id+"/approve", nil, api.admin); w.Code != http.StatusConflict {
		t.Fatalf("second approve: %d", w.Code)
	}

	env := decode(t, api.call(http.MethodGet, "/api/v1/events", nil, ""), nil)
	if env.Total != 1 || env.Limit != 9 {
		t.Fatalf("public listing total=%d limit=%d", env.Total, env.Limit)
	}
	if w := api.call(http.MethodGet, "/api/v1/events/"+id, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("public detail: %d", w.Code)
	}
}

func TestSubmitEventStampsSignedInUser(t *testing.T) {
	api := newTestAPI(t)
	token := fakes.Token(secret, "club-uid", "club@uni.edu", time.Hour)

	w := api.call(http.MethodPost, "/api/v1/events", eventBody("Design Jam"), token)
	var created models.Event
	decode(t, w, &created)
	if created.SubmittedBy != "club-uid" {
		t.Fatalf("submittedBy = %q", created.SubmittedBy)
	}
}

func TestEventWizardValidation(t *testing.T) {
	api := newTestAPI(t)
	e := eventBody("Campus Hackathon")
	e.DetailedLocation = ""

	if w := api.call(http.MethodPost, "/api/v1/events/validate?step=four", e, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad step: %d", w.Code)
	}
	if w := api.call(http.MethodPost, "/api/v1/events/validate?step=1", e, ""); w.Code != http.StatusOK {
		t.Fatalf("basics: %d %s", w.Code, w.Body.String())
	}
	if w := api.call(http.MethodPost, "/api/v1/events/validate?step=4", e, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("offline without location: %d", w.Code)
	}

	e.Title = "x"
	w := api.call(http.MethodPost, "/api/v1/events", e, "")
	env := decode(t, w, nil)
	if w.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("invalid submit: %d %s", w.Code, w.Body.String())
	}
}

func TestListingsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	job := map[string]interface{}{
		"title":    "Backend Engineer Intern",
		"company":  "Acme",
		"location": "Bengaluru",
		"skills":   []string{"Go", "MongoDB"},
		"workMode": "hybrid",
	}

	if w := api.call(http.MethodPost, "/api/v1/admin/jobs", job, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", w.Code)
	}
	w := api.call(http.MethodPost, "/api/v1/admin/jobs", job, api.admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created models.Listing
	decode(t, w, &created)

	env := decode(t, api.call(http.MethodGet, "/api/v1/jobs?workMode=hybrid&search=mongo", nil, ""), nil)
	if env.Total != 1 || env.Limit != 6 {
		t.Fatalf("list total=%d limit=%d", env.Total, env.Limit)
	}
	if w := api.call(http.MethodGet, "/api/v1/courses/"+created.ID.Hex(), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("job under /courses: %d", w.Code)
	}
	if w := api.call(http.MethodGet, "/api/v1/jobs/nope", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}

	w = api.call(http.MethodPatch, "/api/v1/admin/jobs/"+created.ID.Hex(), map[string]interface{}{"isFeatured": true}, api.admin)
	var updated models.Listing
	decode(t, w, &updated)
	if !updated.IsFeatured {
		t.Fatalf("featured not set: %s", w.Body.String())
	}

	var hits []map[string]interface{}
	decode(t, api.call(http.MethodGet, "/api/v1/search?q=backend", nil, ""), &hits)
	if len(hits) != 1 {
		t.Fatalf("search hits %v", hits)
	}
	if w := api.call(http.MethodGet, "/api/v1/search?q=go&kind=videos", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad kind: %d", w.Code)
	}

	if w := api.call(http.MethodDelete, "/api/v1/admin/jobs/"+created.ID.Hex(), nil, api.admin); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
}

func TestPublicPagingIsBounded(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/v1/events", "/api/v1/jobs", "/api/v1/internships", "/api/v1/courses"} {
		w := api.call(http.MethodGet, path+"?page=4611686018427387905&limit=2", nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s far page: %d %s", path, w.Code, w.Body.String())
		}
		env := decode(t, api.call(http.MethodGet, path+"?limit=100000", nil, ""), nil)
		if env.Limit != models.MaxPageSize {
			t.Fatalf("%s limit = %d, want %d", path, env.Limit, models.MaxPageSize)
		}
	}
}

func (a *testAPI) upload(path, field, name string, content []byte, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile(field, name)
	_, _ = part.Write(content)
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestBannerUploadAcceptsOnlyImages(t *testing.T) {
	api := newTestAPI(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	if w := api.upload("/api/v1/events/banner", "image", "notes.txt", []byte("just some text"), ""); w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("text banner: %d", w.Code)
	}
	w := api.upload("/api/v1/events/banner", "image", "banner.png", png, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("anonymous banner: %d %s", w.Code, w.Body.String())
	}
	student := fakes.Token(secret, "student-uid", "student@uni.edu", time.Hour)
	var out struct {
		URL string `json:"url"`
	}
	decode(t, api.upload("/api/v1/events/banner", "image", "banner.png", png, student), &out)
	if out.URL == "" {
		t.Fatal("signed-in banner upload returned no url")
	}
}

func TestInteractionsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	w := api.call(http.MethodPost, "/api/v1/admin/internships", map[string]interface{}{"title": "Data Intern", "company": "Globex"}, api.admin)
	var listing models.Listing
	decode(t, w, &listing)

	student := fakes.Token(secret, "student-uid", "student@uni.edu", time.Hour)
	body := map[string]string{"type": "internship", "itemId": listing.ID.Hex()}
	if w := api.call(http.MethodPost, "/api/v1/interactions", body, student); w.Code != http.StatusCreated {
		t.Fatalf("apply: %d %s", w.Code, w.Body.String())
	}
	if w := api.call(http.MethodPost, "/api/v1/interactions", body, student); w.Code != http.StatusOK {
		t.Fatalf("repeat apply: %d", w.Code)
	}

	if env := decode(t, api.call(http.MethodGet, "/api/v1/me/interactions", nil, student), nil); env.Total != 1 {
		t.Fatalf("mine total=%d", env.Total)
	}
	if w := api.call(http.MethodGet, "/api/v1/admin/interactions", nil, student); w.Code != http.StatusForbidden {
		t.Fatalf("student admin list: %d", w.Code)
	}

	var overview services.Overview
	decode(t, api.call(http.MethodGet, "/api/v1/admin/analytics", nil, api.admin), &overview)
	if overview.Internships != 1 || overview.Interactions.Total != 1 || overview.Users != 2 {
		t.Fatalf("overview %+v", overview)
	}
}

func TestUsersAdminOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	student := fakes.Token(secret, "student-uid", "student@uni.edu", time.Hour)
	if w := api.call(http.MethodGet, "/api/v1/me", nil, student); w.Code != http.StatusOK {
		t.Fatalf("me: %d", w.Code)
	}

	w := api.call(http.MethodPatch, "/api/v1/admin/users/student-uid/block", map[string]bool{"blocked": true}, api.admin)
	if w.Code != http.StatusOK {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}
	if w := api.call(http.MethodGet, "/api/v1/me", nil, student); w.Code != http.StatusForbidden {
		t.Fatalf("blocked me: %d", w.Code)
	}
	if w := api.call(http.MethodPatch, "/api/v1/admin/users/admin-uid/role", map[string]string{"role": "user"}, api.admin); w.Code != http.StatusForbidden {
		t.Fatalf("self demote: %d", w.Code)
	}

	env := decode(t, api.call(http.MethodGet, "/api/v1/admin/users?blocked=true", nil, api.admin), nil)
	if env.Total != 1 || env.Limit != 5 {
		t.Fatalf("blocked users total=%d limit=%d", env.Total, env.Limit)
	}
}

func TestResumeOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	student := fakes.Token(secret, "student-uid", "student@uni.edu", time.Hour)

	if w := api.call(http.MethodGet, "/api/v1/resumes/me", nil, student); w.Code != http.StatusNotFound {
		t.Fatalf("empty resume: %d", w.Code)
	}
	resume := map[string]interface{}{
		"personalInfo": map[string]string{"fullName": "Meera Iyer", "email": "meera@uni.edu"},
		"skills":       []string{"Python", "SQL"},
		"education":    []map[string]string{{"institution": "State University", "degree": "B.Sc"}},
	}
	if w := api.call(http.MethodPut, "/api/v1/resumes/me", resume, student); w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}

	w := api.call(http.MethodGet, "/api/v1/resumes/me/pdf?template=minimal", nil, student)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("pdf: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if w := api.call(http.MethodGet, "/api/v1/resumes/me/pdf?template=neon", nil, student); w.Code != http.StatusBadRequest {
		t.Fatalf("bad template: %d", w.Code)
	}

	var summary struct {
		Summary string `json:"summary"`
	}
	decode(t, api.call(http.MethodPost, "/api/v1/resumes/me/summary", nil, student), &summary)
	if !strings.Contains(summary.Summary, "Python and SQL") {
		t.Fatalf("summary %q", summary.Summary)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "resume.txt")
	_, _ = part.Write([]byte("plain text, not a pdf"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("import non-pdf: %d", rec.Code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	api := newTestAPI(t)

	if w := api.call(http.MethodPost, "/api/v1/signup", map[string]string{"email": "neha@uni.edu", "password": "Str0ng!Pass"}, ""); w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	if w := api.call(http.MethodPost, "/api/v1/login", map[string]string{"email": "neha@uni.edu", "password": "Wrong!Pass9"}, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", w.Code)
	}
	w := api.call(http.MethodPost, "/api/v1/login", map[string]string{"email": "neha@uni.edu", "password": "Str0ng!Pass"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	cookies := map[string]string{}
	for _, ck := range w.Result().Cookies() {
		cookies[ck.Name] = ck.Value
	}
	if cookies["access_token"] == "" || cookies["refresh_token"] == "" {
		t.Fatalf("cookies %v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: cookies["access_token"]})
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me with cookie: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookies["refresh_token"]})
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}

	w = api.call(http.MethodPost, "/api/v1/logout", nil, "")
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "access_token" && ck.MaxAge >= 0 {
			t.Fatalf("access_token not cleared: %+v", ck)
		}
	}
}

func TestGoogleSignIn(t *testing.T) {
	api := newTestAPI(t)

	w := api.call(http.MethodGet, "/api/v1/auth/google", nil, "")
	if w.Code != http.StatusTemporaryRedirect || !strings.Contains(w.Header().Get("Location"), "provider=google") {
		t.Fatalf("google: %d %s", w.Code, w.Header().Get("Location"))
	}
	var verifier string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "pkce_verifier" {
			verifier = ck.Value
		}
	}
	if verifier != fakes.OAuthVerifier {
		t.Fatalf("verifier cookie %q", verifier)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?code="+fakes.OAuthCode, nil)
	req.AddCookie(&http.Cookie{Name: "pkce_verifier", Value: verifier})
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "http://localhost:3000/" {
		t.Fatalf("callback: %d %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/callback?error=access_denied", nil))
	if !strings.HasPrefix(rec.Header().Get("Location"), "http://localhost:3000/auth/signin?error=access_denied") {
		t.Fatalf("callback error: %s", rec.Header().Get("Location"))
	}
}
