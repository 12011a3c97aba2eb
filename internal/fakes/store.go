// Package fakes holds in-memory implementations of the repository
// interfaces for service, middleware and handler tests.
package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/joshua-takyi/careerportal/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store implements every Mongo-backed repository interface.
type Store struct {
	mu           sync.Mutex
	users        map[string]*models.User
	listings     map[primitive.ObjectID]*models.Listing
	events       map[primitive.ObjectID]*models.Event
	interactions []*models.UserInteraction
	resumes      map[primitive.ObjectID]*models.Resume
	clock        time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		listings: make(map[primitive.ObjectID]*models.Listing),
		events:   make(map[primitive.ObjectID]*models.Event),
		resumes:  make(map[primitive.ObjectID]*models.Resume),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so createdAt ordering is
// deterministic in tests.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

var (
	_ models.UserRepo         = (*Store)(nil)
	_ models.ListingRepo      = (*Store)(nil)
	_ models.EventsRepo       = (*Store)(nil)
	_ models.InteractionsRepo = (*Store)(nil)
	_ models.ResumeRepo       = (*Store)(nil)
)

// users

func (s *Store) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.UID]; ok {
		cp := *existing
		return &cp, nil
	}
	now := s.tick()
	stored := *user
	if stored.Role == "" {
		stored.Role = models.RoleUser
	}
	stored.IsBlocked = false
	stored.CreatedAt, stored.UpdatedAt = now, now
	s.users[user.UID] = &stored
	cp := stored
	return &cp, nil
}

// PutUser seeds a user document as is.
func (s *Store) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.tick()
	}
	s.users[u.UID] = &cp
}

func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, uid string, fields bson.M) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "displayName":
			u.DisplayName = v.(string)
		case "isBlocked":
			u.IsBlocked = v.(bool)
		case "role":
			u.Role = v.(models.Role)
		case "photoURL":
			u.PhotoURL = v.(string)
		default:
			return nil, fmt.Errorf("fake store cannot update user field %q", k)
		}
	}
	u.UpdatedAt = s.tick()
	cp := *u
	return &cp, nil
}

func (s *Store) DeleteUser(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[uid]; !ok {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	delete(s.users, uid)
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// listings

func (s *Store) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = s.tick()
	cp.UpdatedAt = cp.CreatedAt
	s.listings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) GetListing(ctx context.Context, kind models.ListingKind, id primitive.ObjectID) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok || l.Kind != kind {
		return nil, fmt.Errorf("%s: %w", kind, models.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (s *Store) ListListings(ctx context.Context, kind models.ListingKind) ([]*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Listing{}
	for _, l := range s.listings {
		if l.Kind == kind {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateListing(ctx context.Context, kind models.ListingKind, id primitive.ObjectID, fields bson.M) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok || l.Kind != kind {
		return nil, fmt.Errorf("%s: %w", kind, models.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "title":
			l.Title = v.(string)
		case "company":
			l.Company = v.(string)
		case "location":
			l.Location = v.(string)
		case "skills":
			l.Skills = v.([]string)
		case "isFeatured":
			l.IsFeatured = v.(bool)
		case "logoUrl":
			l.LogoURL = v.(string)
		case "experience":
			l.Experience = v.(float64)
		case "description":
			l.Description = v.(string)
		}
	}
	l.UpdatedAt = s.tick()
	cp := *l
	return &cp, nil
}

func (s *Store) DeleteListing(ctx context.Context, kind models.ListingKind, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok || l.Kind != kind {
		return fmt.Errorf("%s: %w", kind, models.ErrNotFound)
	}
	delete(s.listings, id)
	return nil
}

func (s *Store) CountListings(ctx context.Context, kind models.ListingKind) (int64, error) {
	all, _ := s.ListListings(ctx, kind)
	return int64(len(all)), nil
}

// events

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = s.tick()
	cp.UpdatedAt = cp.CreatedAt
	s.events[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event: %w", models.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Event{}
	for _, e := range s.events {
		if status == "" || e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Event, error) {
	if _, ok := fields["status"]; ok {
		return nil, fmt.Errorf("%w: status changes go through moderation", models.ErrInvalidTransition)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event: %w", models.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "title":
			e.Title = v.(string)
		case "description":
			e.Description = v.(string)
		case "city":
			e.City = v.(string)
		case "bannerUrl":
			e.BannerURL = v.(string)
		case "registrationFee":
			e.RegistrationFee = v.(float64)
		case "organizerName":
			e.OrganizerName = v.(string)
		case "organizerWebsite":
			e.OrganizerWebsite = v.(string)
		case "startDate":
			e.StartDate = v.(time.Time)
		case "endDate":
			e.EndDate = v.(time.Time)
		}
	}
	e.UpdatedAt = s.tick()
	cp := *e
	return &cp, nil
}

func (s *Store) TransitionEvent(ctx context.Context, id primitive.ObjectID, from, to models.EventStatus) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event: %w", models.ErrNotFound)
	}
	if e.Status != from {
		return nil, fmt.Errorf("%w: event is not %s", models.ErrInvalidTransition, from)
	}
	e.Status = to
	e.UpdatedAt = s.tick()
	cp := *e
	return &cp, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event: %w", models.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

func (s *Store) CountEvents(ctx context.Context, status models.EventStatus) (int64, error) {
	all, _ := s.ListEvents(ctx, status)
	return int64(len(all)), nil
}

// interactions

func (s *Store) RecordInteraction(ctx context.Context, in *models.UserInteraction) (*models.UserInteraction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.interactions {
		if existing.UserID == in.UserID && existing.Type == in.Type && existing.ItemID == in.ItemID {
			cp := *existing
			return &cp, false, nil
		}
	}
	cp := *in
	cp.ID = primitive.NewObjectID()
	cp.Timestamp = s.tick()
	s.interactions = append(s.interactions, &cp)
	out := cp
	return &out, true, nil
}

func (s *Store) ListInteractionsByUser(ctx context.Context, userID string) ([]*models.UserInteraction, error) {
	return s.listInteractions(func(in *models.UserInteraction) bool { return in.UserID == userID }), nil
}

func (s *Store) ListInteractions(ctx context.Context) ([]*models.UserInteraction, error) {
	return s.listInteractions(func(*models.UserInteraction) bool { return true }), nil
}

func (s *Store) listInteractions(keep func(*models.UserInteraction) bool) []*models.UserInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.UserInteraction{}
	for i := len(s.interactions) - 1; i >= 0; i-- {
		if keep(s.interactions[i]) {
			cp := *s.interactions[i]
			out = append(out, &cp)
		}
	}
	return out
}

func (s *Store) CountInteractionsByType(ctx context.Context) (map[models.InteractionType]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.InteractionType]int64, len(models.InteractionTypes))
	for _, t := range models.InteractionTypes {
		counts[t] = 0
	}
	for _, in := range s.interactions {
		counts[in.Type]++
	}
	return counts, nil
}

// resumes

func (s *Store) GetResumeByUser(ctx context.Context, userID string) (*models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newest *models.Resume
	for _, r := range s.resumes {
		if r.UserID == userID && (newest == nil || r.UpdatedAt.After(newest.UpdatedAt)) {
			newest = r
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("resume: %w", models.ErrNotFound)
	}
	cp := *newest
	return &cp, nil
}

func (s *Store) SaveResume(ctx context.Context, r *models.Resume) (*models.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	if cp.ID.IsZero() {
		cp.ID = primitive.NewObjectID()
	} else if _, ok := s.resumes[cp.ID]; !ok {
		return nil, fmt.Errorf("resume: %w", models.ErrNotFound)
	}
	s.resumes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) DeleteResume(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, r := range s.resumes {
		if r.UserID == userID {
			delete(s.resumes, id)
			deleted++
		}
	}
	if deleted == 0 {
		return fmt.Errorf("resume: %w", models.ErrNotFound)
	}
	return nil
}

func (s *Store) CountResumes(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.resumes)), nil
}
