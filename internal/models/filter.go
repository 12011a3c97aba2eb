package models

import (
	"strings"
)

// Page is one fixed-size window over an already filtered snapshot.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 9

// AdminPageSize is the row count of the admin console tables.
const AdminPageSize = 5

// MaxPageSize caps client supplied limits.
const MaxPageSize = 50

// Paginate cuts page (1-based) out of items without reordering them. A page
// past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	return p
}

type ListingFilter struct {
	Search        string
	Location      string
	Type          string
	WorkMode      string
	Level         string
	Featured      *bool
	MinExperience *float64
}

// FilterListings returns the listings matching every set predicate, in input
// order. The input slice is not modified.
func FilterListings(items []*Listing, f ListingFilter) []*Listing {
	search := normalize(f.Search)
	location := normalize(f.Location)

	out := make([]*Listing, 0, len(items))
	for _, l := range items {
		if search != "" && !listingMatches(l, search) {
			continue
		}
		if location != "" && !contains(l.Location, location) {
			continue
		}
		if !equalFold(f.Type, l.Type) || !equalFold(f.WorkMode, l.WorkMode) || !equalFold(f.Level, l.Level) {
			continue
		}
		if f.Featured != nil && l.IsFeatured != *f.Featured {
			continue
		}
		if f.MinExperience != nil && l.Experience < *f.MinExperience {
			continue
		}
		out = append(out, l)
	}
	return out
}

func listingMatches(l *Listing, search string) bool {
	if contains(l.Title, search) || contains(l.Company, search) || contains(l.Location, search) {
		return true
	}
	for _, s := range l.Skills {
		if contains(s, search) {
			return true
		}
	}
	return false
}

type EventFilter struct {
	Search           string
	Location         string
	Category         string
	Mode             string
	RegistrationType string
	Status           EventStatus
}

func FilterEvents(items []*Event, f EventFilter) []*Event {
	search := normalize(f.Search)
	location := normalize(f.Location)

	out := make([]*Event, 0, len(items))
	for _, e := range items {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if search != "" && !eventMatches(e, search) {
			continue
		}
		if location != "" && !contains(e.DetailedLocation, location) && !contains(e.City, location) {
			continue
		}
		if !equalFold(f.Category, e.Category) || !equalFold(f.Mode, e.Mode) || !equalFold(f.RegistrationType, e.RegistrationType) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func eventMatches(e *Event, search string) bool {
	if contains(e.Title, search) || contains(e.OrganizerName, search) || contains(e.Organization, search) ||
		contains(e.Category, search) || contains(e.City, search) || contains(e.DetailedLocation, search) {
		return true
	}
	for _, t := range e.Tags {
		if contains(t, search) {
			return true
		}
	}
	return false
}

type UserFilter struct {
	Search  string
	Role    Role
	Blocked *bool
}

func FilterUsers(items []*User, f UserFilter) []*User {
	search := normalize(f.Search)

	out := make([]*User, 0, len(items))
	for _, u := range items {
		if search != "" && !contains(u.Email, search) && !contains(u.DisplayName, search) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Blocked != nil && u.IsBlocked != *f.Blocked {
			continue
		}
		out = append(out, u)
	}
	return out
}

func FilterInteractions(items []*UserInteraction, t InteractionType) []*UserInteraction {
	out := make([]*UserInteraction, 0, len(items))
	for _, in := range items {
		if t != "" && in.Type != t {
			continue
		}
		out = append(out, in)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// contains expects needle already normalized.
func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// equalFold treats an empty want as "any".
func equalFold(want, got string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, got)
}
