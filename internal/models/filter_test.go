package models

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

func approvedEvents(n int) []*Event {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	events := make([]*Event, n)
	for i := range events {
		events[i] = &Event{
			EventBasics: EventBasics{Title: fmt.Sprintf("Event %d", i+1), Category: "workshop", Mode: "online"},
			Status:      EventApproved,
			CreatedAt:   base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return events
}

func TestPaginateTwelveEventsBySizeNine(t *testing.T) {
	events := approvedEvents(12)

	p1 := Paginate(events, 1, 9)
	if len(p1.Items) != 9 || p1.Items[0].Title != "Event 1" || p1.Items[8].Title != "Event 9" {
		t.Fatalf("page 1 = %d items, want Event 1..Event 9", len(p1.Items))
	}
	p2 := Paginate(events, 2, 9)
	if len(p2.Items) != 3 || p2.Items[0].Title != "Event 10" || p2.Items[2].Title != "Event 12" {
		t.Fatalf("page 2 = %d items, want Event 10..Event 12", len(p2.Items))
	}
	p3 := Paginate(events, 3, 9)
	if p3.Items == nil || len(p3.Items) != 0 {
		t.Fatalf("page 3 should be an empty array, got %#v", p3.Items)
	}
	if p1.Total != 12 || p1.TotalPages != 2 {
		t.Errorf("total=%d totalPages=%d, want 12 and 2", p1.Total, p1.TotalPages)
	}
}

func TestPaginatePartitionsEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 5, 9, 10, 23} {
		for _, size := range []int{1, 5, 6, 9} {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}

			var seen []int
			pages := (n + size - 1) / size
			for page := 1; page <= pages+1; page++ {
				p := Paginate(items, page, size)
				if len(p.Items) > size {
					t.Fatalf("n=%d size=%d page=%d: %d items exceeds size", n, size, page, len(p.Items))
				}
				if page < pages && len(p.Items) != size {
					t.Fatalf("n=%d size=%d page=%d: non-final page has %d items", n, size, page, len(p.Items))
				}
				seen = append(seen, p.Items...)
			}
			if len(seen) != n {
				t.Fatalf("n=%d size=%d: saw %d items", n, size, len(seen))
			}
			for i, v := range seen {
				if v != i {
					t.Fatalf("n=%d size=%d: position %d holds %d, order not preserved", n, size, i, v)
				}
			}
		}
	}
}

func TestPaginateClampsArguments(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 0, 0)
	if p.Page != 1 || p.Size != DefaultPageSize || len(p.Items) != 3 {
		t.Fatalf("got page=%d size=%d len=%d", p.Page, p.Size, len(p.Items))
	}
}

func TestPaginateHugeArguments(t *testing.T) {
	items := []int{1, 2, 3}

	p := Paginate(items, 1<<62+1, 2)
	if p.Items == nil || len(p.Items) != 0 || p.TotalPages != 2 {
		t.Fatalf("far page = %#v", p)
	}
	p = Paginate(items, 1, math.MaxInt)
	if p.Size != MaxPageSize || p.TotalPages != 1 || len(p.Items) != 3 {
		t.Fatalf("size=%d totalPages=%d len=%d", p.Size, p.TotalPages, len(p.Items))
	}
	p = Paginate(items, math.MaxInt, math.MaxInt)
	if len(p.Items) != 0 {
		t.Fatalf("got %d items past the end", len(p.Items))
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 1, 2)
	p.Items[0] = 99
	if items[0] != 1 {
		t.Fatal("page items share backing array with the snapshot")
	}
}

func sampleListings() []*Listing {
	return []*Listing{
		{Title: "Backend Engineer", Company: "Acme", Location: "Bengaluru", Skills: []string{"Go", "MongoDB"}, Type: "full-time", WorkMode: "hybrid", Experience: 3, IsFeatured: true},
		{Title: "Frontend Intern", Company: "Pixel", Location: "Remote", Skills: []string{"React"}, Type: "part-time", WorkMode: "remote", Experience: 0},
		{Title: "Data Analyst", Company: "Numbers Inc", Location: "Pune", Skills: []string{"SQL", "Python"}, Type: "full-time", WorkMode: "onsite", Experience: 1},
		{Title: "Go Developer", Company: "Gopher Labs", Location: "bengaluru", Skills: []string{"go"}, Type: "contract", WorkMode: "remote", Experience: 5},
	}
}

func titles(ls []*Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Title
	}
	return out
}

func TestFilterListings(t *testing.T) {
	yes := true
	two := 2.0

	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{"no filter keeps all", ListingFilter{}, []string{"Backend Engineer", "Frontend Intern", "Data Analyst", "Go Developer"}},
		{"search matches skills case-insensitively", ListingFilter{Search: "  GO "}, []string{"Backend Engineer", "Go Developer"}},
		{"search matches company", ListingFilter{Search: "pixel"}, []string{"Frontend Intern"}},
		{"location substring", ListingFilter{Location: "BENGAL"}, []string{"Backend Engineer", "Go Developer"}},
		{"enum equality", ListingFilter{Type: "full-time", WorkMode: "onsite"}, []string{"Data Analyst"}},
		{"featured only", ListingFilter{Featured: &yes}, []string{"Backend Engineer"}},
		{"experience threshold", ListingFilter{MinExperience: &two}, []string{"Backend Engineer", "Go Developer"}},
		{"no match is empty", ListingFilter{Search: "rust"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(FilterListings(sampleListings(), tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterListingsIsIdempotent(t *testing.T) {
	snapshot := sampleListings()
	before := titles(snapshot)
	f := ListingFilter{Search: "go", WorkMode: "remote"}

	first := FilterListings(snapshot, f)
	second := FilterListings(snapshot, f)
	again := FilterListings(first, f)

	if !reflect.DeepEqual(titles(first), titles(second)) || !reflect.DeepEqual(titles(first), titles(again)) {
		t.Fatalf("filter not idempotent: %v / %v / %v", titles(first), titles(second), titles(again))
	}
	if !reflect.DeepEqual(before, titles(snapshot)) {
		t.Fatal("filter modified the snapshot")
	}
}

func TestFilterEventsByStatusAndFields(t *testing.T) {
	events := []*Event{
		{EventBasics: EventBasics{Title: "Go Hack", Category: "hackathon", Mode: "offline"}, EventVenue: EventVenue{City: "Delhi", RegistrationType: "free"}, Status: EventApproved},
		{EventBasics: EventBasics{Title: "Cloud Talk", Category: "webinar", Mode: "online"}, EventVenue: EventVenue{RegistrationType: "paid"}, Status: EventPending},
		{EventBasics: EventBasics{Title: "ML Meetup", Category: "meetup", Mode: "offline", Tags: []string{"go"}}, EventVenue: EventVenue{City: "Mumbai", RegistrationType: "free"}, Status: EventApproved},
	}

	got := FilterEvents(events, EventFilter{Status: EventApproved})
	if len(got) != 2 {
		t.Fatalf("approved filter kept %d, want 2", len(got))
	}
	got = FilterEvents(events, EventFilter{Search: "go"})
	if len(got) != 2 || got[0].Title != "Go Hack" || got[1].Title != "ML Meetup" {
		t.Fatalf("search by title or tag failed: %d results", len(got))
	}
	got = FilterEvents(events, EventFilter{Location: "mum"})
	if len(got) != 1 || got[0].Title != "ML Meetup" {
		t.Fatalf("location filter failed: %d results", len(got))
	}
	got = FilterEvents(events, EventFilter{RegistrationType: "PAID"})
	if len(got) != 1 || got[0].Title != "Cloud Talk" {
		t.Fatalf("registration type filter failed: %d results", len(got))
	}
}

func TestFilterUsers(t *testing.T) {
	blocked := true
	users := []*User{
		{UID: "1", Email: "ana@uni.edu", DisplayName: "Ana", Role: RoleAdmin},
		{UID: "2", Email: "bo@uni.edu", DisplayName: "Bo", Role: RoleUser, IsBlocked: true},
		{UID: "3", Email: "cy@mail.com", DisplayName: "Cy", Role: RoleUser},
	}
	if got := FilterUsers(users, UserFilter{Search: "uni.edu"}); len(got) != 2 {
		t.Errorf("search kept %d, want 2", len(got))
	}
	if got := FilterUsers(users, UserFilter{Role: RoleUser, Blocked: &blocked}); len(got) != 1 || got[0].UID != "2" {
		t.Errorf("role+blocked filter failed")
	}
}
