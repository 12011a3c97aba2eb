package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/careerportal/internal/fakes"
	"github.com/joshua-takyi/careerportal/internal/helpers"
	"github.com/joshua-takyi/careerportal/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEvent(title string) *models.Event {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &models.Event{
		EventBasics: models.EventBasics{
			Title:       title,
			Category:    "workshop",
			Description: "A hands-on session for students who want to ship.",
			Mode:        "online",
		},
		EventOrganizer: models.EventOrganizer{OrganizerName: "Dev Club", OrganizerEmail: "dev@uni.edu"},
		EventSchedule:  models.EventSchedule{StartDate: start, EndDate: start.Add(3 * time.Hour)},
		EventVenue:     models.EventVenue{RegistrationType: "free"},
	}
}

func TestSubmittedEventIsHiddenUntilApproved(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())

	e := newEvent("Intro to Go")
	e.Status = models.EventApproved // client cannot self-approve
	created, err := es.Submit(ctx, e, "uid-1")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if created.Status != models.EventPending || created.SubmittedBy != "uid-1" {
		t.Fatalf("got status=%q submittedBy=%q", created.Status, created.SubmittedBy)
	}

	page, err := es.ListPublic(ctx, models.EventFilter{}, 1, 0)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("pending event visible in public listing")
	}
	if _, err := es.GetPublic(ctx, created.ID.Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("public detail of pending event: got %v, want ErrNotFound", err)
	}

	if _, err := es.Approve(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	page, _ = es.ListPublic(ctx, models.EventFilter{}, 1, 0)
	if page.Total != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("approved event missing from public listing")
	}
	if _, err := es.GetPublic(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("GetPublic after approval: %v", err)
	}
}

func TestApproveIsOneWay(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	created, _ := es.Submit(ctx, newEvent("Cloud 101"), "")

	if _, err := es.Approve(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	_, err := es.Approve(ctx, created.ID.Hex())
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("second approve: got %v, want ErrInvalidTransition", err)
	}
	if helpers.StatusFromError(err) != 409 {
		t.Fatalf("second approve maps to %d, want 409", helpers.StatusFromError(err))
	}
}

func TestApproveAndRejectMissingEvent(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	missing := "64b7f0c2a1b2c3d4e5f60718"

	if _, err := es.Approve(ctx, missing); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("approve missing: got %v", err)
	}
	if err := es.Reject(ctx, missing); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("reject missing: got %v", err)
	}
	if _, err := es.Approve(ctx, "not-an-id"); !errors.Is(err, models.ErrInvalidID) {
		t.Errorf("approve bad id: got %v", err)
	}
}

func TestRejectRemovesEvent(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	created, _ := es.Submit(ctx, newEvent("Resume Clinic"), "")

	if err := es.Reject(ctx, created.ID.Hex()); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := es.GetAdmin(ctx, created.ID.Hex()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("rejected event still stored: %v", err)
	}
}

func TestPublicListingPagesByNine(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	for i := 1; i <= 12; i++ {
		created, err := es.Submit(ctx, newEvent(fmt.Sprintf("Event %02d", i)), "")
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if _, err := es.Approve(ctx, created.ID.Hex()); err != nil {
			t.Fatalf("Approve: %v", err)
		}
	}
	// one pending event that must never show up
	if _, err := es.Submit(ctx, newEvent("Event pending"), ""); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	p1, _ := es.ListPublic(ctx, models.EventFilter{}, 1, 0)
	p2, _ := es.ListPublic(ctx, models.EventFilter{}, 2, 0)
	p3, _ := es.ListPublic(ctx, models.EventFilter{}, 3, 0)

	if len(p1.Items) != 9 || len(p2.Items) != 3 || len(p3.Items) != 0 || p3.Items == nil {
		t.Fatalf("page sizes %d/%d/%d", len(p1.Items), len(p2.Items), len(p3.Items))
	}
	if p1.Total != 12 || p1.TotalPages != 2 {
		t.Fatalf("total=%d totalPages=%d", p1.Total, p1.TotalPages)
	}
	// newest first
	if p1.Items[0].Title != "Event 12" || p2.Items[2].Title != "Event 01" {
		t.Fatalf("unexpected order: first=%q last=%q", p1.Items[0].Title, p2.Items[2].Title)
	}
}

func TestAdminListingByStatus(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	a, _ := es.Submit(ctx, newEvent("Approved one"), "")
	_, _ = es.Submit(ctx, newEvent("Pending one"), "")
	_, _ = es.Approve(ctx, a.ID.Hex())

	all, _ := es.ListAdmin(ctx, models.EventFilter{}, 1, 0)
	pending, _ := es.ListAdmin(ctx, models.EventFilter{Status: models.EventPending}, 1, 0)
	if all.Total != 2 || pending.Total != 1 || pending.Items[0].Title != "Pending one" {
		t.Fatalf("all=%d pending=%d", all.Total, pending.Total)
	}
	if all.Size != models.AdminPageSize {
		t.Fatalf("admin page size = %d", all.Size)
	}
	if _, err := es.ListAdmin(ctx, models.EventFilter{Status: "rejected"}, 1, 0); !errors.Is(err, helpers.ErrValidation) {
		t.Fatalf("unknown status: got %v", err)
	}
}

func TestAdminEditKeepsStatus(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	created, _ := es.Submit(ctx, newEvent("Old title"), "")

	title := "New title"
	updated, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "New title" || updated.Status != models.EventPending {
		t.Fatalf("got title=%q status=%q", updated.Title, updated.Status)
	}
	if _, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{}); !errors.Is(err, helpers.ErrValidation) {
		t.Fatalf("empty update: got %v", err)
	}
}

func TestAdminEditChecksDatesAndRequiredFields(t *testing.T) {
	ctx := context.Background()
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	created, _ := es.Submit(ctx, newEvent("Schedule check"), "")

	before := created.StartDate.Add(-time.Hour)
	if _, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{EndDate: &before}); !errors.Is(err, helpers.ErrValidation) {
		t.Fatalf("end before stored start: got %v", err)
	}
	after := created.EndDate.Add(time.Hour)
	if _, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{StartDate: &after}); !errors.Is(err, helpers.ErrValidation) {
		t.Fatalf("start after stored end: got %v", err)
	}

	blank := "  "
	if _, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{OrganizerName: &blank}); helpers.StatusFromError(err) != 400 {
		t.Fatalf("blank organizer: got %v", err)
	}

	site := "https://devclub.example.org"
	updated, err := es.Update(ctx, created.ID.Hex(), models.EventUpdate{OrganizerWebsite: &site})
	if err != nil {
		t.Fatalf("Update website: %v", err)
	}
	if updated.OrganizerWebsite != site || updated.OrganizerName != "Dev Club" {
		t.Fatalf("got website=%q organizer=%q", updated.OrganizerWebsite, updated.OrganizerName)
	}
}

func TestValidateStepErrorsAreValidationErrors(t *testing.T) {
	es := NewEventService(fakes.NewStore(), nil, testLogger())
	e := newEvent("Offline meetup")
	e.Mode = "offline"

	err := es.ValidateStep(e, models.StepVenue)
	if helpers.StatusFromError(err) != 400 {
		t.Fatalf("missing location: got %v", err)
	}
	err = es.ValidateStep(e, 42)
	if !errors.Is(err, helpers.ErrValidation) || !strings.Contains(err.Error(), "unknown wizard step") {
		t.Fatalf("unknown step: got %v", err)
	}
	if err := es.ValidateStep(e, models.StepBasics); err != nil {
		t.Fatalf("basics: %v", err)
	}
}

func TestBannerUploads(t *testing.T) {
	ctx := context.Background()
	store := fakes.NewStore()

	if _, err := NewEventService(store, nil, testLogger()).UploadBanner(ctx, strings.NewReader("png"), ""); !errors.Is(err, helpers.ErrUnavailable) {
		t.Fatalf("no uploader: got %v", err)
	}

	up := &fakes.Uploader{}
	es := NewEventService(store, up, testLogger())
	created, _ := es.Submit(ctx, newEvent("Design sprint"), "")
	updated, err := es.SetBanner(ctx, created.ID.Hex(), strings.NewReader("png"))
	if err != nil {
		t.Fatalf("SetBanner: %v", err)
	}
	if !strings.Contains(updated.BannerURL, helpers.EventsFolder+"/1") {
		t.Fatalf("banner url = %q", updated.BannerURL)
	}
}
