package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bitez/platform/internal/core/domain"
	"github.com/bitez/platform/internal/core/ports"
)

type stubProfileService struct {
	profiles map[uuid.UUID]*domain.UserProfile
	lastIn   ports.ProfilePatch
}

func newStubProfiles() *stubProfileService {
	return &stubProfileService{profiles: map[uuid.UUID]*domain.UserProfile{}}
}

func (s *stubProfileService) Create(_ context.Context, userID uuid.UUID, in ports.ProfileInput) (*domain.UserProfile, error) {
	s.lastIn = in
	if _, ok := s.profiles[userID]; ok {
		return nil, domain.ErrProfileExists
	}
	p := &domain.UserProfile{ID: "65a0c0ffee", UserID: userID, FirstName: in.FirstName, DateOfBirth: in.DateOfBirth}
	s.profiles[userID] = p
	return p, nil
}

func (s *stubProfileService) Get(_ context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *stubProfileService) Update(_ context.Context, userID uuid.UUID, patch ports.ProfilePatch) (*domain.UserProfile, error) {
	s.lastIn = patch
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if patch.Bio != nil {
		p.Bio = patch.Bio
	}
	return p, nil
}

func (s *stubProfileService) Delete(_ context.Context, userID uuid.UUID) error {
	if _, ok := s.profiles[userID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(s.profiles, userID)
	return nil
}

func TestProfileHandler_CreateAndGet(t *testing.T) {
	svc := newStubProfiles()
	h := NewProfileHandler(svc)
	u := testUser()

	c, rec := newTestContext(http.MethodPost, "/profiles", `{"first_name":"Ana","date_of_birth":"1990-04-12"}`)
	c.Set("user", u)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastIn.DateOfBirth == nil || !svc.lastIn.DateOfBirth.Equal(time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date of birth not parsed: %v", svc.lastIn.DateOfBirth)
	}
	resp := decode(t, rec)
	if resp["date_of_birth"] != "1990-04-12" || resp["user_id"] != u.ID.String() {
		t.Fatalf("unexpected body: %v", resp)
	}
	if prefs, ok := resp["preferences"].(map[string]any); !ok || len(prefs) != 0 {
		t.Fatalf("expected empty preferences object, got %v", resp["preferences"])
	}

	c, rec = newTestContext(http.MethodGet, "/profiles/me", "")
	c.Set("user", u)
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode(t, rec); resp["first_name"] != "Ana" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestProfileHandler_CreateTwice(t *testing.T) {
	h := NewProfileHandler(newStubProfiles())
	u := testUser()

	for i, want := range []error{nil, domain.ErrProfileExists} {
		c, _ := newTestContext(http.MethodPost, "/profiles", `{}`)
		c.Set("user", u)
		if err := h.Create(c); !errors.Is(err, want) {
			t.Fatalf("call %d: expected %v, got %v", i, want, err)
		}
	}
}

func TestProfileHandler_InvalidFields(t *testing.T) {
	h := NewProfileHandler(newStubProfiles())

	c, _ := newTestContext(http.MethodPost, "/profiles", `{"date_of_birth":"12/04/1990","avatar_url":"nope"}`)
	c.Set("user", testUser())
	err := h.Create(c)

	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, _ := de.Details["fields"].(map[string]any)
	for _, f := range []string{"date_of_birth", "avatar_url"} {
		if _, ok := fields[f]; !ok {
			t.Fatalf("expected %s in %v", f, fields)
		}
	}
}

func TestProfileHandler_UpdateAndDelete(t *testing.T) {
	svc := newStubProfiles()
	h := NewProfileHandler(svc)
	u := testUser()

	c, _ := newTestContext(http.MethodPut, "/profiles/me", `{"bio":"hi"}`)
	c.Set("user", u)
	if err := h.Update(c); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected not found before create, got %v", err)
	}

	svc.profiles[u.ID] = &domain.UserProfile{ID: "x", UserID: u.ID}
	c, rec := newTestContext(http.MethodPut, "/profiles/me", `{"bio":"hi"}`)
	c.Set("user", u)
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.lastIn.FirstName != nil {
		t.Fatal("absent fields must stay nil in the patch")
	}
	if resp := decode(t, rec); resp["bio"] != "hi" {
		t.Fatalf("unexpected body: %v", resp)
	}

	c, rec = newTestContext(http.MethodDelete, "/profiles/me", "")
	c.Set("user", u)
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestProfileHandler_RequiresPrincipal(t *testing.T) {
	h := NewProfileHandler(newStubProfiles())

	c, _ := newTestContext(http.MethodGet, "/profiles/me", "")
	if code := statusOf(t, h.Get(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
