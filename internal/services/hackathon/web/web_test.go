package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
	"github.com/hackeurope/platform/internal/services/shared/i18nhttp"
	"github.com/hackeurope/platform/internal/services/shared/profilecookie"
)

type fakeReader struct {
	registrations map[string]storage.Registration
	members       map[string][]team.Member
}

func (f *fakeReader) GetRegistration(_ context.Context, profileID string) (storage.Registration, error) {
	reg, ok := f.registrations[profileID]
	if !ok {
		return storage.Registration{}, storage.ErrNotFound
	}
	return reg, nil
}

func (f *fakeReader) ListTeamMembers(_ context.Context, teamID string) ([]team.Member, error) {
	return f.members[teamID], nil
}

func TestDashboardRendersRoster(t *testing.T) {
	joined := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	reader := &fakeReader{
		registrations: map[string]storage.Registration{
			"profile-1": {
				ProfileID:    "profile-1",
				Email:        "alice@ed.ac.uk",
				TeamID:       "QX7ZK2MN",
				IsTeamLeader: true,
				CreatedAt:    joined,
			},
		},
		members: map[string][]team.Member{
			"QX7ZK2MN": {
				{Email: "alice@ed.ac.uk", IsLeader: true, JoinedAt: joined},
				{Email: "bob@ed.ac.uk", JoinedAt: joined.Add(time.Hour)},
			},
		},
	}
	server := New(reader, "https://hack.example/join", nil)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: profilecookie.Name, Value: "profile-1"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Team QX7ZK2MN",
		"alice@ed.ac.uk",
		"bob@ed.ac.uk",
		"https://hack.example/join?t=QX7ZK2MN",
		"team leader",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard body missing %q", want)
		}
	}
}

func TestDashboardWithoutRegistrationShowsStartPage(t *testing.T) {
	server := New(&fakeReader{}, "https://hack.example/join", nil)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not registered yet") {
		t.Fatal("expected the unregistered view")
	}
}

func TestDashboardPersistsLanguageSelection(t *testing.T) {
	server := New(&fakeReader{}, "https://hack.example/join", nil)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/dashboard?lang=pt-BR", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var langCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == i18nhttp.LangCookieName {
			langCookie = cookie
		}
	}
	if langCookie == nil {
		t.Fatal("expected a language cookie")
	}
	if langCookie.Value != "pt-BR" {
		t.Fatalf("lang cookie = %q, want pt-BR", langCookie.Value)
	}
}
