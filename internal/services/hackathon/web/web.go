// Package web renders the server-side registration dashboard.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
	"github.com/hackeurope/platform/internal/services/shared/i18nhttp"
	"github.com/hackeurope/platform/internal/services/shared/profilecookie"
	"go.uber.org/zap"
)

// RegistrationReader is the read surface the dashboard needs.
type RegistrationReader interface {
	GetRegistration(ctx context.Context, profileID string) (storage.Registration, error)
	ListTeamMembers(ctx context.Context, teamID string) ([]team.Member, error)
}

// Server renders registration pages for browsers.
type Server struct {
	store         RegistrationReader
	inviteBaseURL string
	log           *zap.Logger
}

// New builds a page server over the registration store.
func New(store RegistrationReader, inviteBaseURL string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:         store,
		inviteBaseURL: inviteBaseURL,
		log:           log,
	}
}

// RegisterRoutes registers page endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	if s == nil || mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /dashboard", s.handleDashboard)
}

type dashboardView struct {
	Registered bool
	Email      string
	TeamID     string
	IsLeader   bool
	InviteLink string
	Members    []memberView
}

type memberView struct {
	Email    string
	IsLeader bool
	Joined   string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if tag, persist := i18nhttp.ResolveTag(r); persist {
		i18nhttp.SetLanguageCookie(w, tag)
	}

	view := dashboardView{}

	profileID, ok := profilecookie.Read(r)
	if ok {
		reg, err := s.store.GetRegistration(r.Context(), profileID)
		switch {
		case err == nil:
			view.Registered = true
			view.Email = reg.Email
			view.TeamID = reg.TeamID
			view.IsLeader = reg.IsTeamLeader
		case errors.Is(err, storage.ErrNotFound):
			// Fall through to the unregistered view.
		default:
			s.log.Error("load registration for dashboard", zap.Error(err))
			http.Error(w, "failed to load registration", http.StatusInternalServerError)
			return
		}
	}

	if view.Registered {
		members, err := s.store.ListTeamMembers(r.Context(), view.TeamID)
		if err != nil {
			s.log.Error("load roster for dashboard", zap.Error(err))
			http.Error(w, "failed to load roster", http.StatusInternalServerError)
			return
		}
		for _, member := range members {
			view.Members = append(view.Members, memberView{
				Email:    member.Email,
				IsLeader: member.IsLeader,
				Joined:   member.JoinedAt.Format("Jan 2, 15:04 MST"),
			})
		}
		link, err := team.InviteLink(s.inviteBaseURL, view.TeamID)
		if err != nil {
			s.log.Error("build invite link for dashboard", zap.Error(err))
			http.Error(w, "failed to build invite link", http.StatusInternalServerError)
			return
		}
		view.InviteLink = link
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "dashboard.html", view); err != nil {
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
	}
}
