package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/hackeurope/platform/internal/platform/errors"
	"github.com/hackeurope/platform/internal/services/shared/respond"
	"github.com/hackeurope/platform/internal/services/waitlist/storage"
	"go.uber.org/zap"
)

type joinRequest struct {
	Email string `json:"email"`
}

type configResponse struct {
	Configured bool   `json:"configured"`
	URL        string `json:"url,omitempty"`
	AnonKey    string `json:"anonKey,omitempty"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type joinResponse struct {
	Joined        bool `json:"joined"`
	AlreadyJoined bool `json:"alreadyJoined"`
}

// handleConfig publishes the hosted-service settings for browser clients.
// An incomplete configuration is a valid informational state, not an error.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Configured() {
		respond.JSON(w, http.StatusOK, configResponse{Configured: false})
		return
	}
	respond.JSON(w, http.StatusOK, configResponse{
		Configured: true,
		URL:        s.cfg.HostedURL,
		AnonKey:    s.cfg.HostedAnonKey,
	})
}

// handleCount reports the waitlist size, serving from the cache when it
// holds a fresh value.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if count, ok := s.counts.Get(r.Context()); ok {
		respond.JSON(w, http.StatusOK, countResponse{Count: count})
		return
	}

	count, err := s.store.CountMembers(r.Context())
	if err != nil {
		s.log.Error("count waitlist members", zap.Error(err))
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeWaitlistUnavailable, "waitlist count unavailable"))
		return
	}
	s.counts.Set(r.Context(), count)
	respond.JSON(w, http.StatusOK, countResponse{Count: count})
}

// handleJoin adds an email to the waitlist. Joining twice is reported as
// success, so the endpoint is safe to retry.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeMalformedRequest, "request body must be JSON"))
		return
	}
	email, err := normalizeJoinEmail(req.Email)
	if err != nil {
		respond.Error(w, r, s.log, err)
		return
	}

	member := storage.Member{
		ID:       s.newMemberID(),
		Email:    email,
		JoinedAt: s.clock().UTC(),
	}
	err = s.store.JoinWaitlist(r.Context(), member)
	switch {
	case err == nil:
		s.counts.Invalidate(r.Context())
		s.log.Info("waitlist member joined", zap.String("member_id", member.ID))
		respond.JSON(w, http.StatusCreated, joinResponse{Joined: true})
	case errors.Is(err, storage.ErrAlreadyJoined):
		respond.JSON(w, http.StatusOK, joinResponse{Joined: true, AlreadyJoined: true})
	default:
		s.log.Error("join waitlist", zap.Error(err))
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeWaitlistUnavailable, "could not join the waitlist"))
	}
}

// normalizeJoinEmail lowercases the address and rejects values that could
// not be an email. The waitlist is open to any domain, so only the rough
// shape is checked.
func normalizeJoinEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", apperrors.New(apperrors.CodeEmailInvalid, "enter a valid email address")
	}
	return email, nil
}
