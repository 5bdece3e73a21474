package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/hackeurope/platform/internal/platform/errors"
	"github.com/hackeurope/platform/internal/platform/id"
	"github.com/hackeurope/platform/internal/services/hackathon/flow"
	"github.com/hackeurope/platform/internal/services/hackathon/storage"
	"github.com/hackeurope/platform/internal/services/hackathon/team"
	"github.com/hackeurope/platform/internal/services/shared/profilecookie"
	"github.com/hackeurope/platform/internal/services/shared/respond"
	"go.uber.org/zap"
)

type requestCodeRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type challengeResponse struct {
	State           string    `json:"state"`
	Email           string    `json:"email"`
	CodeLength      int       `json:"codeLength"`
	ExpiresAt       time.Time `json:"expiresAt"`
	ResendNotBefore time.Time `json:"resendNotBefore"`
}

type recordResponse struct {
	Email        string    `json:"email"`
	TeamID       string    `json:"teamId"`
	IsTeamLeader bool      `json:"isTeamLeader"`
	CreatedAt    time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Registered bool               `json:"registered"`
	State      string             `json:"state"`
	Record     *recordResponse    `json:"record,omitempty"`
	Challenge  *challengeResponse `json:"challenge,omitempty"`
}

type memberResponse struct {
	Email    string    `json:"email"`
	IsLeader bool      `json:"isLeader"`
	JoinedAt time.Time `json:"joinedAt"`
}

type rosterResponse struct {
	TeamID     string           `json:"teamId"`
	InviteLink string           `json:"inviteLink"`
	Members    []memberResponse `json:"members"`
}

func (s *Server) challengeResponse(ch storage.Challenge) challengeResponse {
	return challengeResponse{
		State:           string(flow.StateAwaitingOTP),
		Email:           ch.Email,
		CodeLength:      s.otpCfg.CodeLength,
		ExpiresAt:       ch.ExpiresAt,
		ResendNotBefore: ch.ResendNotBefore,
	}
}

func recordResponseFrom(reg storage.Registration) recordResponse {
	return recordResponse{
		Email:        reg.Email,
		TeamID:       reg.TeamID,
		IsTeamLeader: reg.IsTeamLeader,
		CreatedAt:    reg.CreatedAt,
	}
}

// handleRequestCode validates the email, simulates code delivery, and stores
// a fresh challenge for the profile. A profile that was already verified may
// start over: the new registration replaces the old one once verified.
func (s *Server) handleRequestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeMalformedRequest, "decode request body", err))
		return
	}

	email, err := flow.ValidateEmail(req.Email, s.cfg.DomainSuffix)
	if err != nil {
		respond.Error(w, r, s.log, err)
		return
	}

	profileID, ok := profilecookie.Read(r)
	if !ok {
		profileID, err = id.NewID()
		if err != nil {
			respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "mint profile id", err))
			return
		}
		profilecookie.Write(w, r, profileID)
	}

	if err := s.codes.RequestCode(r.Context(), email); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "issue verification code", err))
		return
	}

	now := s.clock().UTC()
	ch := storage.Challenge{
		ProfileID:       profileID,
		Email:           email,
		InviteTeamID:    readInviteCookie(r),
		IssuedAt:        now,
		ExpiresAt:       now.Add(s.otpCfg.ChallengeTTL),
		ResendNotBefore: now.Add(s.otpCfg.ResendCooldown),
	}
	if err := s.store.PutChallenge(r.Context(), ch); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "store challenge", err))
		return
	}

	respond.JSON(w, http.StatusOK, s.challengeResponse(ch))
}

// handleVerify checks the submitted code against the pending challenge and,
// on acceptance, assigns the team and persists the registration record.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeMalformedRequest, "decode request body", err))
		return
	}

	profileID, ok := profilecookie.Read(r)
	if !ok {
		respond.Error(w, r, s.log, flow.ErrChallengeMissing)
		return
	}

	// Format failures are local and never consume a verification attempt.
	if err := flow.ValidateCode(req.Code, s.otpCfg.CodeLength); err != nil {
		respond.Error(w, r, s.log, err)
		return
	}

	if !s.beginVerify(profileID) {
		respond.Error(w, r, s.log, flow.ErrVerifyInProgress)
		return
	}
	defer s.endVerify(profileID)

	ch, err := s.store.GetChallenge(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if _, regErr := s.store.GetRegistration(r.Context(), profileID); regErr == nil {
				respond.Error(w, r, s.log, flow.ErrAlreadyVerified)
				return
			}
			respond.Error(w, r, s.log, flow.ErrChallengeMissing)
			return
		}
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "load challenge", err))
		return
	}

	now := s.clock().UTC()
	if now.After(ch.ExpiresAt) {
		_ = s.store.DeleteChallenge(r.Context(), profileID)
		respond.Error(w, r, s.log, flow.ErrChallengeExpired)
		return
	}

	accepted, err := s.codes.VerifyCode(r.Context(), ch.Email, req.Code)
	if err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "verify code", err))
		return
	}
	if !accepted {
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeOTPRejected, "verification code rejected"))
		return
	}

	teamID := ch.InviteTeamID
	leader := false
	if teamID == "" {
		teamID, err = s.newTeamID()
		if err != nil {
			respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "generate team id", err))
			return
		}
		leader = true
	}

	reg := storage.Registration{
		ProfileID:    profileID,
		Email:        ch.Email,
		TeamID:       teamID,
		IsTeamLeader: leader,
		CreatedAt:    now,
	}
	if err := s.store.PutRegistration(r.Context(), reg); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "store registration", err))
		return
	}
	member := team.Member{Email: ch.Email, IsLeader: leader, JoinedAt: now}
	if err := s.store.AddTeamMember(r.Context(), teamID, member); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "register team member", err))
		return
	}
	if err := s.store.DeleteChallenge(r.Context(), profileID); err != nil {
		s.log.Warn("clear challenge after verify", zap.String("profile_id", profileID), zap.Error(err))
	}
	clearInviteCookie(w)

	s.log.Info("registration verified",
		zap.String("team_id", teamID),
		zap.Bool("team_leader", leader))
	respond.JSON(w, http.StatusOK, recordResponseFrom(reg))
}

// handleResend re-issues the pending code once the cooldown has elapsed.
func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profilecookie.Read(r)
	if !ok {
		respond.Error(w, r, s.log, flow.ErrChallengeMissing)
		return
	}

	ch, err := s.store.GetChallenge(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if _, regErr := s.store.GetRegistration(r.Context(), profileID); regErr == nil {
				respond.Error(w, r, s.log, flow.ErrAlreadyVerified)
				return
			}
			respond.Error(w, r, s.log, flow.ErrChallengeMissing)
			return
		}
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "load challenge", err))
		return
	}

	now := s.clock().UTC()
	if now.After(ch.ExpiresAt) {
		_ = s.store.DeleteChallenge(r.Context(), profileID)
		respond.Error(w, r, s.log, flow.ErrChallengeExpired)
		return
	}
	if now.Before(ch.ResendNotBefore) {
		remaining := int((ch.ResendNotBefore.Sub(now) + time.Second - 1) / time.Second)
		respond.Error(w, r, s.log, flow.CooldownError(remaining))
		return
	}

	if err := s.codes.RequestCode(r.Context(), ch.Email); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "issue verification code", err))
		return
	}

	ch.IssuedAt = now
	ch.ExpiresAt = now.Add(s.otpCfg.ChallengeTTL)
	ch.ResendNotBefore = now.Add(s.otpCfg.ResendCooldown)
	if err := s.store.PutChallenge(r.Context(), ch); err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "store challenge", err))
		return
	}

	respond.JSON(w, http.StatusOK, s.challengeResponse(ch))
}

// handleSession reports where the profile sits in the flow so a returning
// browser can resume instead of starting over.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	profileID, ok := profilecookie.Read(r)
	if !ok {
		respond.JSON(w, http.StatusOK, sessionResponse{State: string(flow.StateEnteringEmail)})
		return
	}

	reg, err := s.store.GetRegistration(r.Context(), profileID)
	if err == nil {
		record := recordResponseFrom(reg)
		respond.JSON(w, http.StatusOK, sessionResponse{
			Registered: true,
			State:      string(flow.StateVerified),
			Record:     &record,
		})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "load registration", err))
		return
	}

	ch, err := s.store.GetChallenge(r.Context(), profileID)
	if err == nil && s.clock().UTC().Before(ch.ExpiresAt) {
		pending := s.challengeResponse(ch)
		respond.JSON(w, http.StatusOK, sessionResponse{
			State:     string(flow.StateAwaitingOTP),
			Challenge: &pending,
		})
		return
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "load challenge", err))
		return
	}

	respond.JSON(w, http.StatusOK, sessionResponse{State: string(flow.StateEnteringEmail)})
}

// handleRoster returns the member list for the caller's own team. Any other
// team id is denied without revealing whether it exists.
func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	requested, err := team.NormalizeID(r.PathValue("teamID"))
	if err != nil {
		respond.Error(w, r, s.log, err)
		return
	}

	profileID, ok := profilecookie.Read(r)
	if !ok {
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeRosterAccessDenied, "no registered profile"))
		return
	}
	reg, err := s.store.GetRegistration(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, r, s.log, apperrors.New(apperrors.CodeRosterAccessDenied, "no registered profile"))
			return
		}
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "load registration", err))
		return
	}
	if reg.TeamID != requested {
		respond.Error(w, r, s.log, apperrors.New(apperrors.CodeRosterAccessDenied, "roster belongs to another team"))
		return
	}

	members, err := s.store.ListTeamMembers(r.Context(), requested)
	if err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "list team members", err))
		return
	}
	link, err := team.InviteLink(s.cfg.InviteBaseURL, requested)
	if err != nil {
		respond.Error(w, r, s.log, apperrors.Wrap(apperrors.CodeUnknown, "build invite link", err))
		return
	}

	response := rosterResponse{
		TeamID:     requested,
		InviteLink: link,
		Members:    make([]memberResponse, 0, len(members)),
	}
	for _, member := range members {
		response.Members = append(response.Members, memberResponse{
			Email:    member.Email,
			IsLeader: member.IsLeader,
			JoinedAt: member.JoinedAt,
		})
	}
	respond.JSON(w, http.StatusOK, response)
}

// handleJoin consumes an invite link. A well-formed team id is remembered for
// the upcoming flow; anything else falls through to organic entry.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get(team.InviteParam)
	if teamID, err := team.NormalizeID(raw); err == nil {
		writeInviteCookie(w, r, teamID)
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
