package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/pkg/httpx"
	"github.com/accredhub/accredhub/pkg/invitesdk"
	"github.com/accredhub/accredhub/pkg/slogx"
)

// InvitePublicHandler serves the unauthenticated invite-link flow: the
// token in the emailed link is the sole credential for every operation.
type InvitePublicHandler struct {
	InviteService *service.InviteService
}

// HandleValidate godoc
//
//	@Summary		Validate Invite Token
//	@Description	Resolve an invite token to its current lifecycle state. Returns whether the invite
//	@Description	is still acceptable and, when it is, the invite details plus whether an account
//	@Description	already exists for the invited email (routes the caller to login vs signup).
//	@Description	Validation never mutates the invite; view tracking is a separate call.
//	@Tags			Invites
//	@Produce		json
//	@Param			token	query		string					true	"Invite token from the emailed link"
//	@Success		200		{object}	invitesdk.ValidateResponse	"valid, invite, existing_user, reason"
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invites/validate [get].
func (h *InvitePublicHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token is required",
		})
		return
	}

	result, err := h.InviteService.Validate(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := invitesdk.ValidateResponse{
		Valid:  result.Valid,
		Reason: result.Reason,
	}
	if result.Valid {
		invite := toInvite(result.Invite, time.Now().UTC())
		resp.Invite = &invite
		resp.ExistingUser = result.ExistingUser
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleTrackView godoc
//
//	@Summary		Track Invite View
//	@Description	Record that the invite link was opened. Best effort: the response is 204 even
//	@Description	when the token matches nothing, so this call can never break the invite page.
//	@Tags			Invites
//	@Accept			json
//	@Param			request	body	invitesdk.TrackViewRequest	true	"Track view request"
//	@Success		204		"no content"
//	@Router			/v1/invites/track/view [post].
func (h *InvitePublicHandler) HandleTrackView(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.TrackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.InviteService.TrackView(r.Context(), req.Token)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAccept godoc
//
//	@Summary		Accept Invite
//	@Description	Consume a pending invite. Creates an account bound to the invite's email, role
//	@Description	and institution, or re-binds an existing account with that email. The invite
//	@Description	state is re-checked at submit time; a stale form surfaces invalid_state.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.AcceptRequest		true	"Accept request"
//	@Success		200		{object}	invitesdk.AcceptResponse	"user_id, email, name, role, institution_id"
//	@Failure		400		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	invitesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/invites/accept [post].
func (h *InvitePublicHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req invitesdk.AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token is required",
		})
		return
	}

	user, err := h.InviteService.Accept(r.Context(), req.Token, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Debug("invite accepted over http", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, invitesdk.AcceptResponse{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          string(user.Role),
		InstitutionID: user.InstitutionID,
	})
}

// HandleDecline godoc
//
//	@Summary		Decline Invite
//	@Description	Record a terminal refusal with an enumerated reason. Free-text detail is stored
//	@Description	only with the "other" reason. A declined invite can never be accepted afterwards.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body	invitesdk.DeclineRequest	true	"Decline request"
//	@Success		204		"no content"
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invites/decline [post].
func (h *InvitePublicHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	var req invitesdk.DeclineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token is required",
		})
		return
	}

	err := h.InviteService.Decline(r.Context(), req.Token,
		domain.DeclineReason(req.Reason), req.ReasonOther)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
