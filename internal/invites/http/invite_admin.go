package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/httpx"
	"github.com/accredhub/accredhub/pkg/invitesdk"
)

// InviteAdminHandler serves the authenticated administrative surface for
// single invites.
type InviteAdminHandler struct {
	InviteService *service.InviteService
}

// HandleCreate godoc
//
//	@Summary		Create Invite
//	@Description	Mint a single invite for an email address. The response carries the raw token
//	@Description	exactly once; only its fingerprint is stored. Institution admins may only invite
//	@Description	into their own institution and only with institution-scoped roles.
//	@Tags			Invites Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.CreateInviteRequest	true	"Invite request"
//	@Success		201		{object}	invitesdk.CreateInviteResponse	"invite, token"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteAdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req invitesdk.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	invite, token, err := h.InviteService.CreateInvite(r.Context(), actor,
		req.Email, domain.Role(req.Role), req.InstitutionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.CreateInviteResponse{
		Invite: toInvite(invite, time.Now().UTC()),
		Token:  token,
	})
}

// HandleList godoc
//
//	@Summary		List Invites
//	@Description	Page invites newest first. Supports filtering by institution and an email
//	@Description	substring search. Institution admins always see only their own institution.
//	@Tags			Invites Admin
//	@Produce		json
//	@Param			page			query		int		false	"Page number (1-based)"
//	@Param			limit			query		int		false	"Page size (max 100)"
//	@Param			institution_id	query		string	false	"Filter by institution"
//	@Param			search			query		string	false	"Email substring search"
//	@Success		200				{object}	invitesdk.InviteListResponse	"invites, total, page, limit"
//	@Failure		401				{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		403				{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [get].
func (h *InviteAdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	page, limit := pageParams(r)
	invites, total, err := h.InviteService.List(r.Context(), actor, store.InviteFilter{
		InstitutionID: r.URL.Query().Get("institution_id"),
		Search:        r.URL.Query().Get("search"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := time.Now().UTC()
	resp := invitesdk.InviteListResponse{
		Invites: make([]invitesdk.Invite, 0, len(invites)),
		Total:   total,
		Page:    page,
		Limit:   limit,
	}
	for _, inv := range invites {
		resp.Invites = append(resp.Invites, toInvite(inv, now))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary		Get Invite
//	@Description	Fetch one invite by ID with its derived lifecycle status.
//	@Tags			Invites Admin
//	@Produce		json
//	@Param			id	path		string				true	"Invite ID"
//	@Success		200	{object}	invitesdk.Invite	"invite"
//	@Failure		401	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id} [get].
func (h *InviteAdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	invite, err := h.InviteService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvite(invite, time.Now().UTC()))
}

// HandleEdit godoc
//
//	@Summary		Edit Invite
//	@Description	Change an unused invite's role or replace its expiry with a fresh 7-day window.
//	@Description	Extending the expiry resurrects an expired-but-unused invite. A used invite can
//	@Description	never be edited.
//	@Tags			Invites Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Invite ID"
//	@Param			request	body		invitesdk.EditInviteRequest	true	"Changes to apply"
//	@Success		200		{object}	invitesdk.Invite		"updated invite"
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id} [patch].
func (h *InviteAdminHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req invitesdk.EditInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	invite, err := h.InviteService.Edit(r.Context(), actor, r.PathValue("id"), service.EditRequest{
		Role:         domain.Role(req.Role),
		ExtendExpiry: req.ExtendExpiry,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvite(invite, time.Now().UTC()))
}
