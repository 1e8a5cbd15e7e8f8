package http

import (
	"encoding/json"
	"net/http"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/httpx"
	"github.com/accredhub/accredhub/pkg/invitesdk"
)

// CampaignHandler serves the authenticated bulk-invite surface plus the
// public open-tracking endpoint.
type CampaignHandler struct {
	CampaignService *service.CampaignService
}

// HandleCreate godoc
//
//	@Summary		Create Campaign
//	@Description	Create a DRAFT bulk campaign with its recipient list. Duplicate and malformed
//	@Description	addresses are dropped; every recipient starts QUEUED. Nothing is sent until the
//	@Description	campaign is started.
//	@Tags			Campaigns
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.CreateCampaignRequest	true	"Campaign request"
//	@Success		201		{object}	invitesdk.Campaign		"campaign"
//	@Failure		400		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns [post].
func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req invitesdk.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	campaign, err := h.CampaignService.Create(r.Context(), actor,
		req.Name, req.Subject, req.Message,
		domain.Role(req.Role), req.InstitutionID, req.Recipients)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCampaign(campaign))
}

// HandleList godoc
//
//	@Summary		List Campaigns
//	@Description	Page campaigns newest first. Institution admins see only their own institution.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			page	query		int	false	"Page number (1-based)"
//	@Param			limit	query		int	false	"Page size (max 100)"
//	@Success		200		{object}	invitesdk.CampaignListResponse	"campaigns, total, page, limit"
//	@Failure		401		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns [get].
func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	page, limit := pageParams(r)
	campaigns, total, err := h.CampaignService.List(r.Context(), actor, store.CampaignFilter{
		InstitutionID: r.URL.Query().Get("institution_id"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := invitesdk.CampaignListResponse{
		Campaigns: make([]invitesdk.Campaign, 0, len(campaigns)),
		Total:     total,
		Page:      page,
		Limit:     limit,
	}
	for _, c := range campaigns {
		resp.Campaigns = append(resp.Campaigns, toCampaign(c))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary		Get Campaign
//	@Description	Fetch one campaign by ID.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			id	path		string					true	"Campaign ID"
//	@Success		200	{object}	invitesdk.Campaign		"campaign"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id} [get].
func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	campaign, err := h.CampaignService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCampaign(campaign))
}

// HandleRecipients godoc
//
//	@Summary		List Campaign Recipients
//	@Description	Page a campaign's recipients with optional status filter and email substring
//	@Description	search. Returns the total count for the filter.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			id		path		string	true	"Campaign ID"
//	@Param			page	query		int		false	"Page number (1-based)"
//	@Param			limit	query		int		false	"Page size (max 100)"
//	@Param			status	query		string	false	"Filter by status (QUEUED, SENT, OPENED, ACCEPTED, FAILED)"
//	@Param			search	query		string	false	"Email substring search"
//	@Success		200		{object}	invitesdk.RecipientListResponse	"recipients, total, page, limit"
//	@Failure		404		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/recipients [get].
func (h *CampaignHandler) HandleRecipients(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	page, limit := pageParams(r)
	recipients, total, err := h.CampaignService.ListRecipients(r.Context(), actor,
		r.PathValue("id"), store.RecipientFilter{
			Status: domain.RecipientStatus(r.URL.Query().Get("status")),
			Search: r.URL.Query().Get("search"),
			Page:   page,
			Limit:  limit,
		})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := invitesdk.RecipientListResponse{
		Recipients: make([]invitesdk.Recipient, 0, len(recipients)),
		Total:      total,
		Page:       page,
		Limit:      limit,
	}
	for _, rec := range recipients {
		resp.Recipients = append(resp.Recipients, toRecipient(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleStats godoc
//
//	@Summary		Campaign Status Counts
//	@Description	Per-status recipient totals for a campaign, for progress dashboards.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			id	path		string							true	"Campaign ID"
//	@Success		200	{object}	invitesdk.CampaignStatsResponse	"counts"
//	@Failure		404	{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/stats [get].
func (h *CampaignHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	counts, err := h.CampaignService.StatusCounts(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := invitesdk.CampaignStatsResponse{Counts: make(map[string]int, len(counts))}
	for status, n := range counts {
		resp.Counts[string(status)] = n
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleStart godoc
//
//	@Summary		Start Campaign
//	@Description	Move a DRAFT or PAUSED campaign into SENDING. The background sender then works
//	@Description	through its QUEUED recipients; resuming never re-sends already-delivered invites.
//	@Tags			Campaigns
//	@Param			id	path	string	true	"Campaign ID"
//	@Success		204	"no content"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/start [post].
func (h *CampaignHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.CampaignService.Start(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePause godoc
//
//	@Summary		Pause Campaign
//	@Description	Stop a SENDING campaign. Recipients still QUEUED wait until it resumes.
//	@Tags			Campaigns
//	@Param			id	path	string	true	"Campaign ID"
//	@Success		204	"no content"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/campaigns/{id}/pause [post].
func (h *CampaignHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.CampaignService.Pause(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTrackOpen godoc
//
//	@Summary		Track Campaign Email Open
//	@Description	Advance a recipient to OPENED, invoked from the tracking pixel in campaign
//	@Description	emails. Always answers 204; an unknown or already-advanced recipient is ignored.
//	@Tags			Campaigns
//	@Param			id	path	string	true	"Recipient ID"
//	@Success		204	"no content"
//	@Router			/v1/campaigns/track/open/{id} [get].
func (h *CampaignHandler) HandleTrackOpen(w http.ResponseWriter, r *http.Request) {
	h.CampaignService.TrackOpen(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
