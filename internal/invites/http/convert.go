package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/pkg/httpx"
	"github.com/accredhub/accredhub/pkg/invitesdk"
)

func toInvite(inv domain.Invite, now time.Time) invitesdk.Invite {
	return invitesdk.Invite{
		ID:            inv.ID,
		Email:         inv.Email,
		Role:          string(inv.Role),
		InstitutionID: inv.InstitutionID,
		Status:        string(inv.StatusAt(now)),
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		ExpiresAt:     inv.ExpiresAt,
		ViewedAt:      inv.ViewedAt,
		UsedAt:        inv.UsedAt,
		UsedBy:        inv.UsedBy,
		DeclinedAt:    inv.DeclinedAt,
		DeclineReason: string(inv.DeclineReason),
		DeclineNote:   inv.DeclineNote,
	}
}

func toCampaign(c domain.Campaign) invitesdk.Campaign {
	return invitesdk.Campaign{
		ID:            c.ID,
		Name:          c.Name,
		Subject:       c.Subject,
		Message:       c.Message,
		Role:          string(c.Role),
		InstitutionID: c.InstitutionID,
		Status:        string(c.Status),
		CreatedBy:     c.CreatedBy,
		CreatedAt:     c.CreatedAt,
	}
}

func toRecipient(r domain.CampaignRecipient) invitesdk.Recipient {
	return invitesdk.Recipient{
		ID:            r.ID,
		CampaignID:    r.CampaignID,
		Email:         r.Email,
		InviteID:      r.InviteID,
		Status:        string(r.Status),
		FailureReason: r.FailureReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// actorFromContext builds the explicit caller identity from the verified
// token claims injected by the authn middleware.
func actorFromContext(ctx context.Context) (service.Actor, bool) {
	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok || claims.Subject == "" {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:        claims.Subject,
		Role:          domain.Role(claims.Role),
		InstitutionID: claims.InstitutionID,
	}, true
}

// pageParams parses 1-based pagination from the query string.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func writeUnauthorized(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnauthorized, invitesdk.ErrorResponse{
		Error:            "unauthorized",
		ErrorDescription: "Authentication required",
	})
}

// writeServiceError maps service-layer sentinel errors onto the wire
// taxonomy. Unknown errors are treated as transient and safe to retry.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInviteNotFound),
		errors.Is(err, service.ErrCampaignNotFound):
		// Deliberately vague so token probing cannot confirm existence.
		httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Invalid invite",
		})

	case errors.Is(err, service.ErrInviteAlreadyUsed):
		httpx.WriteJSON(w, http.StatusConflict, invitesdk.ErrorResponse{
			Error:            "invalid_state",
			ErrorDescription: "Invite has already been used",
		})
	case errors.Is(err, service.ErrInviteExpired):
		httpx.WriteJSON(w, http.StatusConflict, invitesdk.ErrorResponse{
			Error:            "invalid_state",
			ErrorDescription: "Invite has expired",
		})
	case errors.Is(err, service.ErrInviteDeclined):
		httpx.WriteJSON(w, http.StatusConflict, invitesdk.ErrorResponse{
			Error:            "invalid_state",
			ErrorDescription: "Invite is no longer valid",
		})
	case errors.Is(err, service.ErrInvalidCampaignState):
		httpx.WriteJSON(w, http.StatusConflict, invitesdk.ErrorResponse{
			Error:            "invalid_state",
			ErrorDescription: "Campaign is not in a state that allows this",
		})

	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidDeclineReason),
		errors.Is(err, service.ErrInvalidInviteRequest),
		errors.Is(err, service.ErrInvalidCampaignRequest),
		errors.Is(err, service.ErrNoRecipients),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInstitutionNotFound):
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})

	case errors.Is(err, service.ErrPermissionDenied):
		httpx.WriteJSON(w, http.StatusForbidden, invitesdk.ErrorResponse{
			Error:            "forbidden",
			ErrorDescription: "You do not have access to this resource",
		})

	default:
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Something went wrong, please try again",
		})
	}
}
