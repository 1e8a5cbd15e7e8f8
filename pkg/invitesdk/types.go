package invitesdk

import "time"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g. "invalid_request",
	// "invalid_state", "not_found")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// Invite is the wire representation of an invite. The raw token never
// appears here; it is returned exactly once from the create endpoint.
type Invite struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	InstitutionID string `json:"institution_id,omitempty"`

	// Status is derived at response time: PENDING, USED, EXPIRED or DECLINED.
	Status string `json:"status"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ViewedAt *time.Time `json:"viewed_at,omitempty"`
	UsedAt   *time.Time `json:"used_at,omitempty"`
	UsedBy   string     `json:"used_by,omitempty"`

	DeclinedAt    *time.Time `json:"declined_at,omitempty"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	DeclineNote   string     `json:"decline_note,omitempty"`
}

// CreateInviteRequest mints a single invite.
type CreateInviteRequest struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	InstitutionID string `json:"institution_id,omitempty"`
}

// CreateInviteResponse carries the new invite and its raw token. Store
// the token now: it cannot be retrieved again.
type CreateInviteResponse struct {
	Invite Invite `json:"invite"`
	Token  string `json:"token"`
}

// ValidateResponse is the outcome of GET /v1/invites/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`

	// Reason explains a false Valid: "already used", "expired" or
	// "no longer valid".
	Reason string `json:"reason,omitempty"`

	Invite       *Invite `json:"invite,omitempty"`
	ExistingUser bool    `json:"existing_user,omitempty"`
}

// TrackViewRequest stamps an invite as viewed.
type TrackViewRequest struct {
	Token string `json:"token"`
}

// AcceptRequest consumes an invite. Name and password are required only
// when no account exists for the invited email.
type AcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// AcceptResponse identifies the created or linked account. The caller is
// responsible for establishing a session.
type AcceptResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	InstitutionID string `json:"institution_id,omitempty"`
}

// DeclineRequest records a terminal refusal. ReasonOther is stored only
// when Reason is "other".
type DeclineRequest struct {
	Token       string `json:"token"`
	Reason      string `json:"reason"`
	ReasonOther string `json:"reason_other,omitempty"`
}

// EditInviteRequest is the admin PATCH body. Omitted fields are left
// unchanged; ExtendExpiry replaces the expiry with a fresh 7-day window.
type EditInviteRequest struct {
	Role         string `json:"role,omitempty"`
	ExtendExpiry bool   `json:"extend_expiry,omitempty"`
}

// InviteListResponse is one page of invites.
type InviteListResponse struct {
	Invites []Invite `json:"invites"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

// Campaign is the wire representation of a bulk invite campaign.
type Campaign struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message,omitempty"`
	Role          string    `json:"role"`
	InstitutionID string    `json:"institution_id,omitempty"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCampaignRequest creates a DRAFT campaign with its recipient list.
type CreateCampaignRequest struct {
	Name          string   `json:"name"`
	Subject       string   `json:"subject"`
	Message       string   `json:"message,omitempty"`
	Role          string   `json:"role"`
	InstitutionID string   `json:"institution_id,omitempty"`
	Recipients    []string `json:"recipients"`
}

// CampaignListResponse is one page of campaigns.
type CampaignListResponse struct {
	Campaigns []Campaign `json:"campaigns"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// Recipient is the wire representation of one campaign recipient.
type Recipient struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaign_id"`
	Email         string    `json:"email"`
	InviteID      string    `json:"invite_id,omitempty"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecipientListResponse is one page of a campaign's recipients.
type RecipientListResponse struct {
	Recipients []Recipient `json:"recipients"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}

// CampaignStatsResponse holds per-status recipient totals.
type CampaignStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned from the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
