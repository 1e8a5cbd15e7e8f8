package domain

import "time"

// CampaignStatus is the stored state of a bulk invite campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignSending   CampaignStatus = "SENDING"
	CampaignPaused    CampaignStatus = "PAUSED"
	CampaignCompleted CampaignStatus = "COMPLETED"
)

// Campaign is a bulk batch of invites sent together. All recipients share
// the campaign's role and institution binding.
type Campaign struct {
	ID            string
	Name          string
	Subject       string
	Message       string
	Role          Role
	InstitutionID string // empty for platform-level roles
	Status        CampaignStatus
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipientStatus is the stored per-recipient delivery/engagement state.
// Unlike the single-invite path this is an explicit column: campaigns
// count and filter by status at scale, so deriving it on read would cost
// a table scan per query.
type RecipientStatus string

const (
	RecipientQueued   RecipientStatus = "QUEUED"
	RecipientSent     RecipientStatus = "SENT"
	RecipientOpened   RecipientStatus = "OPENED"
	RecipientAccepted RecipientStatus = "ACCEPTED"
	RecipientFailed   RecipientStatus = "FAILED"
)

// Valid reports whether the status belongs to the fixed enumeration.
func (s RecipientStatus) Valid() bool {
	switch s {
	case RecipientQueued, RecipientSent, RecipientOpened, RecipientAccepted, RecipientFailed:
		return true
	}
	return false
}

// recipientRank orders the forward-only engagement progression.
var recipientRank = map[RecipientStatus]int{
	RecipientQueued:   0,
	RecipientSent:     1,
	RecipientOpened:   2,
	RecipientAccepted: 3,
}

// CanTransition reports whether a recipient may move from one status to
// another. Engagement statuses only ever advance; FAILED is terminal and
// reachable only from QUEUED or SENT, since OPENED and ACCEPTED already
// presuppose successful delivery.
func CanTransition(from, to RecipientStatus) bool {
	if from == RecipientFailed {
		return false
	}
	if to == RecipientFailed {
		return from == RecipientQueued || from == RecipientSent
	}

	fromRank, ok := recipientRank[from]
	if !ok {
		return false
	}
	toRank, ok := recipientRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CampaignRecipient tracks one email address within a campaign. Once the
// sender dispatches the invite, InviteID links to the minted invite row
// and the single-invite lifecycle drives further status changes.
type CampaignRecipient struct {
	ID            string
	CampaignID    string
	Email         string
	InviteID      string // empty until the sender mints the invite
	Status        RecipientStatus
	FailureReason string // set when Status is FAILED
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
