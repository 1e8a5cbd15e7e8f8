package domain

import "time"

// InviteStatus is the derived lifecycle state of an invite. It is never
// stored; StatusAt reconstructs it from the timestamps.
type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteUsed     InviteStatus = "USED"
	InviteExpired  InviteStatus = "EXPIRED"
	InviteDeclined InviteStatus = "DECLINED"
)

// Invite is a single-use, time-bounded offer granting an email address a
// role (and optional institution binding) on the platform. The raw token
// is handed out exactly once at creation; only its fingerprint persists.
type Invite struct {
	ID        string
	TokenHash string

	Email         string
	Role          Role
	InstitutionID string // empty for platform-level roles

	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
	UpdatedAt time.Time

	ViewedAt *time.Time
	UsedAt   *time.Time
	UsedBy   string // user ID, set together with UsedAt

	DeclinedAt    *time.Time
	DeclineReason DeclineReason // empty unless declined
	DeclineNote   string        // free text, only with DeclineReasonOther
}

// StatusAt derives the lifecycle status at the given instant.
//
// Precedence is USED > DECLINED > EXPIRED > PENDING: a consumed invite
// stays consumed even once its expiry passes, because acceptance already
// happened and is irreversible.
func (i Invite) StatusAt(now time.Time) InviteStatus {
	switch {
	case i.UsedAt != nil:
		return InviteUsed
	case i.DeclinedAt != nil:
		return InviteDeclined
	case now.After(i.ExpiresAt):
		return InviteExpired
	default:
		return InvitePending
	}
}

// DeclineReason is the enumerated reason an invitee gave for declining.
type DeclineReason string

const (
	DeclineReasonOtherPlatform  DeclineReason = "already-using-other-platform"
	DeclineReasonNotResponsible DeclineReason = "not-responsible"
	DeclineReasonNotInterested  DeclineReason = "not-interested"
	DeclineReasonManualProcess  DeclineReason = "manual-process"
	DeclineReasonNotReady       DeclineReason = "not-ready"
	DeclineReasonOther          DeclineReason = "other"
)

// Valid reports whether the reason is one of the fixed enumeration.
// Enforced server-side; client-side validation is advisory only.
func (r DeclineReason) Valid() bool {
	switch r {
	case DeclineReasonOtherPlatform,
		DeclineReasonNotResponsible,
		DeclineReasonNotInterested,
		DeclineReasonManualProcess,
		DeclineReasonNotReady,
		DeclineReasonOther:
		return true
	}
	return false
}
