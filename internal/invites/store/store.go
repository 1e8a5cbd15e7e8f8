package store

import (
	"context"
	"errors"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a conditional update that matched no row: the
	// guarded state (e.g. "still pending", "still queued") no longer
	// holds. First-writer-wins races surface as this error for the loser.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers implement it.
// Sub-repositories keep concerns tidy and testable.
type Store interface {
	Invites() Invites
	Users() Users
	Institutions() Institutions
	Campaigns() Campaigns
	Recipients() Recipients

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// returns an error and committing otherwise. This is the recommended
	// way to run multi-step operations that must be atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// InviteFilter narrows and pages admin invite listings.
type InviteFilter struct {
	InstitutionID string // empty matches all institutions
	Search        string // substring match on email
	Page          int    // 1-based
	Limit         int
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByTokenHash returns the invite regardless of lifecycle
	// state; callers derive the status themselves.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// GetInviteByID fetches an invite by its ID (admin operations).
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// ListInvites returns a page of invites (newest first) and the total
	// count matching the filter.
	ListInvites(ctx context.Context, f InviteFilter) ([]domain.Invite, int, error)

	// MarkInviteUsed sets used_at/used_by only while the invite is still
	// consumable (used_at and declined_at both null). Returns ErrConflict
	// when another writer got there first.
	MarkInviteUsed(ctx context.Context, id, usedBy string, at time.Time) error

	// MarkInviteDeclined records the decline, guarded the same way as
	// MarkInviteUsed.
	MarkInviteDeclined(ctx context.Context, id string, reason domain.DeclineReason, note string, at time.Time) error

	// SetInviteViewed stamps viewed_at by token hash. Best effort: a
	// missing invite is not an error.
	SetInviteViewed(ctx context.Context, hash string, at time.Time) error

	// UpdateInvite changes role and expiry, guarded on the invite not
	// having been used. Returns ErrConflict when it has.
	UpdateInvite(ctx context.Context, id string, role domain.Role, expiresAt time.Time) error

	// DeleteInvitesExpiredBefore removes unused invites whose expiry
	// passed before cutoff. Returns the number of rows removed.
	DeleteInvitesExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the existing-account probe used during validation
	// and acceptance.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole re-binds an existing account's role and institution
	// when an invite links to it.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role, institutionID string) error
}

type Institutions interface {
	CreateInstitution(ctx context.Context, inst domain.Institution) error
	GetInstitutionByID(ctx context.Context, id string) (domain.Institution, error)
}

// CampaignFilter narrows and pages campaign listings.
type CampaignFilter struct {
	InstitutionID string
	Page          int
	Limit         int
}

type Campaigns interface {
	CreateCampaign(ctx context.Context, c domain.Campaign) error
	GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error)

	// ListCampaigns returns a page (newest first) plus the total count.
	ListCampaigns(ctx context.Context, f CampaignFilter) ([]domain.Campaign, int, error)

	// UpdateCampaignStatus moves status only when the current value is in
	// from. Returns ErrConflict otherwise.
	UpdateCampaignStatus(ctx context.Context, id string, to domain.CampaignStatus, from ...domain.CampaignStatus) error
}

// RecipientFilter narrows and pages recipient listings within a campaign.
type RecipientFilter struct {
	Status domain.RecipientStatus // empty matches all
	Search string                 // substring match on email
	Page   int                    // 1-based
	Limit  int
}

type Recipients interface {
	// CreateRecipients inserts the batch; duplicates within a campaign
	// violate the (campaign_id, email) constraint.
	CreateRecipients(ctx context.Context, recipients []domain.CampaignRecipient) error

	GetRecipientByID(ctx context.Context, id string) (domain.CampaignRecipient, error)

	// GetRecipientByInviteID resolves which recipient an invite belongs
	// to, for propagating engagement events.
	GetRecipientByInviteID(ctx context.Context, inviteID string) (domain.CampaignRecipient, error)

	// ListRecipients returns a page and the total count matching the filter.
	ListRecipients(ctx context.Context, campaignID string, f RecipientFilter) ([]domain.CampaignRecipient, int, error)

	// CountRecipientsByStatus returns per-status totals for a campaign.
	CountRecipientsByStatus(ctx context.Context, campaignID string) (map[domain.RecipientStatus]int, error)

	// ListQueued returns up to limit QUEUED recipients across campaigns
	// currently in SENDING status, oldest first.
	ListQueued(ctx context.Context, limit int) ([]domain.CampaignRecipient, error)

	// CountQueued returns the number of QUEUED recipients in a campaign.
	CountQueued(ctx context.Context, campaignID string) (int, error)

	// SetRecipientInvite links the minted invite row to the recipient.
	SetRecipientInvite(ctx context.Context, id, inviteID string) error

	// AdvanceRecipientStatus moves status only when the current value is
	// in from. Returns ErrConflict otherwise.
	AdvanceRecipientStatus(ctx context.Context, id string, to domain.RecipientStatus, from ...domain.RecipientStatus) error

	// MarkRecipientFailed records a delivery failure, guarded on the
	// recipient still being QUEUED or SENT.
	MarkRecipientFailed(ctx context.Context, id, reason string) error
}
