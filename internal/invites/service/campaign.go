package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/idx"
	"github.com/accredhub/accredhub/pkg/slogx"
)

var (
	ErrInvalidCampaignRequest = errors.New("invalid campaign request")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrInvalidCampaignState   = errors.New("campaign is not in a state that allows this")
	ErrNoRecipients           = errors.New("campaign needs at least one recipient")
)

type CampaignService struct {
	Store store.Store
}

// Create stores a DRAFT campaign with its recipient list. Duplicate
// addresses are collapsed; every recipient starts QUEUED. Nothing is sent
// until the campaign is started.
func (s *CampaignService) Create(
	ctx context.Context,
	actor Actor,
	name, subject, message string,
	role domain.Role,
	institutionID string,
	emails []string,
) (domain.Campaign, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input, mirroring single-invite rules.
	if strings.TrimSpace(name) == "" || strings.TrimSpace(subject) == "" {
		return domain.Campaign{}, ErrInvalidCampaignRequest
	}
	if !role.Valid() {
		return domain.Campaign{}, ErrInvalidRole
	}
	if role.RequiresInstitution() == (institutionID == "") {
		return domain.Campaign{}, ErrInvalidCampaignRequest
	}

	// 2. Authorize.
	if !actor.CanGrantRole(role) {
		return domain.Campaign{}, ErrPermissionDenied
	}
	if institutionID != "" && !actor.CanManageInstitution(institutionID) {
		return domain.Campaign{}, ErrPermissionDenied
	}
	if institutionID != "" {
		if _, err := s.Store.Institutions().GetInstitutionByID(ctx, institutionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Campaign{}, ErrInstitutionNotFound
			}
			return domain.Campaign{}, err
		}
	}

	// 3. Normalize and dedupe the recipient list.
	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(emails))
	recipients := make([]domain.CampaignRecipient, 0, len(emails))
	campaignID := idx.New().String()
	for _, raw := range emails {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" || !strings.Contains(email, "@") {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		recipients = append(recipients, domain.CampaignRecipient{
			ID:         idx.New().String(),
			CampaignID: campaignID,
			Email:      email,
			Status:     domain.RecipientQueued,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(recipients) == 0 {
		return domain.Campaign{}, ErrNoRecipients
	}

	campaign := domain.Campaign{
		ID:            campaignID,
		Name:          strings.TrimSpace(name),
		Subject:       strings.TrimSpace(subject),
		Message:       message,
		Role:          role,
		InstitutionID: institutionID,
		Status:        domain.CampaignDraft,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 4. Persist campaign and recipients atomically.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Campaigns().CreateCampaign(ctx, campaign); err != nil {
			return err
		}
		return tx.Recipients().CreateRecipients(ctx, recipients)
	})
	if err != nil {
		log.Error("failed to create campaign",
			slog.String("campaign_id", campaign.ID),
			slog.Any("error", err),
		)
		return domain.Campaign{}, err
	}

	log.Info("campaign created",
		slog.String("campaign_id", campaign.ID),
		slog.Int("recipients", len(recipients)),
	)
	return campaign, nil
}

// Get fetches one campaign for an administrative caller.
func (s *CampaignService) Get(ctx context.Context, actor Actor, campaignID string) (domain.Campaign, error) {
	campaign, err := s.Store.Campaigns().GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Campaign{}, ErrCampaignNotFound
		}
		return domain.Campaign{}, err
	}
	if err := s.authorizeCampaign(actor, campaign); err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// List pages campaigns; institution admins see only their own tenant.
func (s *CampaignService) List(
	ctx context.Context,
	actor Actor,
	f store.CampaignFilter,
) ([]domain.Campaign, int, error) {
	if !actor.IsPlatformAdmin() {
		if actor.Role != domain.RoleInstitutionAdmin || actor.InstitutionID == "" {
			return nil, 0, ErrPermissionDenied
		}
		f.InstitutionID = actor.InstitutionID
	}
	return s.Store.Campaigns().ListCampaigns(ctx, f)
}

// ListRecipients pages a campaign's recipients with status/search filters.
func (s *CampaignService) ListRecipients(
	ctx context.Context,
	actor Actor,
	campaignID string,
	f store.RecipientFilter,
) ([]domain.CampaignRecipient, int, error) {
	if _, err := s.Get(ctx, actor, campaignID); err != nil {
		return nil, 0, err
	}
	return s.Store.Recipients().ListRecipients(ctx, campaignID, f)
}

// StatusCounts returns per-status recipient totals for a campaign.
func (s *CampaignService) StatusCounts(
	ctx context.Context,
	actor Actor,
	campaignID string,
) (map[domain.RecipientStatus]int, error) {
	if _, err := s.Get(ctx, actor, campaignID); err != nil {
		return nil, err
	}
	return s.Store.Recipients().CountRecipientsByStatus(ctx, campaignID)
}

// Start moves a DRAFT or PAUSED campaign to SENDING; the background
// sender then picks up its QUEUED recipients. Resuming a paused campaign
// simply re-enters SENDING — recipients already SENT are untouched.
func (s *CampaignService) Start(ctx context.Context, actor Actor, campaignID string) error {
	if _, err := s.Get(ctx, actor, campaignID); err != nil {
		return err
	}
	err := s.Store.Campaigns().UpdateCampaignStatus(ctx, campaignID,
		domain.CampaignSending, domain.CampaignDraft, domain.CampaignPaused)
	if errors.Is(err, store.ErrConflict) {
		return ErrInvalidCampaignState
	}
	return err
}

// Pause stops a SENDING campaign. In-flight recipients finish; QUEUED
// ones wait until the campaign resumes.
func (s *CampaignService) Pause(ctx context.Context, actor Actor, campaignID string) error {
	if _, err := s.Get(ctx, actor, campaignID); err != nil {
		return err
	}
	err := s.Store.Campaigns().UpdateCampaignStatus(ctx, campaignID,
		domain.CampaignPaused, domain.CampaignSending)
	if errors.Is(err, store.ErrConflict) {
		return ErrInvalidCampaignState
	}
	return err
}

// TrackOpen advances a recipient to OPENED, typically from a tracking
// pixel or link redirect. Best effort: an already-advanced recipient is
// left alone.
func (s *CampaignService) TrackOpen(ctx context.Context, recipientID string) {
	log := slogx.FromContext(ctx)
	err := s.Store.Recipients().AdvanceRecipientStatus(ctx, recipientID,
		domain.RecipientOpened, domain.RecipientSent)
	if err != nil && !errors.Is(err, store.ErrConflict) {
		log.Warn("failed to record recipient open",
			slog.String("recipient_id", recipientID),
			slog.Any("error", err),
		)
	}
}

// InviteViewed propagates a view on a campaign-minted invite to its
// recipient row. Implements Events.
func (s *CampaignService) InviteViewed(ctx context.Context, inviteID string) {
	s.advanceByInvite(ctx, inviteID, domain.RecipientOpened, domain.RecipientSent)
}

// InviteUsed propagates acceptance of a campaign-minted invite to its
// recipient row. Implements Events.
func (s *CampaignService) InviteUsed(ctx context.Context, inviteID string) {
	s.advanceByInvite(ctx, inviteID, domain.RecipientAccepted,
		domain.RecipientSent, domain.RecipientOpened)
}

func (s *CampaignService) advanceByInvite(
	ctx context.Context,
	inviteID string,
	to domain.RecipientStatus,
	from ...domain.RecipientStatus,
) {
	log := slogx.FromContext(ctx)

	rec, err := s.Store.Recipients().GetRecipientByInviteID(ctx, inviteID)
	if err != nil {
		// Most invites are not campaign-minted.
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("failed to resolve campaign recipient", slog.Any("error", err))
		}
		return
	}

	err = s.Store.Recipients().AdvanceRecipientStatus(ctx, rec.ID, to, from...)
	if err != nil && !errors.Is(err, store.ErrConflict) {
		log.Warn("failed to advance campaign recipient",
			slog.String("recipient_id", rec.ID),
			slog.String("to", string(to)),
			slog.Any("error", err),
		)
	}
}

func (s *CampaignService) authorizeCampaign(actor Actor, campaign domain.Campaign) error {
	if campaign.InstitutionID != "" {
		if !actor.CanManageInstitution(campaign.InstitutionID) {
			return ErrPermissionDenied
		}
		return nil
	}
	if !actor.IsPlatformAdmin() {
		return ErrPermissionDenied
	}
	return nil
}
