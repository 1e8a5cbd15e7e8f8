package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/mail"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/cryptox"
	"github.com/accredhub/accredhub/pkg/idx"
)

// CampaignSender is the background worker that drains QUEUED recipients
// of SENDING campaigns. For each recipient it mints a real invite, links
// it, and delivers the email; from then on the single-invite lifecycle
// drives the recipient's engagement status.
type CampaignSender struct {
	Store     store.Store
	Mailer    *mail.Mailer
	Logger    *slog.Logger
	Interval  time.Duration
	BatchSize int

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCampaignSender creates a sender. Interval defaults to 15 seconds and
// batch size to 50 when unset.
func NewCampaignSender(st store.Store, mailer *mail.Mailer, logger *slog.Logger, interval time.Duration, batchSize int) *CampaignSender {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	return &CampaignSender{
		Store:     st,
		Mailer:    mailer,
		Logger:    logger,
		Interval:  interval,
		BatchSize: batchSize,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// down gracefully.
func (s *CampaignSender) Start() {
	go s.run()
	s.Logger.Info("campaign sender started",
		"interval", s.Interval,
		"batch_size", s.BatchSize,
	)
}

// Stop shuts down the worker, blocking until any in-progress batch
// finishes.
func (s *CampaignSender) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("campaign sender stopped")
}

func (s *CampaignSender) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce processes a single batch of queued recipients and returns how
// many were attempted. Exposed so tests and operational tooling can drive
// the sender without the ticker.
func (s *CampaignSender) RunOnce(ctx context.Context) int {
	recipients, err := s.Store.Recipients().ListQueued(ctx, s.BatchSize)
	if err != nil {
		s.Logger.Error("failed to list queued recipients", "error", err)
		return 0
	}
	if len(recipients) == 0 {
		return 0
	}

	campaigns := make(map[string]domain.Campaign)
	touched := make(map[string]struct{})
	for _, rec := range recipients {
		campaign, ok := campaigns[rec.CampaignID]
		if !ok {
			campaign, err = s.Store.Campaigns().GetCampaignByID(ctx, rec.CampaignID)
			if err != nil {
				s.Logger.Error("failed to fetch campaign for recipient",
					"campaign_id", rec.CampaignID,
					"error", err,
				)
				continue
			}
			campaigns[rec.CampaignID] = campaign
		}

		s.dispatch(ctx, campaign, rec)
		touched[rec.CampaignID] = struct{}{}
	}

	for campaignID := range touched {
		s.completeIfDrained(ctx, campaignID)
	}
	return len(recipients)
}

// dispatch mints the invite, links it to the recipient, and sends the
// email. A delivery failure marks the recipient FAILED; it does not stop
// the rest of the batch.
func (s *CampaignSender) dispatch(ctx context.Context, campaign domain.Campaign, rec domain.CampaignRecipient) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		s.Logger.Error("failed to generate invite token", "error", err)
		return
	}

	now := time.Now().UTC()
	invite := domain.Invite{
		ID:            idx.New().String(),
		TokenHash:     cryptox.FingerprintToken(token),
		Email:         rec.Email,
		Role:          campaign.Role,
		InstitutionID: campaign.InstitutionID,
		CreatedBy:     campaign.CreatedBy,
		CreatedAt:     now,
		ExpiresAt:     now.Add(DefaultInviteTTL),
		UpdatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().CreateInvite(ctx, invite); err != nil {
			return err
		}
		return tx.Recipients().SetRecipientInvite(ctx, rec.ID, invite.ID)
	})
	if err != nil {
		s.Logger.Error("failed to mint campaign invite",
			"recipient_id", rec.ID,
			"error", err,
		)
		return
	}

	if err := s.Mailer.SendInviteEmail(ctx, rec.Email, campaign.Subject, campaign.Message, token); err != nil {
		s.Logger.Warn("campaign email delivery failed",
			"recipient_id", rec.ID,
			"error", err,
		)
		if err := s.Store.Recipients().MarkRecipientFailed(ctx, rec.ID, err.Error()); err != nil {
			s.Logger.Error("failed to mark recipient failed",
				"recipient_id", rec.ID,
				"error", err,
			)
		}
		return
	}

	err = s.Store.Recipients().AdvanceRecipientStatus(ctx, rec.ID,
		domain.RecipientSent, domain.RecipientQueued)
	if err != nil && !errors.Is(err, store.ErrConflict) {
		s.Logger.Error("failed to mark recipient sent",
			"recipient_id", rec.ID,
			"error", err,
		)
	}
}

// completeIfDrained marks a SENDING campaign COMPLETED once no QUEUED
// recipients remain. A paused campaign is left alone.
func (s *CampaignSender) completeIfDrained(ctx context.Context, campaignID string) {
	queued, err := s.Store.Recipients().CountQueued(ctx, campaignID)
	if err != nil {
		s.Logger.Error("failed to count queued recipients",
			"campaign_id", campaignID,
			"error", err,
		)
		return
	}
	if queued > 0 {
		return
	}

	err = s.Store.Campaigns().UpdateCampaignStatus(ctx, campaignID,
		domain.CampaignCompleted, domain.CampaignSending)
	if err != nil && !errors.Is(err, store.ErrConflict) {
		s.Logger.Error("failed to complete campaign",
			"campaign_id", campaignID,
			"error", err,
		)
	}
}
