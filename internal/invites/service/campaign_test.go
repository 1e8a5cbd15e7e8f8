package service

import (
	"context"
	"testing"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaignDedupesRecipients(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &CampaignService{Store: st}

	campaign, err := svc.Create(ctx, platformActor(),
		"Spring Intake", "Join Acme College", "You have been invited.",
		domain.RoleStudent, inst.ID,
		[]string{"one@a.example", "TWO@a.example", "two@a.example", "", "not-an-email"})
	require.NoError(t, err)
	require.Equal(t, domain.CampaignDraft, campaign.Status)

	recipients, total, err := svc.ListRecipients(ctx, platformActor(), campaign.ID, store.RecipientFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	for _, rec := range recipients {
		require.Equal(t, domain.RecipientQueued, rec.Status)
		require.Empty(t, rec.InviteID)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &CampaignService{Store: st}

	t.Run("needs at least one recipient", func(t *testing.T) {
		_, err := svc.Create(ctx, platformActor(), "Empty", "Subject", "msg",
			domain.RoleStudent, inst.ID, []string{"", "nope"})
		require.ErrorIs(t, err, ErrNoRecipients)
	})

	t.Run("needs a name and subject", func(t *testing.T) {
		_, err := svc.Create(ctx, platformActor(), " ", "Subject", "msg",
			domain.RoleStudent, inst.ID, []string{"a@b.example"})
		require.ErrorIs(t, err, ErrInvalidCampaignRequest)
	})

	t.Run("tenant admins cannot target other tenants", func(t *testing.T) {
		other := seedInstitution(t, st)
		_, err := svc.Create(ctx, institutionActor(other.ID), "Cross", "Subject", "msg",
			domain.RoleStudent, inst.ID, []string{"a@b.example"})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestCampaignStartPauseResume(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &CampaignService{Store: st}
	admin := platformActor()

	campaign, err := svc.Create(ctx, admin, "Intake", "Subject", "msg",
		domain.RoleStudent, inst.ID, []string{"a@b.example"})
	require.NoError(t, err)

	require.NoError(t, svc.Start(ctx, admin, campaign.ID))
	got, err := svc.Get(ctx, admin, campaign.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CampaignSending, got.Status)

	// Starting an already-sending campaign is rejected.
	require.ErrorIs(t, svc.Start(ctx, admin, campaign.ID), ErrInvalidCampaignState)

	require.NoError(t, svc.Pause(ctx, admin, campaign.ID))
	got, err = svc.Get(ctx, admin, campaign.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CampaignPaused, got.Status)

	// Pausing twice is rejected; resuming works.
	require.ErrorIs(t, svc.Pause(ctx, admin, campaign.ID), ErrInvalidCampaignState)
	require.NoError(t, svc.Start(ctx, admin, campaign.ID))
}

func TestCampaignTenantScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	instA := seedInstitution(t, st)
	instB := seedInstitution(t, st)
	svc := &CampaignService{Store: st}
	admin := platformActor()

	campaign, err := svc.Create(ctx, admin, "A-only", "Subject", "msg",
		domain.RoleStudent, instA.ID, []string{"a@b.example"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, institutionActor(instB.ID), campaign.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = svc.ListRecipients(ctx, institutionActor(instB.ID), campaign.ID, store.RecipientFilter{})
	require.ErrorIs(t, err, ErrPermissionDenied)

	mine, total, err := svc.List(ctx, institutionActor(instA.ID), store.CampaignFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, mine, 1)
}

func TestTrackOpenAdvancesOnlyFromSent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &CampaignService{Store: st}
	admin := platformActor()

	campaign, err := svc.Create(ctx, admin, "Opens", "Subject", "msg",
		domain.RoleStudent, inst.ID, []string{"a@b.example"})
	require.NoError(t, err)

	recipients, _, err := svc.ListRecipients(ctx, admin, campaign.ID, store.RecipientFilter{})
	require.NoError(t, err)
	rec := recipients[0]

	// Still QUEUED: an open event is ignored.
	svc.TrackOpen(ctx, rec.ID)
	got, err := st.Recipients().GetRecipientByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecipientQueued, got.Status)

	require.NoError(t, st.Recipients().AdvanceRecipientStatus(ctx, rec.ID,
		domain.RecipientSent, domain.RecipientQueued))

	svc.TrackOpen(ctx, rec.ID)
	got, err = st.Recipients().GetRecipientByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecipientOpened, got.Status)
}

func TestInviteEventsPropagateToRecipient(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	campaigns := &CampaignService{Store: st}
	invites := &InviteService{Store: st, Events: campaigns}
	admin := platformActor()

	campaign, err := campaigns.Create(ctx, admin, "Linked", "Subject", "msg",
		domain.RoleStudent, inst.ID, []string{"linked@a.example"})
	require.NoError(t, err)

	recipients, _, err := campaigns.ListRecipients(ctx, admin, campaign.ID, store.RecipientFilter{})
	require.NoError(t, err)
	rec := recipients[0]

	// Stand in for the sender: mint the invite, link it, mark it SENT.
	invite, token, err := invites.CreateInvite(ctx, admin,
		rec.Email, campaign.Role, campaign.InstitutionID)
	require.NoError(t, err)
	require.NoError(t, st.Recipients().SetRecipientInvite(ctx, rec.ID, invite.ID))
	require.NoError(t, st.Recipients().AdvanceRecipientStatus(ctx, rec.ID,
		domain.RecipientSent, domain.RecipientQueued))

	invites.TrackView(ctx, token)
	got, err := st.Recipients().GetRecipientByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecipientOpened, got.Status)

	_, err = invites.Accept(ctx, token, "Linked User", "a-strong-password")
	require.NoError(t, err)

	got, err = st.Recipients().GetRecipientByID(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RecipientAccepted, got.Status)

	counts, err := campaigns.StatusCounts(ctx, admin, campaign.ID)
	require.NoError(t, err)
	require.Equal(t, 1, counts[domain.RecipientAccepted])
}

func TestViewOnStandaloneInviteIsHarmless(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	campaigns := &CampaignService{Store: st}
	invites := &InviteService{Store: st, Events: campaigns}

	invite, token, err := invites.CreateInvite(ctx, platformActor(),
		"solo@a.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)

	// No recipient row links to this invite; the event goes nowhere.
	invites.TrackView(ctx, token)

	stored, err := st.Invites().GetInviteByID(ctx, invite.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ViewedAt)
}

func TestCampaignNotFound(t *testing.T) {
	ctx := context.Background()
	svc := &CampaignService{Store: newTestStore(t)}

	_, err := svc.Get(ctx, platformActor(), idx.New().String())
	require.ErrorIs(t, err, ErrCampaignNotFound)
}
