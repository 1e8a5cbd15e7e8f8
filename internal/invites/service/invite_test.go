package service

import (
	"context"
	"testing"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/internal/invites/store/drivers/sqlite"
	"github.com/accredhub/accredhub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedInstitution(t *testing.T, st store.Store) domain.Institution {
	t.Helper()

	inst := domain.Institution{
		ID:        idx.New().String(),
		Name:      "Acme College",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Institutions().CreateInstitution(context.Background(), inst))
	return inst
}

func platformActor() Actor {
	return Actor{UserID: idx.New().String(), Role: domain.RolePlatformAdmin}
}

func institutionActor(institutionID string) Actor {
	return Actor{
		UserID:        idx.New().String(),
		Role:          domain.RoleInstitutionAdmin,
		InstitutionID: institutionID,
	}
}

func TestCreateAndValidateRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	invite, token, err := svc.CreateInvite(ctx, platformActor(),
		"staff@acme.example", domain.RoleInstitutionStaff, inst.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, token, invite.TokenHash)

	result, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, domain.InvitePending, result.Status)
	require.Equal(t, domain.RoleInstitutionStaff, result.Invite.Role)
	require.Equal(t, inst.ID, result.Invite.InstitutionID)
	require.False(t, result.ExistingUser)
}

func TestCreateInviteValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	t.Run("rejects malformed email", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, platformActor(), "not-an-email", domain.RoleStudent, inst.ID)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, platformActor(), "a@b.example", domain.Role("SUPERUSER"), inst.ID)
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("institution role requires institution", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, platformActor(), "a@b.example", domain.RoleStudent, "")
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("platform role rejects institution binding", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, platformActor(), "a@b.example", domain.RoleQCTOAdmin, inst.ID)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("unknown institution", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, platformActor(), "a@b.example", domain.RoleStudent, idx.New().String())
		require.ErrorIs(t, err, ErrInstitutionNotFound)
	})

	t.Run("institution admin cannot mint for another tenant", func(t *testing.T) {
		other := seedInstitution(t, st)
		_, _, err := svc.CreateInvite(ctx, institutionActor(other.ID), "a@b.example", domain.RoleStudent, inst.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("institution admin cannot grant platform roles", func(t *testing.T) {
		_, _, err := svc.CreateInvite(ctx, institutionActor(inst.ID), "a@b.example", domain.RolePlatformAdmin, "")
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestValidateUnknownToken(t *testing.T) {
	ctx := context.Background()
	svc := &InviteService{Store: newTestStore(t)}

	_, err := svc.Validate(ctx, "garbled-token")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestValidateExpiredInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	invite, token, err := svc.CreateInvite(ctx, platformActor(),
		"late@acme.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)

	// Push the expiry into the past, as if eight days elapsed.
	require.NoError(t, st.Invites().UpdateInvite(ctx, invite.ID, invite.Role,
		time.Now().UTC().Add(-24*time.Hour)))

	result, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, domain.InviteExpired, result.Status)
	require.Equal(t, "expired", result.Reason)
}

func TestValidateReportsExistingAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	require.NoError(t, st.Users().CreateUser(ctx, domain.User{
		ID:        idx.New().String(),
		Email:     "known@acme.example",
		Name:      "Known User",
		Role:      domain.RoleStudent,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}))

	_, token, err := svc.CreateInvite(ctx, platformActor(),
		"known@acme.example", domain.RoleInstitutionStaff, inst.ID)
	require.NoError(t, err)

	result, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.True(t, result.ExistingUser)
}

func TestAcceptCreatesAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	invite, token, err := svc.CreateInvite(ctx, platformActor(),
		"new@acme.example", domain.RoleInstitutionStaff, inst.ID)
	require.NoError(t, err)

	user, err := svc.Accept(ctx, token, "New Staffer", "a-strong-password")
	require.NoError(t, err)
	require.Equal(t, "new@acme.example", user.Email)
	require.Equal(t, domain.RoleInstitutionStaff, user.Role)
	require.Equal(t, inst.ID, user.InstitutionID)

	stored, err := st.Invites().GetInviteByID(ctx, invite.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt)
	require.Equal(t, user.ID, stored.UsedBy)
	require.Equal(t, domain.InviteUsed, stored.StatusAt(time.Now().UTC()))

	// The token is spent: validate reports the terminal state and a second
	// accept fails without creating another account.
	result, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "already used", result.Reason)

	_, err = svc.Accept(ctx, token, "Someone Else", "another-password")
	require.ErrorIs(t, err, ErrInviteAlreadyUsed)
}

func TestAcceptLinksExistingAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	existing := domain.User{
		ID:        idx.New().String(),
		Email:     "veteran@acme.example",
		Name:      "Veteran",
		Role:      domain.RoleStudent,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(ctx, existing))

	_, token, err := svc.CreateInvite(ctx, platformActor(),
		"veteran@acme.example", domain.RoleInstitutionAdmin, inst.ID)
	require.NoError(t, err)

	// No name or password: the account already exists and is re-bound.
	user, err := svc.Accept(ctx, token, "", "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, user.ID)
	require.Equal(t, domain.RoleInstitutionAdmin, user.Role)
	require.Equal(t, inst.ID, user.InstitutionID)

	reloaded, err := st.Users().GetUserByID(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleInstitutionAdmin, reloaded.Role)
	require.Equal(t, inst.ID, reloaded.InstitutionID)
}

func TestAcceptEnforcesPasswordPolicy(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	invite, token, err := svc.CreateInvite(ctx, platformActor(),
		"short@acme.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, token, "Shorty", "tiny")
	require.ErrorIs(t, err, ErrWeakPassword)

	// The failed attempt rolled back; the invite is still consumable.
	stored, err := st.Invites().GetInviteByID(ctx, invite.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitePending, stored.StatusAt(time.Now().UTC()))
}

func TestDeclineThenAccept(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	invite, token, err := svc.CreateInvite(ctx, platformActor(),
		"decliner@acme.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)

	err = svc.Decline(ctx, token, domain.DeclineReasonOther, "duplicate account")
	require.NoError(t, err)

	stored, err := st.Invites().GetInviteByID(ctx, invite.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DeclinedAt)
	require.Equal(t, domain.DeclineReasonOther, stored.DeclineReason)
	require.Equal(t, "duplicate account", stored.DeclineNote)

	result, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "no longer valid", result.Reason)

	_, err = svc.Accept(ctx, token, "Too Late", "a-strong-password")
	require.ErrorIs(t, err, ErrInviteDeclined)
}

func TestDeclineValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}

	t.Run("rejects unknown reason", func(t *testing.T) {
		_, token, err := svc.CreateInvite(ctx, platformActor(),
			"a@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		err = svc.Decline(ctx, token, domain.DeclineReason("because"), "")
		require.ErrorIs(t, err, ErrInvalidDeclineReason)
	})

	t.Run("keeps free text only for the other reason", func(t *testing.T) {
		invite, token, err := svc.CreateInvite(ctx, platformActor(),
			"b@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Decline(ctx, token, domain.DeclineReasonNotInterested, "ignored"))

		stored, err := st.Invites().GetInviteByID(ctx, invite.ID)
		require.NoError(t, err)
		require.Equal(t, domain.DeclineReasonNotInterested, stored.DeclineReason)
		require.Empty(t, stored.DeclineNote)
	})

	t.Run("declining twice fails", func(t *testing.T) {
		_, token, err := svc.CreateInvite(ctx, platformActor(),
			"c@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Decline(ctx, token, domain.DeclineReasonNotReady, ""))
		err = svc.Decline(ctx, token, domain.DeclineReasonNotReady, "")
		require.ErrorIs(t, err, ErrInviteDeclined)
	})
}

func TestEditInvite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}
	admin := platformActor()

	t.Run("extend expiry resurrects an expired invite", func(t *testing.T) {
		invite, token, err := svc.CreateInvite(ctx, admin,
			"expired@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		require.NoError(t, st.Invites().UpdateInvite(ctx, invite.ID, invite.Role,
			time.Now().UTC().Add(-48*time.Hour)))

		result, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteExpired, result.Status)

		updated, err := svc.Edit(ctx, admin, invite.ID, EditRequest{ExtendExpiry: true})
		require.NoError(t, err)
		require.True(t, updated.ExpiresAt.After(time.Now().UTC()))

		result, err = svc.Validate(ctx, token)
		require.NoError(t, err)
		require.True(t, result.Valid)
	})

	t.Run("changes role within the same binding", func(t *testing.T) {
		invite, _, err := svc.CreateInvite(ctx, admin,
			"promote@acme.example", domain.RoleInstitutionStaff, inst.ID)
		require.NoError(t, err)

		updated, err := svc.Edit(ctx, admin, invite.ID, EditRequest{Role: domain.RoleInstitutionAdmin})
		require.NoError(t, err)
		require.Equal(t, domain.RoleInstitutionAdmin, updated.Role)
	})

	t.Run("rejects role that breaks the institution binding", func(t *testing.T) {
		invite, _, err := svc.CreateInvite(ctx, admin,
			"bound@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		_, err = svc.Edit(ctx, admin, invite.ID, EditRequest{Role: domain.RoleQCTOReviewer})
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("used invite cannot be edited", func(t *testing.T) {
		invite, token, err := svc.CreateInvite(ctx, admin,
			"used@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, token, "User", "a-strong-password")
		require.NoError(t, err)

		_, err = svc.Edit(ctx, admin, invite.ID, EditRequest{ExtendExpiry: true})
		require.ErrorIs(t, err, ErrInviteAlreadyUsed)
	})

	t.Run("unknown invite", func(t *testing.T) {
		_, err := svc.Edit(ctx, admin, idx.New().String(), EditRequest{ExtendExpiry: true})
		require.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("tenant admins cannot edit other tenants", func(t *testing.T) {
		other := seedInstitution(t, st)
		invite, _, err := svc.CreateInvite(ctx, admin,
			"foreign@acme.example", domain.RoleStudent, inst.ID)
		require.NoError(t, err)

		_, err = svc.Edit(ctx, institutionActor(other.ID), invite.ID, EditRequest{ExtendExpiry: true})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestListInvitesScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	instA := seedInstitution(t, st)
	instB := seedInstitution(t, st)
	svc := &InviteService{Store: st}
	admin := platformActor()

	_, _, err := svc.CreateInvite(ctx, admin, "a@a.example", domain.RoleStudent, instA.ID)
	require.NoError(t, err)
	_, _, err = svc.CreateInvite(ctx, admin, "b@b.example", domain.RoleStudent, instB.ID)
	require.NoError(t, err)

	all, total, err := svc.List(ctx, admin, store.InviteFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, all, 2)

	// Institution admins are pinned to their own tenant even when asking
	// for another one.
	scoped, total, err := svc.List(ctx, institutionActor(instA.ID),
		store.InviteFilter{InstitutionID: instB.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, scoped, 1)
	require.Equal(t, instA.ID, scoped[0].InstitutionID)

	// Students cannot list invites at all.
	_, _, err = svc.List(ctx, Actor{UserID: idx.New().String(), Role: domain.RoleStudent}, store.InviteFilter{})
	require.ErrorIs(t, err, ErrPermissionDenied)
}
