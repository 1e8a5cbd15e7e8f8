package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingPurgesLongExpiredInvites(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	inst := seedInstitution(t, st)
	svc := &InviteService{Store: st}
	admin := platformActor()

	stale, _, err := svc.CreateInvite(ctx, admin, "stale@a.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)
	require.NoError(t, st.Invites().UpdateInvite(ctx, stale.ID, stale.Role,
		time.Now().UTC().Add(-100*24*time.Hour)))

	recent, _, err := svc.CreateInvite(ctx, admin, "recent@a.example", domain.RoleStudent, inst.ID)
	require.NoError(t, err)
	require.NoError(t, st.Invites().UpdateInvite(ctx, recent.ID, recent.Role,
		time.Now().UTC().Add(-24*time.Hour)))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hk := NewHousekeepingService(st, logger, time.Hour, 90*24*time.Hour)
	hk.cleanup()

	_, err = st.Invites().GetInviteByID(ctx, stale.ID)
	require.True(t, errors.Is(err, store.ErrNotFound))

	// Recently expired invites survive; an admin may still resurrect them.
	_, err = st.Invites().GetInviteByID(ctx, recent.ID)
	require.NoError(t, err)
}
