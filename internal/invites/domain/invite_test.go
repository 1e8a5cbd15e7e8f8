package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteStatusPrecedence(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name     string
		usedAt   *time.Time
		declined *time.Time
		expires  time.Time
		want     InviteStatus
	}{
		{"fresh invite is pending", nil, nil, future, InvitePending},
		{"past expiry is expired", nil, nil, past, InviteExpired},
		{"used beats expired", &past, nil, past, InviteUsed},
		{"declined beats expired", nil, &past, past, InviteDeclined},
		{"used beats declined", &past, &past, future, InviteUsed},
		{"expiry boundary is still pending", nil, nil, now, InvitePending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := Invite{
				UsedAt:     tc.usedAt,
				DeclinedAt: tc.declined,
				ExpiresAt:  tc.expires,
			}
			require.Equal(t, tc.want, inv.StatusAt(now))
		})
	}
}

func TestRoleEnumeration(t *testing.T) {
	t.Parallel()

	for _, r := range []Role{
		RolePlatformAdmin, RoleInstitutionAdmin, RoleInstitutionStaff,
		RoleStudent, RoleQCTOAdmin, RoleQCTOReviewer,
	} {
		require.True(t, r.Valid(), "role %s", r)
	}

	require.False(t, Role("SUPER_ADMIN").Valid())
	require.False(t, Role("").Valid())
}

func TestRoleInstitutionBinding(t *testing.T) {
	t.Parallel()

	require.True(t, RoleInstitutionAdmin.RequiresInstitution())
	require.True(t, RoleInstitutionStaff.RequiresInstitution())
	require.True(t, RoleStudent.RequiresInstitution())

	require.False(t, RolePlatformAdmin.RequiresInstitution())
	require.False(t, RoleQCTOAdmin.RequiresInstitution())
	require.False(t, RoleQCTOReviewer.RequiresInstitution())
}

func TestDeclineReasonEnumeration(t *testing.T) {
	t.Parallel()

	for _, r := range []DeclineReason{
		DeclineReasonOtherPlatform, DeclineReasonNotResponsible,
		DeclineReasonNotInterested, DeclineReasonManualProcess,
		DeclineReasonNotReady, DeclineReasonOther,
	} {
		require.True(t, r.Valid(), "reason %s", r)
	}

	require.False(t, DeclineReason("dont-like-it").Valid())
	require.False(t, DeclineReason("").Valid())
}
