package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecipientTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to RecipientStatus
		allowed  bool
	}{
		{RecipientQueued, RecipientSent, true},
		{RecipientSent, RecipientOpened, true},
		{RecipientOpened, RecipientAccepted, true},
		{RecipientSent, RecipientAccepted, true}, // accepted without a tracked open
		{RecipientQueued, RecipientFailed, true},
		{RecipientSent, RecipientFailed, true},

		{RecipientOpened, RecipientQueued, false},
		{RecipientSent, RecipientQueued, false},
		{RecipientAccepted, RecipientOpened, false},
		{RecipientOpened, RecipientFailed, false},
		{RecipientAccepted, RecipientFailed, false},
		{RecipientFailed, RecipientSent, false},
		{RecipientFailed, RecipientQueued, false},
		{RecipientQueued, RecipientQueued, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestRecipientStatusEnumeration(t *testing.T) {
	t.Parallel()

	for _, s := range []RecipientStatus{
		RecipientQueued, RecipientSent, RecipientOpened, RecipientAccepted, RecipientFailed,
	} {
		require.True(t, s.Valid(), "status %s", s)
	}
	require.False(t, RecipientStatus("BOUNCED").Valid())
}
