package http

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/service"
	"github.com/accredhub/accredhub/internal/invites/store/drivers/sqlite"
	"github.com/accredhub/accredhub/pkg/idx"
	"github.com/accredhub/accredhub/pkg/invitesdk"
	"github.com/accredhub/accredhub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "test-issuer"

type testEnv struct {
	store  *sqlite.Store
	server *httptest.Server
	signer jwtx.Signer
	client *invitesdk.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	campaigns := &service.CampaignService{Store: st}
	invites := &service.InviteService{Store: st, Events: campaigns}

	router := NewRouter(jwtx.NewEdDSAVerifier(pub), testIssuer, "test", st, logger)
	router.InviteService = invites
	router.CampaignService = campaigns
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		store:  st,
		server: server,
		signer: jwtx.NewEdDSASigner(priv),
		client: invitesdk.NewClient(server.URL),
	}
}

// adminClient mints a platform-admin token and returns a client carrying it.
func (e *testEnv) adminClient(t *testing.T, scopes ...string) *invitesdk.Client {
	t.Helper()

	if len(scopes) == 0 {
		scopes = []string{"admin:read", "admin:write"}
	}
	claims := jwtx.NewClaims(idx.New().String(), testIssuer,
		string(domain.RolePlatformAdmin), "", scopes, time.Hour, time.Now())
	token, err := e.signer.Sign(claims)
	require.NoError(t, err)

	return e.client.WithToken(token)
}

func (e *testEnv) seedInstitution(t *testing.T) domain.Institution {
	t.Helper()

	inst := domain.Institution{
		ID:        idx.New().String(),
		Name:      "Acme College",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.store.Institutions().CreateInstitution(context.Background(), inst))
	return inst
}

func TestInviteLifecycleOverHTTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := env.seedInstitution(t)
	admin := env.adminClient(t)

	created, err := admin.CreateInvite(ctx, invitesdk.CreateInviteRequest{
		Email:         "staff@acme.example",
		Role:          string(domain.RoleInstitutionStaff),
		InstitutionID: inst.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	require.Equal(t, "PENDING", created.Invite.Status)

	result, err := env.client.Validate(ctx, created.Token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, string(domain.RoleInstitutionStaff), result.Invite.Role)
	require.Equal(t, inst.ID, result.Invite.InstitutionID)
	require.False(t, result.ExistingUser)

	require.NoError(t, env.client.TrackView(ctx, created.Token))

	accepted, err := env.client.Accept(ctx, invitesdk.AcceptRequest{
		Token:    created.Token,
		Name:     "New Staffer",
		Password: "a-strong-password",
	})
	require.NoError(t, err)
	require.Equal(t, "staff@acme.example", accepted.Email)
	require.Equal(t, string(domain.RoleInstitutionStaff), accepted.Role)

	// The token is spent.
	result, err = env.client.Validate(ctx, created.Token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "already used", result.Reason)

	_, err = env.client.Accept(ctx, invitesdk.AcceptRequest{
		Token:    created.Token,
		Name:     "Someone Else",
		Password: "another-password",
	})
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "invalid_state", apiErr.Code)
}

func TestDeclineOverHTTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := env.seedInstitution(t)
	admin := env.adminClient(t)

	created, err := admin.CreateInvite(ctx, invitesdk.CreateInviteRequest{
		Email:         "decliner@acme.example",
		Role:          string(domain.RoleStudent),
		InstitutionID: inst.ID,
	})
	require.NoError(t, err)

	err = env.client.Decline(ctx, invitesdk.DeclineRequest{
		Token:       created.Token,
		Reason:      "other",
		ReasonOther: "duplicate account",
	})
	require.NoError(t, err)

	result, err := env.client.Validate(ctx, created.Token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "no longer valid", result.Reason)

	// Declining again surfaces invalid_state.
	err = env.client.Decline(ctx, invitesdk.DeclineRequest{
		Token:  created.Token,
		Reason: "not-interested",
	})
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestValidateUnknownTokenOverHTTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.client.Validate(ctx, "garbled")
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	// The body never confirms whether such an invite exists.
	require.Equal(t, "Invalid invite", apiErr.Description)
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := env.seedInstitution(t)

	// No token at all.
	_, err := env.client.CreateInvite(ctx, invitesdk.CreateInviteRequest{
		Email:         "a@b.example",
		Role:          string(domain.RoleStudent),
		InstitutionID: inst.ID,
	})
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Token without the write scope.
	readOnly := env.adminClient(t, "admin:read")
	_, err = readOnly.CreateInvite(ctx, invitesdk.CreateInviteRequest{
		Email:         "a@b.example",
		Role:          string(domain.RoleStudent),
		InstitutionID: inst.ID,
	})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestEditInviteOverHTTP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := env.seedInstitution(t)
	admin := env.adminClient(t)

	created, err := admin.CreateInvite(ctx, invitesdk.CreateInviteRequest{
		Email:         "edit@acme.example",
		Role:          string(domain.RoleInstitutionStaff),
		InstitutionID: inst.ID,
	})
	require.NoError(t, err)

	updated, err := admin.EditInvite(ctx, created.Invite.ID, invitesdk.EditInviteRequest{
		Role:         string(domain.RoleInstitutionAdmin),
		ExtendExpiry: true,
	})
	require.NoError(t, err)
	require.Equal(t, string(domain.RoleInstitutionAdmin), updated.Role)
	require.True(t, updated.ExpiresAt.After(created.Invite.ExpiresAt))

	// Consume the invite, then editing fails with invalid_state.
	_, err = env.client.Accept(ctx, invitesdk.AcceptRequest{
		Token:    created.Token,
		Name:     "Editor",
		Password: "a-strong-password",
	})
	require.NoError(t, err)

	_, err = admin.EditInvite(ctx, created.Invite.ID, invitesdk.EditInviteRequest{ExtendExpiry: true})
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestCampaignEndpoints(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inst := env.seedInstitution(t)
	admin := env.adminClient(t)

	campaign, err := admin.CreateCampaign(ctx, invitesdk.CreateCampaignRequest{
		Name:          "Spring Intake",
		Subject:       "Join Acme College",
		Message:       "You have been invited.",
		Role:          string(domain.RoleStudent),
		InstitutionID: inst.ID,
		Recipients:    []string{"one@a.example", "two@a.example", "one@a.example"},
	})
	require.NoError(t, err)
	require.Equal(t, "DRAFT", campaign.Status)

	recipients, err := admin.ListRecipients(ctx, campaign.ID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, recipients.Total)
	for _, rec := range recipients.Recipients {
		require.Equal(t, "QUEUED", rec.Status)
	}

	require.NoError(t, admin.StartCampaign(ctx, campaign.ID))
	require.NoError(t, admin.PauseCampaign(ctx, campaign.ID))

	// Pausing a paused campaign is an invalid transition.
	err = admin.PauseCampaign(ctx, campaign.ID)
	var apiErr *invitesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)

	listed, err := admin.ListInvites(ctx, 1, 20)
	require.NoError(t, err)
	require.Zero(t, listed.Total, "nothing minted until the sender runs")
}

func TestTrackOpenAlwaysAnswersNoContent(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/v1/campaigns/track/open/" + idx.New().String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(env.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
