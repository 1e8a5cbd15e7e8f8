package invitesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invitesdk: %s (%s)", e.Description, e.Code)
	}
	return fmt.Sprintf("invitesdk: unexpected status %d", e.StatusCode)
}

// Client talks to the invite lifecycle service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the bearer access token used for administrative operations.
	// Public operations ignore it.
	Token string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithToken returns a copy of the client carrying a bearer token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

// Validate resolves an invite token to its current state.
func (c *Client) Validate(ctx context.Context, token string) (*ValidateResponse, error) {
	var out ValidateResponse
	path := "/v1/invites/validate?token=" + url.QueryEscape(token)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrackView records that the invite link was opened. Fire and forget on
// the server side; a transport error is still reported to the caller.
func (c *Client) TrackView(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/invites/track/view",
		TrackViewRequest{Token: token}, nil, false)
}

// Accept consumes the invite, creating or linking an account.
func (c *Client) Accept(ctx context.Context, req AcceptRequest) (*AcceptResponse, error) {
	var out AcceptResponse
	if err := c.do(ctx, http.MethodPost, "/v1/invites/accept", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Decline records a terminal refusal of the invite.
func (c *Client) Decline(ctx context.Context, req DeclineRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/invites/decline", req, nil, false)
}

// CreateInvite mints a single invite. Administrative; requires a token.
func (c *Client) CreateInvite(ctx context.Context, req CreateInviteRequest) (*CreateInviteResponse, error) {
	var out CreateInviteResponse
	if err := c.do(ctx, http.MethodPost, "/v1/invites", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditInvite applies administrative changes to an unused invite.
func (c *Client) EditInvite(ctx context.Context, inviteID string, req EditInviteRequest) (*Invite, error) {
	var out Invite
	if err := c.do(ctx, http.MethodPatch, "/v1/invites/"+url.PathEscape(inviteID), req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvites pages invites. Administrative; requires a token.
func (c *Client) ListInvites(ctx context.Context, page, limit int) (*InviteListResponse, error) {
	var out InviteListResponse
	path := fmt.Sprintf("/v1/invites?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCampaign creates a DRAFT bulk campaign.
func (c *Client) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodPost, "/v1/campaigns", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartCampaign moves a campaign into SENDING.
func (c *Client) StartCampaign(ctx context.Context, campaignID string) error {
	return c.do(ctx, http.MethodPost,
		"/v1/campaigns/"+url.PathEscape(campaignID)+"/start", nil, nil, true)
}

// PauseCampaign stops a SENDING campaign.
func (c *Client) PauseCampaign(ctx context.Context, campaignID string) error {
	return c.do(ctx, http.MethodPost,
		"/v1/campaigns/"+url.PathEscape(campaignID)+"/pause", nil, nil, true)
}

// ListRecipients pages a campaign's recipients.
func (c *Client) ListRecipients(ctx context.Context, campaignID string, page, limit int) (*RecipientListResponse, error) {
	var out RecipientListResponse
	path := fmt.Sprintf("/v1/campaigns/%s/recipients?page=%d&limit=%d",
		url.PathEscape(campaignID), page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Code = envelope.Error
			apiErr.Description = envelope.ErrorDescription
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
