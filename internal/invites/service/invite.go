package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
	"github.com/accredhub/accredhub/pkg/cryptox"
	"github.com/accredhub/accredhub/pkg/idx"
	"github.com/accredhub/accredhub/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidDeclineReason = errors.New("invalid decline reason")
	ErrWeakPassword         = errors.New("password must be at least 8 characters")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteAlreadyUsed    = errors.New("invite has already been used")
	ErrInviteExpired        = errors.New("invite has expired")
	ErrInviteDeclined       = errors.New("invite is no longer valid")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInstitutionNotFound  = errors.New("institution not found")
)

const (
	// DefaultInviteTTL is the window an invite stays acceptable. Extending
	// an invite replaces its expiry with now + this window.
	DefaultInviteTTL = 7 * 24 * time.Hour

	minPasswordLength = 8
)

// Events receives engagement notifications so campaign recipients track
// what happens to their linked invites. All calls are best effort; the
// invite lifecycle never fails because propagation did.
type Events interface {
	InviteViewed(ctx context.Context, inviteID string)
	InviteUsed(ctx context.Context, inviteID string)
}

type InviteService struct {
	Store  store.Store
	Events Events // optional
}

// ValidationResult is the outcome of checking a token, returned to
// unauthenticated callers following an invite link.
type ValidationResult struct {
	Valid        bool
	Status       domain.InviteStatus
	Invite       domain.Invite
	ExistingUser bool
	Reason       string // set when Valid is false
}

// CreateInvite mints a single invite and returns it with the raw token.
// The token is shown exactly once; only its fingerprint is stored.
func (s *InviteService) CreateInvite(
	ctx context.Context,
	actor Actor,
	email string,
	role domain.Role,
	institutionID string,
) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}
	if !role.Valid() {
		return domain.Invite{}, "", ErrInvalidRole
	}
	if role.RequiresInstitution() == (institutionID == "") {
		log.Warn("invite role and institution binding mismatch",
			slog.String("role", string(role)),
		)
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}

	// 2. Authorize. Institution admins only mint for their own tenant.
	if !actor.CanGrantRole(role) {
		return domain.Invite{}, "", ErrPermissionDenied
	}
	if institutionID != "" && !actor.CanManageInstitution(institutionID) {
		log.Warn("actor attempted to invite into another institution",
			slog.String("actor_id", actor.UserID),
			slog.String("institution_id", institutionID),
		)
		return domain.Invite{}, "", ErrPermissionDenied
	}

	// 3. Verify the institution exists when bound.
	if institutionID != "" {
		if _, err := s.Store.Institutions().GetInstitutionByID(ctx, institutionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invite{}, "", ErrInstitutionNotFound
			}
			log.Error("failed to fetch institution", slog.Any("error", err))
			return domain.Invite{}, "", err
		}
	}

	// 4. Generate and fingerprint the token.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	now := time.Now().UTC()
	invite := domain.Invite{
		ID:            idx.New().String(),
		TokenHash:     cryptox.FingerprintToken(token),
		Email:         email,
		Role:          role,
		InstitutionID: institutionID,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(DefaultInviteTTL),
		UpdatedAt:     now,
	}

	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, "", err
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("role", string(role)),
		slog.String("institution_id", institutionID),
		slog.Time("expires_at", invite.ExpiresAt),
	)

	return invite, token, nil
}

// Validate resolves a token to its invite and derives the current status.
// It never mutates anything: view tracking is a separate operation so
// validation can be retried without corrupting analytics.
func (s *InviteService) Validate(ctx context.Context, token string) (ValidationResult, error) {
	log := slogx.FromContext(ctx)

	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ValidationResult{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return ValidationResult{}, err
	}

	status := invite.StatusAt(time.Now().UTC())
	if status != domain.InvitePending {
		return ValidationResult{
			Valid:  false,
			Status: status,
			Reason: statusReason(status),
		}, nil
	}

	// Tell the caller whether to route to login or signup.
	existing := false
	if _, err := s.Store.Users().GetUserByEmail(ctx, invite.Email); err == nil {
		existing = true
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to probe for existing account", slog.Any("error", err))
		return ValidationResult{}, err
	}

	return ValidationResult{
		Valid:        true,
		Status:       status,
		Invite:       invite,
		ExistingUser: existing,
	}, nil
}

// TrackView stamps viewed_at for the invite behind the token. Fire and
// forget: errors are logged and swallowed so the caller's primary flow
// never blocks on analytics.
func (s *InviteService) TrackView(ctx context.Context, token string) {
	log := slogx.FromContext(ctx)
	hash := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	if err := s.Store.Invites().SetInviteViewed(ctx, hash, now); err != nil {
		log.Warn("failed to record invite view", slog.Any("error", err))
		return
	}

	if s.Events == nil {
		return
	}
	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, hash)
	if err != nil {
		return
	}
	s.Events.InviteViewed(ctx, invite.ID)
}

// Accept consumes a PENDING invite: it creates an account bound to the
// invite's email/role/institution, or re-binds an existing account with
// that email, then marks the invite used. The used_at write is guarded at
// the storage layer so concurrent accepts produce exactly one account and
// the loser observes an invalid-state error.
func (s *InviteService) Accept(
	ctx context.Context,
	token string,
	name string,
	password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the token and re-derive status. The client validated
	// earlier, but significant time may pass before the form submits.
	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.User{}, err
	}
	if err := requirePending(invite, time.Now().UTC()); err != nil {
		log.Warn("acceptance attempted on non-pending invite",
			slog.String("invite_id", invite.ID),
		)
		return domain.User{}, err
	}

	// 2. Create or link the account and consume the invite atomically.
	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()

		existing, err := tx.Users().GetUserByEmail(ctx, invite.Email)
		switch {
		case err == nil:
			// Existing account: re-bind role and institution. No password
			// is taken; the caller routes through login afterwards.
			if err := tx.Users().UpdateUserRole(ctx, existing.ID, invite.Role, invite.InstitutionID); err != nil {
				return err
			}
			existing.Role = invite.Role
			existing.InstitutionID = invite.InstitutionID
			user = existing

		case errors.Is(err, store.ErrNotFound):
			if strings.TrimSpace(name) == "" {
				return ErrInvalidInviteRequest
			}
			if len(password) < minPasswordLength {
				return ErrWeakPassword
			}
			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}
			user = domain.User{
				ID:            idx.New().String(),
				Email:         invite.Email,
				Name:          strings.TrimSpace(name),
				PasswordHash:  hash,
				Role:          invite.Role,
				InstitutionID: invite.InstitutionID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				// A racing accept created the account first. The guarded
				// used_at write below decides the winner.
				if !errors.Is(err, store.ErrAlreadyExists) {
					return err
				}
				user, err = tx.Users().GetUserByEmail(ctx, invite.Email)
				if err != nil {
					return err
				}
			}

		default:
			return err
		}

		// First writer wins on used_at.
		if err := tx.Invites().MarkInviteUsed(ctx, invite.ID, user.ID, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return s.conflictError(ctx, tx, invite.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("invite accepted",
		slog.String("invite_id", invite.ID),
		slog.String("user_id", user.ID),
	)

	if s.Events != nil {
		s.Events.InviteUsed(ctx, invite.ID)
	}
	return user, nil
}

// Decline records a terminal refusal with an enumerated reason. Free-text
// detail is kept only for the "other" reason. Once declined, accept fails.
func (s *InviteService) Decline(
	ctx context.Context,
	token string,
	reason domain.DeclineReason,
	note string,
) error {
	log := slogx.FromContext(ctx)

	if !reason.Valid() {
		return ErrInvalidDeclineReason
	}
	if reason != domain.DeclineReasonOther {
		note = ""
	}

	invite, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return err
	}
	if err := requirePending(invite, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.Store.Invites().MarkInviteDeclined(ctx, invite.ID, reason, note, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return s.conflictError(ctx, s.Store, invite.ID)
		}
		log.Error("failed to decline invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("invite declined",
		slog.String("invite_id", invite.ID),
		slog.String("reason", string(reason)),
	)
	return nil
}

// EditRequest carries the optional administrative changes to an invite.
type EditRequest struct {
	Role         domain.Role // empty leaves the role unchanged
	ExtendExpiry bool        // replaces expires_at with now + DefaultInviteTTL
}

// Edit applies administrative changes to an unused invite. Extending the
// expiry resurrects an expired-but-unused invite; a used invite can never
// be edited.
func (s *InviteService) Edit(
	ctx context.Context,
	actor Actor,
	inviteID string,
	req EditRequest,
) (domain.Invite, error) {
	log := slogx.FromContext(ctx)

	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.Invite{}, err
	}

	if invite.InstitutionID != "" && !actor.CanManageInstitution(invite.InstitutionID) {
		return domain.Invite{}, ErrPermissionDenied
	}
	if invite.InstitutionID == "" && !actor.IsPlatformAdmin() {
		return domain.Invite{}, ErrPermissionDenied
	}
	if invite.UsedAt != nil {
		return domain.Invite{}, ErrInviteAlreadyUsed
	}

	role := invite.Role
	if req.Role != "" {
		if !req.Role.Valid() {
			return domain.Invite{}, ErrInvalidRole
		}
		// The new role must keep the existing institution binding coherent.
		if req.Role.RequiresInstitution() != (invite.InstitutionID != "") {
			return domain.Invite{}, ErrInvalidInviteRequest
		}
		if !actor.CanGrantRole(req.Role) {
			return domain.Invite{}, ErrPermissionDenied
		}
		role = req.Role
	}

	expiresAt := invite.ExpiresAt
	if req.ExtendExpiry {
		expiresAt = time.Now().UTC().Add(DefaultInviteTTL)
	}

	if err := s.Store.Invites().UpdateInvite(ctx, invite.ID, role, expiresAt); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Invite{}, ErrInviteAlreadyUsed
		}
		log.Error("failed to update invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, err
	}

	log.Info("invite updated",
		slog.String("invite_id", invite.ID),
		slog.String("role", string(role)),
		slog.Bool("extended", req.ExtendExpiry),
	)

	return s.Store.Invites().GetInviteByID(ctx, invite.ID)
}

// Get fetches one invite for an administrative caller.
func (s *InviteService) Get(ctx context.Context, actor Actor, inviteID string) (domain.Invite, error) {
	invite, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invite{}, ErrInviteNotFound
		}
		return domain.Invite{}, err
	}
	if invite.InstitutionID != "" && !actor.CanManageInstitution(invite.InstitutionID) {
		return domain.Invite{}, ErrPermissionDenied
	}
	if invite.InstitutionID == "" && !actor.IsPlatformAdmin() {
		return domain.Invite{}, ErrPermissionDenied
	}
	return invite, nil
}

// List pages invites for an administrative caller. Institution admins are
// pinned to their own tenant regardless of the requested filter.
func (s *InviteService) List(
	ctx context.Context,
	actor Actor,
	f store.InviteFilter,
) ([]domain.Invite, int, error) {
	if !actor.IsPlatformAdmin() {
		if actor.Role != domain.RoleInstitutionAdmin || actor.InstitutionID == "" {
			return nil, 0, ErrPermissionDenied
		}
		f.InstitutionID = actor.InstitutionID
	}
	return s.Store.Invites().ListInvites(ctx, f)
}

// conflictError re-reads the invite after a guarded write lost the race
// and reports which terminal state won.
func (s *InviteService) conflictError(ctx context.Context, st store.Store, inviteID string) error {
	invite, err := st.Invites().GetInviteByID(ctx, inviteID)
	if err != nil {
		return ErrInviteAlreadyUsed
	}
	if invite.DeclinedAt != nil {
		return ErrInviteDeclined
	}
	return ErrInviteAlreadyUsed
}

func requirePending(invite domain.Invite, now time.Time) error {
	switch invite.StatusAt(now) {
	case domain.InviteUsed:
		return ErrInviteAlreadyUsed
	case domain.InviteExpired:
		return ErrInviteExpired
	case domain.InviteDeclined:
		return ErrInviteDeclined
	}
	return nil
}

func statusReason(status domain.InviteStatus) string {
	switch status {
	case domain.InviteUsed:
		return "already used"
	case domain.InviteExpired:
		return "expired"
	case domain.InviteDeclined:
		return "no longer valid"
	}
	return ""
}
