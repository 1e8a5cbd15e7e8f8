package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
)

type invitesRepo struct {
	db dbtx
}

const inviteColumns = `id, token_hash, email, role, institution_id, created_by,
	expires_at, viewed_at, used_at, used_by, declined_at, decline_reason, decline_note,
	created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invites (id, token_hash, email, role, institution_id, created_by,
			expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenHash, inv.Email, string(inv.Role),
		mapStringNull(inv.InstitutionID), inv.CreatedBy,
		inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = ?`, hash)
	return scanInvite(row)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) ListInvites(ctx context.Context, f store.InviteFilter) ([]domain.Invite, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.InstitutionID != "" {
		where += ` AND institution_id = ?`
		args = append(args, f.InstitutionID)
	}
	if f.Search != "" {
		where += ` AND email LIKE ?`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invites`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+inviteColumns+` FROM invites`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, 0, err
		}
		invites = append(invites, inv)
	}
	return invites, total, rows.Err()
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, id, usedBy string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET used_at = ?, used_by = ?, updated_at = ?
		WHERE id = ? AND used_at IS NULL AND declined_at IS NULL`,
		at, usedBy, at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) MarkInviteDeclined(
	ctx context.Context,
	id string,
	reason domain.DeclineReason,
	note string,
	at time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET declined_at = ?, decline_reason = ?, decline_note = ?, updated_at = ?
		WHERE id = ? AND used_at IS NULL AND declined_at IS NULL`,
		at, string(reason), mapStringNull(note), at, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) SetInviteViewed(ctx context.Context, hash string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invites SET viewed_at = ?, updated_at = ?
		WHERE token_hash = ?`,
		at, at, hash)
	return err
}

func (r *invitesRepo) UpdateInvite(ctx context.Context, id string, role domain.Role, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invites SET role = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND used_at IS NULL`,
		string(role), expiresAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *invitesRepo) DeleteInvitesExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invites
		WHERE expires_at < ? AND used_at IS NULL AND declined_at IS NULL
		AND id NOT IN (SELECT invite_id FROM campaign_recipients WHERE invite_id IS NOT NULL)`,
		cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// requireRow maps a zero-row conditional update to ErrConflict.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

// pageBounds normalises a 1-based page and limit into LIMIT/OFFSET.
func pageBounds(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (domain.Invite, error) {
	var (
		inv           domain.Invite
		role          string
		institutionID sql.NullString
		viewedAt      sql.NullTime
		usedAt        sql.NullTime
		usedBy        sql.NullString
		declinedAt    sql.NullTime
		declineReason sql.NullString
		declineNote   sql.NullString
	)

	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.Email, &role, &institutionID, &inv.CreatedBy,
		&inv.ExpiresAt, &viewedAt, &usedAt, &usedBy, &declinedAt, &declineReason, &declineNote,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.Role = domain.Role(role)
	inv.InstitutionID = mapNullString(institutionID)
	inv.ViewedAt = mapNullTimePtr(viewedAt)
	inv.UsedAt = mapNullTimePtr(usedAt)
	inv.UsedBy = mapNullString(usedBy)
	inv.DeclinedAt = mapNullTimePtr(declinedAt)
	inv.DeclineReason = domain.DeclineReason(mapNullString(declineReason))
	inv.DeclineNote = mapNullString(declineNote)
	return inv, nil
}
