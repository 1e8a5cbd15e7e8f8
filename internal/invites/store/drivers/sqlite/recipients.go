package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
)

type recipientsRepo struct {
	db dbtx
}

const recipientColumns = `id, campaign_id, email, invite_id, status, failure_reason,
	created_at, updated_at`

func (r *recipientsRepo) CreateRecipients(ctx context.Context, recipients []domain.CampaignRecipient) error {
	for _, rec := range recipients {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO campaign_recipients (id, campaign_id, email, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.CampaignID, rec.Email, string(rec.Status),
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return mapUnique(err)
		}
	}
	return nil
}

func (r *recipientsRepo) GetRecipientByID(ctx context.Context, id string) (domain.CampaignRecipient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipientColumns+` FROM campaign_recipients WHERE id = ?`, id)
	return scanRecipient(row)
}

func (r *recipientsRepo) GetRecipientByInviteID(ctx context.Context, inviteID string) (domain.CampaignRecipient, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipientColumns+` FROM campaign_recipients WHERE invite_id = ?`, inviteID)
	return scanRecipient(row)
}

func (r *recipientsRepo) ListRecipients(
	ctx context.Context,
	campaignID string,
	f store.RecipientFilter,
) ([]domain.CampaignRecipient, int, error) {
	where := ` WHERE campaign_id = ?`
	args := []any{campaignID}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		where += ` AND email LIKE ?`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaign_recipients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipientColumns+` FROM campaign_recipients`+where+
			` ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recipients []domain.CampaignRecipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, 0, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, total, rows.Err()
}

func (r *recipientsRepo) CountRecipientsByStatus(
	ctx context.Context,
	campaignID string,
) (map[domain.RecipientStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM campaign_recipients
		WHERE campaign_id = ? GROUP BY status`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RecipientStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.RecipientStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *recipientsRepo) ListQueued(ctx context.Context, limit int) ([]domain.CampaignRecipient, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.campaign_id, r.email, r.invite_id, r.status, r.failure_reason,
			r.created_at, r.updated_at
		FROM campaign_recipients r
		JOIN campaigns c ON c.id = r.campaign_id
		WHERE r.status = ? AND c.status = ?
		ORDER BY r.created_at ASC, r.id ASC
		LIMIT ?`,
		string(domain.RecipientQueued), string(domain.CampaignSending), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []domain.CampaignRecipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

func (r *recipientsRepo) CountQueued(ctx context.Context, campaignID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM campaign_recipients
		WHERE campaign_id = ? AND status = ?`,
		campaignID, string(domain.RecipientQueued)).Scan(&n)
	return n, err
}

func (r *recipientsRepo) SetRecipientInvite(ctx context.Context, id, inviteID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaign_recipients SET invite_id = ?, updated_at = ?
		WHERE id = ?`,
		inviteID, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowNotFound(res)
}

func (r *recipientsRepo) AdvanceRecipientStatus(
	ctx context.Context,
	id string,
	to domain.RecipientStatus,
	from ...domain.RecipientStatus,
) error {
	placeholders := make([]string, len(from))
	args := []any{string(to), time.Now().UTC(), id}
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE campaign_recipients SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *recipientsRepo) MarkRecipientFailed(ctx context.Context, id, reason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaign_recipients SET status = ?, failure_reason = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		string(domain.RecipientFailed), mapStringNull(reason), time.Now().UTC(),
		id, string(domain.RecipientQueued), string(domain.RecipientSent))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanRecipient(row rowScanner) (domain.CampaignRecipient, error) {
	var (
		rec           domain.CampaignRecipient
		inviteID      sql.NullString
		status        string
		failureReason sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.CampaignID, &rec.Email, &inviteID, &status, &failureReason,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.CampaignRecipient{}, mapNotFound(err)
	}
	rec.InviteID = mapNullString(inviteID)
	rec.Status = domain.RecipientStatus(status)
	rec.FailureReason = mapNullString(failureReason)
	return rec, nil
}
