package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
	"github.com/accredhub/accredhub/internal/invites/store"
)

type campaignsRepo struct {
	db dbtx
}

const campaignColumns = `id, name, subject, message, role, institution_id, status,
	created_by, created_at, updated_at`

func (r *campaignsRepo) CreateCampaign(ctx context.Context, c domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, name, subject, message, role, institution_id, status,
			created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Subject, c.Message, string(c.Role),
		mapStringNull(c.InstitutionID), string(c.Status),
		c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *campaignsRepo) GetCampaignByID(ctx context.Context, id string) (domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
	return scanCampaign(row)
}

func (r *campaignsRepo) ListCampaigns(ctx context.Context, f store.CampaignFilter) ([]domain.Campaign, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.InstitutionID != "" {
		where += ` AND institution_id = ?`
		args = append(args, f.InstitutionID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}

func (r *campaignsRepo) UpdateCampaignStatus(
	ctx context.Context,
	id string,
	to domain.CampaignStatus,
	from ...domain.CampaignStatus,
) error {
	placeholders := make([]string, len(from))
	args := []any{string(to), time.Now().UTC(), id}
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, string(s))
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanCampaign(row rowScanner) (domain.Campaign, error) {
	var (
		c             domain.Campaign
		role          string
		status        string
		institutionID sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Subject, &c.Message, &role, &institutionID, &status,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Campaign{}, mapNotFound(err)
	}
	c.Role = domain.Role(role)
	c.InstitutionID = mapNullString(institutionID)
	c.Status = domain.CampaignStatus(status)
	return c, nil
}
