package sqlite

import (
	"context"

	"github.com/accredhub/accredhub/internal/invites/domain"
)

type institutionsRepo struct {
	db dbtx
}

func (r *institutionsRepo) CreateInstitution(ctx context.Context, inst domain.Institution) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO institutions (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		inst.ID, inst.Name, inst.CreatedAt, inst.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *institutionsRepo) GetInstitutionByID(ctx context.Context, id string) (domain.Institution, error) {
	var inst domain.Institution
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM institutions WHERE id = ?`, id).
		Scan(&inst.ID, &inst.Name, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return domain.Institution{}, mapNotFound(err)
	}
	return inst, nil
}
