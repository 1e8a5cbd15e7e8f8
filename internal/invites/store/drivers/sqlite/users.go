package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/accredhub/accredhub/internal/invites/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, role, institution_id, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, institution_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role),
		mapStringNull(u.InstitutionID), u.CreatedAt, u.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) UpdateUserRole(ctx context.Context, userID string, role domain.Role, institutionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET role = ?, institution_id = ?, updated_at = ?
		WHERE id = ?`,
		string(role), mapStringNull(institutionID), time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowNotFound(res)
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u             domain.User
		role          string
		institutionID sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &institutionID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.InstitutionID = mapNullString(institutionID)
	return u, nil
}
