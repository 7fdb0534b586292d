package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, phone, password_hash, name, avatar_url, role, is_active, is_verified, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.Password, &u.Name, &u.AvatarURL, &role,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleCustomer
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, phone, password_hash, name, avatar_url, role, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Phone, u.Password, u.Name, u.AvatarURL, string(u.Role), u.IsActive, u.IsVerified)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, phone = $2, password_hash = $3, name = $4, avatar_url = $5,
		    role = $6, is_active = $7, is_verified = $8, updated_at = $9
		WHERE id = $10
	`, u.Email, u.Phone, u.Password, u.Name, u.AvatarURL, string(u.Role), u.IsActive, u.IsVerified, u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr(err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleCustomer
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, phone, password_hash, name, avatar_url, role, is_active, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, role = EXCLUDED.role, password_hash = EXCLUDED.password_hash, updated_at = now()
		RETURNING id, created_at, updated_at
	`, u.Email, u.Phone, u.Password, u.Name, u.AvatarURL, string(u.Role), u.IsActive, u.IsVerified)
	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

var _ repository.UserRepository = (*UserRepository)(nil)
