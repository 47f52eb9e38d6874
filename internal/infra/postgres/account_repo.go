package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"quiz-management-service/internal/domain"
)

// AccountRepo persists admins and participants through bun.
type AccountRepo struct {
	db *bun.DB
}

func NewAccountRepo(db *bun.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	if _, err := r.db.NewInsert().Model(admin).Exec(ctx); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *AccountRepo) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	admin := new(domain.Admin)
	err := r.db.NewSelect().Model(admin).Where("a.admin_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select admin: %w", err)
	}
	return admin, nil
}

func (r *AccountRepo) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	admins := make([]domain.Admin, 0)
	err := r.db.NewSelect().Model(&admins).
		Order("a.created_at DESC").
		Order("a.admin_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

func (r *AccountRepo) UpdateAdmin(ctx context.Context, admin *domain.Admin) error {
	admin.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().Model(admin).
		Column("name", "email", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *AccountRepo) DeleteAdmin(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*domain.Admin)(nil)).
		Where("admin_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

func (r *AccountRepo) CreateUser(ctx context.Context, user *domain.User) error {
	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *AccountRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user := new(domain.User)
	err := r.db.NewSelect().Model(user).Where("u.user_id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

func (r *AccountRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.db.NewSelect().Model(&users).
		Order("u.created_at DESC").
		Order("u.user_id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *AccountRepo) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := r.db.NewUpdate().Model(user).
		Column("name", "regno").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepo) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*domain.User)(nil)).
		Where("user_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
