package app

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"quiz-management-service/internal/domain"
)

// AdminRepository persists quiz authors.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *domain.Admin) error
	GetAdmin(ctx context.Context, id int64) (*domain.Admin, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	UpdateAdmin(ctx context.Context, admin *domain.Admin) error
	DeleteAdmin(ctx context.Context, id int64) error
}

// UserRepository persists participants.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// AccountService covers admin and participant CRUD. Passwords are hashed
// with bcrypt before they reach the store; no login handling lives here.
type AccountService struct {
	admins AdminRepository
	users  UserRepository
}

func NewAccountService(admins AdminRepository, users UserRepository) *AccountService {
	return &AccountService{admins: admins, users: users}
}

func (s *AccountService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email, and password are required", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.Admin{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.admins.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AccountService) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	return s.admins.GetAdmin(ctx, id)
}

func (s *AccountService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.admins.ListAdmins(ctx)
}

func (s *AccountService) UpdateAdmin(ctx context.Context, id int64, name, email string) (*domain.Admin, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	admin, err := s.admins.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	admin.Name = name
	admin.Email = email
	if err := s.admins.UpdateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AccountService) DeleteAdmin(ctx context.Context, id int64) error {
	return s.admins.DeleteAdmin(ctx, id)
}

func (s *AccountService) CreateUser(ctx context.Context, name, regNo string) (*domain.User, error) {
	if name == "" || regNo == "" {
		return nil, fmt.Errorf("%w: name and regno are required", domain.ErrValidation)
	}
	user := &domain.User{Name: name, RegNo: regNo}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *AccountService) UpdateUser(ctx context.Context, id int64, name, regNo string) (*domain.User, error) {
	if name == "" || regNo == "" {
		return nil, fmt.Errorf("%w: name and regno are required", domain.ErrValidation)
	}
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.RegNo = regNo
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.DeleteUser(ctx, id)
}
