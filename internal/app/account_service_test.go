package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"quiz-management-service/internal/app"
	"quiz-management-service/internal/domain"
	"quiz-management-service/internal/infra/memory"
)

func TestCreateAdminHashesPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAccountService(store, store)

	admin, err := service.CreateAdmin(ctx, "Alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.PasswordHash == "s3cret" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := service.CreateAdmin(ctx, "", "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAccountService(store, store)

	admin, err := service.CreateAdmin(ctx, "Alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	updated, err := service.UpdateAdmin(ctx, admin.ID, "Alice B", "alice.b@example.com")
	if err != nil {
		t.Fatalf("update admin: %v", err)
	}
	if updated.Email != "alice.b@example.com" {
		t.Fatalf("expected updated email, got %q", updated.Email)
	}

	if err := service.DeleteAdmin(ctx, admin.ID); err != nil {
		t.Fatalf("delete admin: %v", err)
	}
	if _, err := service.GetAdmin(ctx, admin.ID); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Fatalf("expected admin gone, got %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewAccountService(store, store)

	user, err := service.CreateUser(ctx, "Bob", "RA1811003010")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user id assigned")
	}

	updated, err := service.UpdateUser(ctx, user.ID, "Bob R", "RA1811003011")
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.RegNo != "RA1811003011" {
		t.Fatalf("expected updated regno, got %q", updated.RegNo)
	}

	if err := service.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := service.GetUser(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}
