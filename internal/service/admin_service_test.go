package service

import (
	"context"
	"testing"

	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/config"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository/memory"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 5
	cfg.Auth.BcryptCost = 4
	return cfg
}

func errCode(err error) string {
	if de := apperrors.ToDomainError(err); de != nil {
		return de.Code
	}
	return ""
}

func TestAdminUserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := &domain.User{ID: "adm", Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	if err := store.Users().Create(ctx, admin); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewAdminService(testConfig(), store, nil)

	mgr, err := svc.CreateUser(ctx, admin, UserInput{Name: "Mgr", Email: "mgr@example.com", Password: "password1", Role: domain.RoleBranchManager, Team: strPtr("North")})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	rep, err := svc.CreateUser(ctx, admin, UserInput{Name: "Rep", Email: "rep@example.com", Password: "password1", Role: domain.RoleRepresentative, ManagerID: &mgr.ID})
	if err != nil {
		t.Fatalf("create rep: %v", err)
	}
	if rep.PasswordHash == "password1" || auth.ComparePassword(rep.PasswordHash, "password1") != nil {
		t.Fatalf("password must be stored as bcrypt hash")
	}

	if _, err := svc.CreateUser(ctx, admin, UserInput{Name: "Dup", Email: "REP@example.com", Password: "password1", Role: domain.RoleRepresentative}); errCode(err) != "CONFLICT" {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, rep, UserInput{Name: "X", Email: "x@example.com", Password: "password1", Role: domain.RoleAdmin}); errCode(err) != "FORBIDDEN" {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}
	if _, err := svc.CreateUser(ctx, admin, UserInput{Name: "M2", Email: "m2@example.com", Password: "password1", Role: domain.RoleAreaManager}); errCode(err) != "VALIDATION_FAILED" {
		t.Fatalf("expected managers to need a team, got %v", err)
	}

	// mgr reporting to rep would close a loop.
	if _, err := svc.UpdateUser(ctx, admin, mgr.ID, UserInput{Name: "Mgr", Email: "mgr@example.com", Role: domain.RoleBranchManager, Team: strPtr("North"), ManagerID: &rep.ID}); errCode(err) != "CONFLICT" {
		t.Fatalf("expected cycle conflict, got %v", err)
	}

	if err := svc.DeleteUser(ctx, admin, rep.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(ctx, admin, rep.ID); errCode(err) != "NOT_FOUND" {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestAdminCatalog(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := &domain.User{ID: "adm", Role: domain.RoleAdmin}
	svc := NewAdminService(testConfig(), store, nil)

	et, err := svc.CreateErrorType(ctx, admin, " Login ", "sign-in problems")
	if err != nil || et.Name != "Login" {
		t.Fatalf("create error type: %+v %v", et, err)
	}
	if _, err := svc.CreateAutomatedMessage(ctx, admin, "missing", "hi"); errCode(err) != "NOT_FOUND" {
		t.Fatalf("expected unknown error type, got %v", err)
	}
	msg, err := svc.CreateAutomatedMessage(ctx, admin, et.ID, "Reset your password.")
	if err != nil {
		t.Fatalf("create automated message: %v", err)
	}
	if err := svc.DeleteErrorType(ctx, admin, et.ID); errCode(err) != "CONFLICT" {
		t.Fatalf("expected in-use conflict, got %v", err)
	}
	if _, err := svc.UpdateAutomatedMessage(ctx, admin, msg.ID, "Use the portal."); err != nil {
		t.Fatalf("update message: %v", err)
	}
	if err := svc.DeleteAutomatedMessage(ctx, admin, msg.ID); err != nil {
		t.Fatalf("delete message: %v", err)
	}
	if err := svc.DeleteErrorType(ctx, admin, et.ID); err != nil {
		t.Fatalf("delete error type: %v", err)
	}
	types, _ := svc.ListErrorTypes(ctx)
	if len(types) != 0 {
		t.Fatalf("expected empty catalog, got %v", types)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cfg := testConfig()
	hash, _ := auth.HashPassword("password1", cfg.Auth.BcryptCost)
	mgr := &domain.User{ID: "m", Email: "m@example.com", PasswordHash: hash, Role: domain.RoleBranchManager, Team: strPtr("North")}
	if err := store.Users().Create(ctx, mgr); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := NewAuthService(cfg, store.Users())

	if _, _, _, err := svc.Login(ctx, "m@example.com", "nope", ""); errCode(err) != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "ghost@example.com", "password1", ""); errCode(err) != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
	_, token, _, err := svc.Login(ctx, "M@example.com", "password1", "South")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil || claims.Team != "North" {
		t.Fatalf("managers are pinned to their profile team, got %+v %v", claims, err)
	}
}

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	svc := NewFeedbackService(memory.NewStore())
	if _, err := svc.Submit(ctx, nil, "hi"); err != ErrSessionInvalid {
		t.Fatalf("expected session invalid, got %v", err)
	}
	if _, err := svc.Submit(ctx, &domain.User{ID: "u"}, "  "); errCode(err) != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Submit(ctx, &domain.User{ID: "u"}, "Great tool"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	items, err := svc.List(ctx)
	if err != nil || len(items) != 1 || items[0].UserID != "u" {
		t.Fatalf("unexpected feedback %+v %v", items, err)
	}
}
