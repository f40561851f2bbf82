package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/config"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

const minPasswordLength = 8

// AdminService manages reference data: users, error types and automated messages.
type AdminService struct {
	store      repository.Store
	logger     *zap.Logger
	bcryptCost int
	nowFn      func() time.Time
}

// UserInput carries user fields for create and update. Password is optional on update.
type UserInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	Team      *string
	ManagerID *string
}

// NewAdminService constructs the service.
func NewAdminService(cfg config.Config, store repository.Store, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{store: store, logger: logger, bcryptCost: cfg.Auth.BcryptCost, nowFn: time.Now}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil {
		return ErrSessionInvalid
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateUser adds an account.
func (s *AdminService) CreateUser(ctx context.Context, actor *domain.User, in UserInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateUserInput(in, true); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureManager(ctx, in.ManagerID, ""); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	now := s.nowFn()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		Team:         trimmedOrNil(in.Team),
		ManagerID:    trimmedOrNil(in.ManagerID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUser fetches one account.
func (s *AdminService) GetUser(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "user", map[string]any{"user_id": id})
	}
	return user, nil
}

// UpdateUser replaces account details.
func (s *AdminService) UpdateUser(ctx context.Context, actor *domain.User, id string, in UserInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateUserInput(in, false); err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "user", map[string]any{"user_id": id})
	}
	if err := s.ensureEmailFree(ctx, in.Email, user.ID); err != nil {
		return nil, err
	}
	if err := s.ensureManager(ctx, in.ManagerID, user.ID); err != nil {
		return nil, err
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Email = strings.TrimSpace(in.Email)
	user.Role = in.Role
	user.Team = trimmedOrNil(in.Team)
	user.ManagerID = trimmedOrNil(in.ManagerID)
	user.UpdatedAt = s.nowFn()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes an account. Reports of the deleted user keep a dangling manager
// reference, which hierarchy traversal tolerates.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewConflict("cannot delete your own account", nil)
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return mapNotFound(err, "user", map[string]any{"user_id": id})
	}
	return nil
}

// CreateErrorType adds a catalog entry.
func (s *AdminService) CreateErrorType(ctx context.Context, actor *domain.User, name, description string) (*domain.ErrorType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	now := s.nowFn()
	et := &domain.ErrorType{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.ErrorTypes().Create(ctx, et); err != nil {
		return nil, apperrors.MapError(err)
	}
	return et, nil
}

// ListErrorTypes is open to every authenticated user; ticket forms need it.
func (s *AdminService) ListErrorTypes(ctx context.Context) ([]domain.ErrorType, error) {
	types, err := s.store.ErrorTypes().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

// UpdateErrorType renames or re-describes a catalog entry.
func (s *AdminService) UpdateErrorType(ctx context.Context, actor *domain.User, id, name, description string) (*domain.ErrorType, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	et, err := s.store.ErrorTypes().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "error type", map[string]any{"error_type_id": id})
	}
	et.Name = name
	et.Description = strings.TrimSpace(description)
	et.UpdatedAt = s.nowFn()
	if err := s.store.ErrorTypes().Update(ctx, et); err != nil {
		return nil, apperrors.MapError(err)
	}
	return et, nil
}

// DeleteErrorType removes a catalog entry that no ticket or automated message uses.
func (s *AdminService) DeleteErrorType(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.AutomatedMessages().FindByErrorType(ctx, id); err == nil {
			return apperrors.NewConflict("error type has automated messages", map[string]any{"error_type_id": id})
		} else if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}
		used, err := tx.Tickets().List(ctx, repository.TicketFilter{ErrorTypeID: &id, Limit: 1})
		if err != nil {
			return apperrors.MapError(err)
		}
		if len(used) > 0 {
			return apperrors.NewConflict("error type is referenced by tickets", map[string]any{"error_type_id": id})
		}
		if err := tx.ErrorTypes().Delete(ctx, id); err != nil {
			return mapNotFound(err, "error type", map[string]any{"error_type_id": id})
		}
		return nil
	})
}

// CreateAutomatedMessage attaches a canned resolution to an error type.
func (s *AdminService) CreateAutomatedMessage(ctx context.Context, actor *domain.User, errorTypeID, message string) (*domain.AutomatedMessage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	if _, err := s.store.ErrorTypes().GetByID(ctx, errorTypeID); err != nil {
		return nil, mapNotFound(err, "error type", map[string]any{"error_type_id": errorTypeID})
	}
	now := s.nowFn()
	msg := &domain.AutomatedMessage{
		ID:          uuid.NewString(),
		ErrorTypeID: errorTypeID,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.AutomatedMessages().Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return msg, nil
}

// ListAutomatedMessages returns every automated message.
func (s *AdminService) ListAutomatedMessages(ctx context.Context, actor *domain.User) ([]domain.AutomatedMessage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	msgs, err := s.store.AutomatedMessages().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

// UpdateAutomatedMessage replaces the message text.
func (s *AdminService) UpdateAutomatedMessage(ctx context.Context, actor *domain.User, id, message string) (*domain.AutomatedMessage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	msg, err := s.store.AutomatedMessages().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "automated message", map[string]any{"automated_message_id": id})
	}
	msg.Message = message
	msg.UpdatedAt = s.nowFn()
	if err := s.store.AutomatedMessages().Update(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return msg, nil
}

// DeleteAutomatedMessage removes an automated message.
func (s *AdminService) DeleteAutomatedMessage(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.AutomatedMessages().Delete(ctx, id); err != nil {
		return mapNotFound(err, "automated message", map[string]any{"automated_message_id": id})
	}
	return nil
}

func validateUserInput(in UserInput, creating bool) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return apperrors.NewValidationError("name and email required", nil)
	}
	if !strings.Contains(in.Email, "@") {
		return apperrors.NewValidationError("invalid email", map[string]any{"email": in.Email})
	}
	if !in.Role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}
	if creating || in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
		}
	}
	if in.Role.IsManager() && (in.Team == nil || strings.TrimSpace(*in.Team) == "") {
		return apperrors.NewValidationError("managers need a team", nil)
	}
	return nil
}

func (s *AdminService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	return nil
}

// ensureManager checks the manager exists and that the new reporting line does not
// make the user report to one of their own reports.
func (s *AdminService) ensureManager(ctx context.Context, managerID *string, selfID string) error {
	id := trimmedOrNil(managerID)
	if id == nil {
		return nil
	}
	if *id == selfID {
		return apperrors.NewValidationError("user cannot manage themselves", nil)
	}
	if _, err := s.store.Users().GetByID(ctx, *id); err != nil {
		return mapNotFound(err, "manager", map[string]any{"manager_id": *id})
	}
	if selfID == "" {
		return nil
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	if _, cyclic := DescendantsOf(selfID, users)[*id]; cyclic {
		return apperrors.NewConflict("reporting line would form a cycle", map[string]any{"manager_id": *id})
	}
	return nil
}
