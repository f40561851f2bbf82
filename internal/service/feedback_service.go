package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

const maxFeedbackLength = 4000

// FeedbackService collects free-text feedback.
type FeedbackService struct {
	store repository.Store
	nowFn func() time.Time
}

// NewFeedbackService creates the service.
func NewFeedbackService(store repository.Store) *FeedbackService {
	return &FeedbackService{store: store, nowFn: time.Now}
}

// Submit stores feedback from the acting user.
func (s *FeedbackService) Submit(ctx context.Context, actor *domain.User, message string) (*domain.Feedback, error) {
	if actor == nil {
		return nil, ErrSessionInvalid
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	if len(message) > maxFeedbackLength {
		return nil, apperrors.NewValidationError("message too long", map[string]any{"max_length": maxFeedbackLength})
	}
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Message:   message,
		CreatedAt: s.nowFn(),
	}
	if err := s.store.Feedback().Create(ctx, fb); err != nil {
		return nil, apperrors.MapError(err)
	}
	return fb, nil
}

// List returns all feedback, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	items, err := s.store.Feedback().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}
