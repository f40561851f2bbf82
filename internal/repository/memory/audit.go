package memory

import (
	"context"

	"github.com/helpline-ops/support-desk/internal/domain"
)

type auditLogRepo struct {
	s *Store
}

func (r *auditLogRepo) Append(_ context.Context, entry *domain.AuditLog) error {
	return r.s.write(func(st *state) error {
		st.audit = append(st.audit, *entry)
		return nil
	})
}

func (r *auditLogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AuditLog, error) {
	result := []domain.AuditLog{}
	r.s.read(func(st *state) {
		for _, entry := range st.audit {
			if entry.TicketID == ticketID {
				result = append(result, entry)
			}
		}
	})
	return result, nil
}

func (r *auditLogRepo) List(_ context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	result := []domain.AuditLog{}
	r.s.read(func(st *state) {
		for i := len(st.audit) - 1; i >= 0 && len(result) < limit; i-- {
			result = append(result, st.audit[i])
		}
	})
	return result, nil
}

type feedbackRepo struct {
	s *Store
}

func (r *feedbackRepo) Create(_ context.Context, fb *domain.Feedback) error {
	return r.s.write(func(st *state) error {
		st.feedback = append([]domain.Feedback{*fb}, st.feedback...)
		return nil
	})
}

func (r *feedbackRepo) List(_ context.Context) ([]domain.Feedback, error) {
	var result []domain.Feedback
	r.s.read(func(st *state) { result = append([]domain.Feedback{}, st.feedback...) })
	return result, nil
}
