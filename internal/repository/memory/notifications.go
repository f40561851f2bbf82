package memory

import (
	"context"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

// Notifications are prepended so slices are always newest-first.

type systemNotificationRepo struct {
	s *Store
}

func (r *systemNotificationRepo) Create(_ context.Context, n *domain.SystemNotification) error {
	return r.s.write(func(st *state) error {
		st.system = append([]domain.SystemNotification{*n}, st.system...)
		return nil
	})
}

func (r *systemNotificationRepo) GetByID(_ context.Context, id string) (*domain.SystemNotification, error) {
	var found *domain.SystemNotification
	r.s.read(func(st *state) {
		for _, n := range st.system {
			if n.ID == id {
				row := n
				found = &row
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *systemNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	changed := false
	err := r.s.write(func(st *state) error {
		for i := range st.system {
			if st.system[i].ID == id {
				changed = !st.system[i].IsRead
				st.system[i].IsRead = true
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return changed, err
}

func (r *systemNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]domain.SystemNotification, error) {
	return r.filter(func(n domain.SystemNotification) bool {
		return n.UserID == userID && (!unreadOnly || !n.IsRead)
	}), nil
}

func (r *systemNotificationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.SystemNotification, error) {
	return r.filter(func(n domain.SystemNotification) bool { return n.TicketID == ticketID }), nil
}

func (r *systemNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	return len(r.filter(func(n domain.SystemNotification) bool { return n.UserID == userID && !n.IsRead })), nil
}

func (r *systemNotificationRepo) filter(keep func(domain.SystemNotification) bool) []domain.SystemNotification {
	result := []domain.SystemNotification{}
	r.s.read(func(st *state) {
		for _, n := range st.system {
			if keep(n) {
				result = append(result, n)
			}
		}
	})
	return result
}

type adminNotificationRepo struct {
	s *Store
}

func (r *adminNotificationRepo) Create(_ context.Context, n *domain.AdminNotification) error {
	return r.s.write(func(st *state) error {
		st.admin = append([]domain.AdminNotification{*n}, st.admin...)
		return nil
	})
}

func (r *adminNotificationRepo) GetByID(_ context.Context, id string) (*domain.AdminNotification, error) {
	var found *domain.AdminNotification
	r.s.read(func(st *state) {
		for _, n := range st.admin {
			if n.ID == id {
				row := n
				found = &row
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *adminNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	changed := false
	err := r.s.write(func(st *state) error {
		for i := range st.admin {
			if st.admin[i].ID == id {
				changed = !st.admin[i].IsRead
				st.admin[i].IsRead = true
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return changed, err
}

func (r *adminNotificationRepo) List(_ context.Context, unreadOnly bool) ([]domain.AdminNotification, error) {
	return r.filter(func(n domain.AdminNotification) bool { return !unreadOnly || !n.IsRead }), nil
}

func (r *adminNotificationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AdminNotification, error) {
	return r.filter(func(n domain.AdminNotification) bool { return n.TicketID == ticketID }), nil
}

func (r *adminNotificationRepo) CountUnread(_ context.Context) (int, error) {
	return len(r.filter(func(n domain.AdminNotification) bool { return !n.IsRead })), nil
}

func (r *adminNotificationRepo) filter(keep func(domain.AdminNotification) bool) []domain.AdminNotification {
	result := []domain.AdminNotification{}
	r.s.read(func(st *state) {
		for _, n := range st.admin {
			if keep(n) {
				result = append(result, n)
			}
		}
	})
	return result
}
