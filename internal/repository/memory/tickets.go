package memory

import (
	"context"
	"sort"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

type ticketRepo struct {
	s *Store
}

func (r *ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	return r.s.write(func(st *state) error {
		if _, exists := st.tickets[ticket.ID]; exists {
			return errDuplicate("ticket", ticket.ID)
		}
		st.tickets[ticket.ID] = *ticket
		st.ticketOrder = append(st.ticketOrder, ticket.ID)
		return nil
	})
}

func (r *ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.tickets[ticket.ID]; !ok {
			return repository.ErrNotFound
		}
		st.tickets[ticket.ID] = *ticket
		return nil
	})
}

func (r *ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		ok     bool
	)
	r.s.read(func(st *state) { ticket, ok = st.tickets[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ticket, nil
}

func (r *ticketRepo) ExistsForSubject(_ context.Context, uid, errorTypeID string) (bool, error) {
	found := false
	r.s.read(func(st *state) {
		for _, t := range st.tickets {
			if t.UID == uid && t.ErrorTypeID == errorTypeID {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	if filter.RepresentativeIDs != nil && len(filter.RepresentativeIDs) == 0 {
		return result, nil
	}
	owners := toSet(filter.RepresentativeIDs)
	statuses := make(map[domain.TicketStatus]struct{}, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses[s] = struct{}{}
	}

	r.s.read(func(st *state) {
		for i := len(st.ticketOrder) - 1; i >= 0; i-- {
			t := st.tickets[st.ticketOrder[i]]
			if owners != nil {
				if _, ok := owners[t.RepresentativeID]; !ok {
					continue
				}
			}
			if filter.Team != nil && t.Team != *filter.Team {
				continue
			}
			if filter.UID != nil && t.UID != *filter.UID {
				continue
			}
			if filter.ErrorTypeID != nil && t.ErrorTypeID != *filter.ErrorTypeID {
				continue
			}
			if len(statuses) > 0 {
				if _, ok := statuses[t.Status]; !ok {
					continue
				}
			}
			result = append(result, t)
		}
	})
	// ticketOrder is creation order; keep newest first even when clocks tie
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, filter.Limit, filter.Offset), nil
}

func toSet(ids []string) map[string]struct{} {
	if ids == nil {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
