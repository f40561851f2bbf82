package memory

import (
	"context"
	"sort"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

type errorTypeRepo struct {
	s *Store
}

func (r *errorTypeRepo) Create(_ context.Context, et *domain.ErrorType) error {
	return r.s.write(func(st *state) error {
		if _, exists := st.errorTypes[et.ID]; exists {
			return errDuplicate("error type", et.ID)
		}
		st.errorTypes[et.ID] = *et
		return nil
	})
}

func (r *errorTypeRepo) Update(_ context.Context, et *domain.ErrorType) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.errorTypes[et.ID]; !ok {
			return repository.ErrNotFound
		}
		st.errorTypes[et.ID] = *et
		return nil
	})
}

func (r *errorTypeRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.errorTypes[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.errorTypes, id)
		return nil
	})
}

func (r *errorTypeRepo) GetByID(_ context.Context, id string) (*domain.ErrorType, error) {
	var (
		et domain.ErrorType
		ok bool
	)
	r.s.read(func(st *state) { et, ok = st.errorTypes[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &et, nil
}

func (r *errorTypeRepo) List(_ context.Context) ([]domain.ErrorType, error) {
	result := []domain.ErrorType{}
	r.s.read(func(st *state) {
		for _, et := range st.errorTypes {
			result = append(result, et)
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type automatedMessageRepo struct {
	s *Store
}

func (r *automatedMessageRepo) Create(_ context.Context, msg *domain.AutomatedMessage) error {
	return r.s.write(func(st *state) error {
		if _, exists := st.automatedMessages[msg.ID]; exists {
			return errDuplicate("automated message", msg.ID)
		}
		st.automatedMessages[msg.ID] = *msg
		st.messageOrder = append(st.messageOrder, msg.ID)
		return nil
	})
}

func (r *automatedMessageRepo) Update(_ context.Context, msg *domain.AutomatedMessage) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.automatedMessages[msg.ID]; !ok {
			return repository.ErrNotFound
		}
		st.automatedMessages[msg.ID] = *msg
		return nil
	})
}

func (r *automatedMessageRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.automatedMessages[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.automatedMessages, id)
		for i, existing := range st.messageOrder {
			if existing == id {
				st.messageOrder = append(st.messageOrder[:i:i], st.messageOrder[i+1:]...)
				break
			}
		}
		return nil
	})
}

func (r *automatedMessageRepo) GetByID(_ context.Context, id string) (*domain.AutomatedMessage, error) {
	var (
		msg domain.AutomatedMessage
		ok  bool
	)
	r.s.read(func(st *state) { msg, ok = st.automatedMessages[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &msg, nil
}

func (r *automatedMessageRepo) FindByErrorType(_ context.Context, errorTypeID string) (*domain.AutomatedMessage, error) {
	var found *domain.AutomatedMessage
	r.s.read(func(st *state) {
		for _, id := range st.messageOrder {
			msg := st.automatedMessages[id]
			if msg.ErrorTypeID == errorTypeID {
				found = &msg
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *automatedMessageRepo) List(_ context.Context) ([]domain.AutomatedMessage, error) {
	result := []domain.AutomatedMessage{}
	r.s.read(func(st *state) {
		for _, id := range st.messageOrder {
			result = append(result, st.automatedMessages[id])
		}
	})
	return result, nil
}
