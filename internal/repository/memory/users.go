package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
)

func errDuplicate(kind, id string) error {
	return fmt.Errorf("%s %s already exists", kind, id)
}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	return r.s.write(func(st *state) error {
		if _, exists := st.users[user.ID]; exists {
			return errDuplicate("user", user.ID)
		}
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return errDuplicate("user email", user.Email)
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return repository.ErrNotFound
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	var (
		user domain.User
		ok   bool
	)
	r.s.read(func(st *state) { user, ok = st.users[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	var found *domain.User
	r.s.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				user := u
				found = &user
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	result := []domain.User{}
	r.s.read(func(st *state) {
		for _, u := range st.users {
			result = append(result, u)
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name == result[j].Name {
			return result[i].ID < result[j].ID
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}
