package repository

import (
	"context"
	"strings"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// UserRepository defines access to admin panel accounts.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type memoryUserRepository struct {
	store *MemoryStore[domain.User]
}

// NewMemoryUserRepository returns an in-memory implementation. New users are listed first.
func NewMemoryUserRepository(seed []domain.User) (UserRepository, error) {
	store, err := NewMemoryStore(func(u domain.User) string { return u.ID }, seed...)
	if err != nil {
		return nil, err
	}
	return &memoryUserRepository{store: store}, nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	return r.store.List(), nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.store.List() {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	return r.store.Prepend(*user)
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	_, err := r.store.Update(user.ID, func(u *domain.User) error {
		*u = *user
		return nil
	})
	return err
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	return r.store.Delete(id)
}
