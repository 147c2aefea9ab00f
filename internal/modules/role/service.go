package role

import (
	"context"
	"errors"

	"bookclub/internal/domain"
	"bookclub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRoleExists   = errors.New("role already exists")
	ErrRoleNotFound = errors.New("role not found")
	ErrNoRoles      = errors.New("no roles found")
)

type Repository interface {
	List(ctx context.Context) ([]domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type DeleteRequest struct {
	RoleID string `json:"roleId" validate:"required"`
}

type Service struct {
	roles Repository
}

func NewService(roles Repository) *Service {
	return &Service{roles: roles}
}

func (s *Service) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ErrNoRoles
	}
	return roles, nil
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Role, error) {
	_, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return nil, ErrRoleExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &domain.Role{ID: uuid.New(), Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoleExists
		}
		return nil, err
	}
	return role, nil
}

// Delete removes a role. An id that is not a UUID cannot exist and is
// reported as not found.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrRoleNotFound
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	return nil
}
