package usecase

import (
	"time"

	"github.com/jcamachor/distribuidora-api/internal/application/dto"
	"github.com/jcamachor/distribuidora-api/internal/domain"
	"github.com/jcamachor/distribuidora-api/internal/domain/entity"
	"github.com/jcamachor/distribuidora-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin): listado y cambio de
// rol o estado. El alta pasa por el caso de uso de auth.
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetByID devuelve un usuario por su id.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil || user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.userRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol de un usuario.
func (uc *UserUseCase) UpdateRole(id, role string) (*dto.UserResponse, error) {
	switch role {
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor:
	default:
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil || user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// UpdateStatus activa o desactiva un usuario.
func (uc *UserUseCase) UpdateStatus(id, status string) (*dto.UserResponse, error) {
	switch status {
	case "active", "inactive", "suspended":
	default:
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil || user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
