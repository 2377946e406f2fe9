package dto

import (
	"time"

	"restopos/internal/domain"
)

type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToDomain fails on a role outside the known set rather than letting an
// unknown string travel further.
func (u UserDTO) ToDomain() (domain.User, error) {
	role, err := domain.ParseRole(u.Role)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func UserFromDomain(u domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"is_active"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirmation"`
}

type RoleDTO struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
