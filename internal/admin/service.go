// Package admin backs the back-office screens: catalog, tables and staff
// accounts. Every write is validated locally first; an invalid form never
// reaches the backend.
package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"restopos/internal/api"
	"restopos/internal/domain"
	"restopos/internal/dto"
	apperrors "restopos/internal/errors"
)

type Backend interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in dto.CategoryRequest) (domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in dto.CategoryRequest) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListMenuItems(ctx context.Context, f api.MenuItemFilter) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, in dto.MenuItemRequest) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, in dto.MenuItemRequest) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error

	ListTables(ctx context.Context) ([]domain.Table, error)
	CreateTable(ctx context.Context, in dto.TableRequest) (domain.Table, error)
	UpdateTable(ctx context.Context, id int64, in dto.TableRequest) (domain.Table, error)
	DeleteTable(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in dto.UserRequest) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, in dto.UserRequest) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, in dto.ChangePasswordRequest) error
	ListRoles(ctx context.Context) ([]dto.RoleDTO, error)
}

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.backend.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, f CategoryForm) (domain.Category, error) {
	if err := Validate(f); err != nil {
		return domain.Category{}, err
	}
	c, err := s.backend.CreateCategory(ctx, categoryRequest(f))
	if err != nil {
		return domain.Category{}, err
	}
	s.logger.Info("category created", zap.Int64("categoryId", c.ID))
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, f CategoryForm) (domain.Category, error) {
	if err := Validate(f); err != nil {
		return domain.Category{}, err
	}
	return s.backend.UpdateCategory(ctx, id, categoryRequest(f))
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.backend.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted", zap.Int64("categoryId", id))
	return nil
}

func categoryRequest(f CategoryForm) dto.CategoryRequest {
	return dto.CategoryRequest{Name: f.Name, Description: f.Description, IsActive: f.IsActive}
}

func (s *Service) MenuItems(ctx context.Context, f api.MenuItemFilter) ([]domain.MenuItem, error) {
	return s.backend.ListMenuItems(ctx, f)
}

func (s *Service) CreateMenuItem(ctx context.Context, f MenuItemForm) (domain.MenuItem, error) {
	req, err := menuItemRequest(f)
	if err != nil {
		return domain.MenuItem{}, err
	}
	m, err := s.backend.CreateMenuItem(ctx, req)
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.logger.Info("menu item created", zap.Int64("menuItemId", m.ID), zap.Bool("withImage", len(req.Image) > 0))
	return m, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id int64, f MenuItemForm) (domain.MenuItem, error) {
	req, err := menuItemRequest(f)
	if err != nil {
		return domain.MenuItem{}, err
	}
	return s.backend.UpdateMenuItem(ctx, id, req)
}

func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.backend.DeleteMenuItem(ctx, id)
}

func menuItemRequest(f MenuItemForm) (dto.MenuItemRequest, error) {
	if err := Validate(f); err != nil {
		return dto.MenuItemRequest{}, err
	}
	req := dto.MenuItemRequest{
		CategoryID:  f.CategoryID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		IsAvailable: f.IsAvailable,
	}
	if f.ImagePath != "" {
		img, err := os.ReadFile(f.ImagePath)
		if err != nil {
			return dto.MenuItemRequest{}, fmt.Errorf("reading image: %w", err)
		}
		req.Image = img
		req.ImageName = filepath.Base(f.ImagePath)
	}
	return req, nil
}

func (s *Service) Tables(ctx context.Context) ([]domain.Table, error) {
	return s.backend.ListTables(ctx)
}

func (s *Service) CreateTable(ctx context.Context, f TableForm) (domain.Table, error) {
	if err := Validate(f); err != nil {
		return domain.Table{}, err
	}
	return s.backend.CreateTable(ctx, tableRequest(f))
}

func (s *Service) UpdateTable(ctx context.Context, id int64, f TableForm) (domain.Table, error) {
	if err := Validate(f); err != nil {
		return domain.Table{}, err
	}
	return s.backend.UpdateTable(ctx, id, tableRequest(f))
}

func (s *Service) DeleteTable(ctx context.Context, id int64) error {
	return s.backend.DeleteTable(ctx, id)
}

func tableRequest(f TableForm) dto.TableRequest {
	return dto.TableRequest{Number: f.Number, Capacity: f.Capacity, Status: f.Status}
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	return s.backend.ListUsers(ctx)
}

func (s *Service) CreateUser(ctx context.Context, f UserForm) (domain.User, error) {
	if err := Validate(f); err != nil {
		return domain.User{}, err
	}
	if f.Password == "" {
		return domain.User{}, apperrors.NewValidationError("please correct the highlighted fields", apperrors.ValidationDetail{
			Field:   "password",
			Message: "is required",
		})
	}
	u, err := s.backend.CreateUser(ctx, userRequest(f))
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user created", zap.Int64("userId", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, f UserForm) (domain.User, error) {
	if err := Validate(f); err != nil {
		return domain.User{}, err
	}
	return s.backend.UpdateUser(ctx, id, userRequest(f))
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("userId", id))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, f PasswordForm) error {
	if err := Validate(f); err != nil {
		return err
	}
	return s.backend.ChangePassword(ctx, id, dto.ChangePasswordRequest{
		CurrentPassword: f.Current,
		Password:        f.Password,
		PasswordConfirm: f.Confirm,
	})
}

func (s *Service) Roles(ctx context.Context) ([]dto.RoleDTO, error) {
	return s.backend.ListRoles(ctx)
}

func userRequest(f UserForm) dto.UserRequest {
	return dto.UserRequest{
		Name:     f.Name,
		Email:    f.Email,
		Role:     f.Role,
		Password: f.Password,
		IsActive: f.IsActive,
	}
}
