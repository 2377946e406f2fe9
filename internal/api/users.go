package api

import (
	"context"
	"fmt"
	"net/http"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/users", path: "/users"})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	list, err := decodeList[dto.UserDTO](body, "users")
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(list))
	for _, u := range list {
		user, err := u.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", u.ID, err)
		}
		out = append(out, user)
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/users/{id}", path: idPath("/users", id)})
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching user %d: %w", id, err)
	}
	u, err := decodeOne[dto.UserDTO](body, "user")
	if err != nil {
		return domain.User{}, err
	}
	return u.ToDomain()
}

func (c *Client) CreateUser(ctx context.Context, in dto.UserRequest) (domain.User, error) {
	return c.saveUser(ctx, http.MethodPost, "/users", "/users", in)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in dto.UserRequest) (domain.User, error) {
	return c.saveUser(ctx, http.MethodPut, "/users/{id}", idPath("/users", id), in)
}

func (c *Client) saveUser(ctx context.Context, method, route, path string, in dto.UserRequest) (domain.User, error) {
	req, err := jsonRequest(method, route, path, in)
	if err != nil {
		return domain.User{}, err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return domain.User{}, fmt.Errorf("saving user: %w", err)
	}
	u, err := decodeOne[dto.UserDTO](body, "user")
	if err != nil {
		return domain.User{}, err
	}
	return u.ToDomain()
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, request{method: http.MethodDelete, route: "/users/{id}", path: idPath("/users", id)}); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return nil
}

func (c *Client) ChangePassword(ctx context.Context, id int64, in dto.ChangePasswordRequest) error {
	req, err := jsonRequest(http.MethodPut, "/users/{id}/password", idPath("/users", id, "password"), in)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, req); err != nil {
		return fmt.Errorf("changing password of user %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/roles", path: "/roles"})
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return decodeList[dto.RoleDTO](body, "roles")
}
