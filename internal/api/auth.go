package api

import (
	"context"
	"fmt"
	"net/http"

	"restopos/internal/domain"
	"restopos/internal/dto"
)

func (c *Client) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	req, err := jsonRequest(http.MethodPost, "/login", "/login", dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", domain.User{}, err
	}
	req.credentials = true
	body, err := c.do(ctx, req)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("logging in: %w", err)
	}
	resp, err := decodeOne[dto.LoginResponse](body, "")
	if err != nil {
		return "", domain.User{}, err
	}
	if resp.Token == "" {
		resp.Token, _ = decodeToken(body)
	}
	user, err := resp.User.ToDomain()
	if err != nil {
		return "", domain.User{}, fmt.Errorf("logging in: %w", err)
	}
	return resp.Token, user, nil
}

// decodeToken covers backends that name the field access_token.
func decodeToken(body []byte) (string, error) {
	v, err := decodeOne[struct {
		AccessToken string `json:"access_token"`
	}](body, "")
	return v.AccessToken, err
}

func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, request{method: http.MethodPost, route: "/logout", path: "/logout"}); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, route: "/me", path: "/me"})
	if err != nil {
		return domain.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	u, err := decodeOne[dto.UserDTO](body, "user")
	if err != nil {
		return domain.User{}, err
	}
	return u.ToDomain()
}
