package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

var (
	ErrMissingCredential = errors.New("login response carried no token")
	ErrUnsupportedRole   = errors.New("account role is not supported by the dashboard")
)

type AuthService struct {
	client *client.Client
}

func NewAuthService(c *client.Client) *AuthService {
	return &AuthService{
		client: c,
	}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, identifier, secret string) (domain.Session, error) {
	var result loginResult
	err := s.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginPayload{Username: identifier, Password: secret},
		Public: true,
	}, &result)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.client.Do -> %w", err)
	}

	if result.Token == "" {
		return domain.Session{}, ErrMissingCredential
	}
	if !result.User.Role.Valid() {
		return domain.Session{}, fmt.Errorf("%w: %q", ErrUnsupportedRole, result.User.Role)
	}

	return domain.Session{Credential: result.Token, User: result.User}, nil
}

func (s *AuthService) Logout(ctx context.Context, credential string) error {
	err := s.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Token:  credential,
	}, nil)
	if err != nil {
		return fmt.Errorf("s.client.Do -> %w", err)
	}

	return nil
}
