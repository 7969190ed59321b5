package service

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type UserService struct {
	client *client.Client
}

func NewUserService(c *client.Client) *UserService {
	return &UserService{
		client: c,
	}
}

// List returns a page of users. A role filter is enforced on the returned
// items as well as sent upstream.
func (s *UserService) List(ctx context.Context, filter domain.ListFilter) (domain.Page[domain.User], error) {
	page, err := client.List[domain.User](ctx, s.client, "/users", filter)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("client.List -> %w", err)
	}

	if filter.Role != "" {
		kept := make([]domain.User, 0, len(page.Items))
		for _, u := range page.Items {
			if u.Role == domain.Role(filter.Role) {
				kept = append(kept, u)
			}
		}
		page.Items = kept
	}

	return page, nil
}

// Petugas lists every active petugas, for assignment pickers.
func (s *UserService) Petugas(ctx context.Context) ([]domain.User, error) {
	users, err := listAll[domain.User](ctx, s.client, "/users", domain.ListFilter{Role: string(domain.RolePetugas)})
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == domain.RolePetugas && u.Active {
			out = append(out, u)
		}
	}

	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	if err := s.client.Get(ctx, resourcePath("users", id), nil, &user); err != nil {
		return domain.User{}, fmt.Errorf("s.client.Get -> %w", err)
	}

	return user, nil
}

func (s *UserService) Create(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	if err := client.FromValidation(validateUser(draft, false)); err != nil {
		return domain.User{}, err
	}

	var created domain.User
	if err := s.client.Post(ctx, "/users", draft, &created); err != nil {
		return domain.User{}, fmt.Errorf("s.client.Post -> %w", err)
	}

	return s.Get(ctx, created.ID)
}

// Update changes the user. A blank password is left out of the payload so
// the current one is kept.
func (s *UserService) Update(ctx context.Context, id string, draft domain.UserDraft) (domain.User, error) {
	if err := client.FromValidation(validateUser(draft, true)); err != nil {
		return domain.User{}, err
	}

	if err := s.client.Put(ctx, resourcePath("users", id), draft, nil); err != nil {
		return domain.User{}, fmt.Errorf("s.client.Put -> %w", err)
	}

	return s.Get(ctx, id)
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, resourcePath("users", id)); err != nil {
		return fmt.Errorf("s.client.Delete -> %w", err)
	}

	return nil
}
