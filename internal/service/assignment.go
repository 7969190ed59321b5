package service

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type AssignmentService struct {
	client *client.Client
}

func NewAssignmentService(c *client.Client) *AssignmentService {
	return &AssignmentService{
		client: c,
	}
}

func (s *AssignmentService) List(ctx context.Context, eventID string) ([]domain.Assignment, error) {
	return assignmentsOf(ctx, s.client, eventID)
}

func assignmentsOf(ctx context.Context, c *client.Client, eventID string) ([]domain.Assignment, error) {
	page, err := client.List[domain.Assignment](ctx, c, resourcePath("events", eventID, "petugas"), domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("client.List -> %w", err)
	}

	return page.Items, nil
}

type assignPayload struct {
	PetugasIDs []string `json:"petugas_ids"`
}

// Assign adds petugas to the event and returns the refreshed assignments.
func (s *AssignmentService) Assign(ctx context.Context, eventID string, petugasIDs []string) ([]domain.Assignment, error) {
	ids := dedupe(petugasIDs)
	if len(ids) == 0 {
		return nil, client.FieldError("petugas_ids", "select at least one petugas")
	}

	if err := s.client.Post(ctx, resourcePath("events", eventID, "petugas"), assignPayload{PetugasIDs: ids}, nil); err != nil {
		return nil, fmt.Errorf("s.client.Post -> %w", err)
	}

	return assignmentsOf(ctx, s.client, eventID)
}

func (s *AssignmentService) Unassign(ctx context.Context, eventID, petugasID string) ([]domain.Assignment, error) {
	if err := s.client.Delete(ctx, resourcePath("events", eventID, "petugas", petugasID)); err != nil {
		return nil, fmt.Errorf("s.client.Delete -> %w", err)
	}

	return assignmentsOf(ctx, s.client, eventID)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
