package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

var ErrNotReportAuthor = errors.New("only the author may change this progress report")

type ProgressService struct {
	client     *client.Client
	creds      client.CredentialSource
	milestones *MilestoneService
}

func NewProgressService(c *client.Client, creds client.CredentialSource, milestones *MilestoneService) *ProgressService {
	return &ProgressService{
		client:     c,
		creds:      creds,
		milestones: milestones,
	}
}

// ListByEvent returns the event's reports, at most limit when limit > 0.
func (s *ProgressService) ListByEvent(ctx context.Context, eventID string, limit int) ([]domain.ProgressReport, error) {
	return progressOf(ctx, s.client, eventID, limit)
}

// Create uploads a report against a milestone of the event and returns the
// milestone as it now stands.
func (s *ProgressService) Create(ctx context.Context, eventID string, draft domain.ProgressDraft) (domain.Milestone, error) {
	if err := client.FromValidation(validateProgress(draft, false)); err != nil {
		return domain.Milestone{}, err
	}

	milestone, err := s.milestones.Get(ctx, draft.MilestoneID)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("s.milestones.Get -> %w", err)
	}
	if milestone.EventID != eventID {
		return domain.Milestone{}, client.FieldError("milestone_id", "milestone does not belong to this event")
	}

	form, err := client.ProgressForm(draft, false)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("client.ProgressForm -> %w", err)
	}

	err = s.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   resourcePath("events", eventID, "progress"),
		Form:   form,
	}, nil)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("s.client.Do -> %w", err)
	}

	return s.milestones.Get(ctx, draft.MilestoneID)
}

// Update replaces a report the session user wrote. RetainedPhotos lists the
// existing photos to keep; any others are dropped by the backend.
func (s *ProgressService) Update(ctx context.Context, milestoneID, reportID string, draft domain.ProgressDraft) (domain.Milestone, error) {
	if err := client.FromValidation(validateProgress(draft, true)); err != nil {
		return domain.Milestone{}, err
	}
	if _, err := s.editable(ctx, milestoneID, reportID); err != nil {
		return domain.Milestone{}, err
	}

	form, err := client.ProgressForm(draft, true)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("client.ProgressForm -> %w", err)
	}

	err = s.client.Do(ctx, client.Request{
		Method: http.MethodPut,
		Path:   resourcePath("progress-reports", reportID),
		Form:   form,
	}, nil)
	if err != nil {
		return domain.Milestone{}, fmt.Errorf("s.client.Do -> %w", err)
	}

	return s.milestones.Get(ctx, milestoneID)
}

func (s *ProgressService) Remove(ctx context.Context, milestoneID, reportID string) (domain.Milestone, error) {
	if _, err := s.editable(ctx, milestoneID, reportID); err != nil {
		return domain.Milestone{}, err
	}

	if err := s.client.Delete(ctx, resourcePath("progress-reports", reportID)); err != nil {
		return domain.Milestone{}, fmt.Errorf("s.client.Delete -> %w", err)
	}

	return s.milestones.Get(ctx, milestoneID)
}

// Report finds a report on its milestone.
func (s *ProgressService) Report(ctx context.Context, milestoneID, reportID string) (domain.ProgressReport, error) {
	milestone, err := s.milestones.Get(ctx, milestoneID)
	if err != nil {
		return domain.ProgressReport{}, err
	}

	for _, r := range milestone.ProgressReports {
		if r.ID == reportID {
			return r, nil
		}
	}

	return domain.ProgressReport{}, client.NotFound("progress report", reportID)
}

func (s *ProgressService) editable(ctx context.Context, milestoneID, reportID string) (domain.ProgressReport, error) {
	session, ok := s.creds.Current()
	if !ok {
		return domain.ProgressReport{}, client.Unauthenticated()
	}

	report, err := s.Report(ctx, milestoneID, reportID)
	if err != nil {
		return domain.ProgressReport{}, err
	}
	if !policy.CanEditReport(session, report) {
		return domain.ProgressReport{}, &client.Error{
			Kind:    client.ErrForbidden,
			Status:  http.StatusForbidden,
			Message: ErrNotReportAuthor.Error(),
		}
	}

	return report, nil
}
