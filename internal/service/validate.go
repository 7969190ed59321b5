package service

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

const maxPhotosPerReport = 10

// At least eight characters with one letter and one digit.
var passwordPolicy = regexp2.MustCompile(`^(?=.*[A-Za-z])(?=.*\d).{8,}$`, regexp2.None)

var errPasswordPolicy = errors.New("must be at least 8 characters and contain a letter and a digit")

var dateRequired = validation.By(func(value interface{}) error {
	d, _ := value.(domain.Date)
	if d.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
})

func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if password == "" {
		return nil
	}

	ok, err := passwordPolicy.MatchString(password)
	if err != nil {
		return validation.NewInternalError(fmt.Errorf("passwordPolicy.MatchString -> %w", err))
	}
	if !ok {
		return errPasswordPolicy
	}

	return nil
}

func validateEvent(d domain.EventDraft) error {
	errs := validation.Errors{}
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required, validation.Length(3, 200)),
		validation.Field(&d.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.Description, validation.Length(0, 5000)),
		validation.Field(&d.Budget, validation.Min(int64(0))),
		validation.Field(&d.StartDate, dateRequired),
		validation.Field(&d.EndDate, dateRequired),
		validation.Field(&d.Status, validation.By(eventStatus)),
	); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if _, ok := errs["tanggal_selesai"]; !ok && d.EndDate.Before(d.StartDate) {
		errs["tanggal_selesai"] = errors.New("must not be before the start date")
	}

	return errs.Filter()
}

func eventStatus(value interface{}) error {
	status, _ := value.(domain.EventStatus)
	if status == "" || status.Valid() {
		return nil
	}

	return fmt.Errorf("must be one of %v", domain.EventStatuses)
}

// validateMilestone checks the draft and that its deadline falls within the
// parent event's period.
func validateMilestone(d domain.MilestoneDraft, event domain.Event) error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&d.Description, validation.Length(0, 5000)),
		validation.Field(&d.Deadline, dateRequired, validation.By(withinEvent(event))),
		validation.Field(&d.Order, validation.Required, validation.Min(1)),
		validation.Field(&d.Status, validation.By(func(value interface{}) error {
			status, _ := value.(domain.MilestoneStatus)
			if status == "" || status.Valid() {
				return nil
			}
			return errors.New("must be pending, on_progress or completed")
		})),
	)
}

func withinEvent(event domain.Event) func(value interface{}) error {
	return func(value interface{}) error {
		deadline, _ := value.(domain.Date)
		if deadline.IsZero() {
			return nil
		}
		if !event.StartDate.IsZero() && deadline.Before(event.StartDate) {
			return fmt.Errorf("must not be before the event start date (%s)", event.StartDate)
		}
		if !event.EndDate.IsZero() && deadline.After(event.EndDate) {
			return fmt.Errorf("must not be after the event end date (%s)", event.EndDate)
		}
		return nil
	}
}

func requiredUnless(skip bool) []validation.Rule {
	if skip {
		return nil
	}

	return []validation.Rule{validation.Required}
}

func validateProgress(d domain.ProgressDraft, update bool) error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.MilestoneID, requiredUnless(update)...),
		validation.Field(&d.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&d.ReportDate, dateRequired),
		validation.Field(&d.Percent, validation.Min(0), validation.Max(100)),
		validation.Field(&d.Photos, validation.Length(0, maxPhotosPerReport)),
	)
}

func validateUser(d domain.UserDraft, update bool) error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Length(3, 50)),
		validation.Field(&d.Email, validation.Required, is.Email),
		validation.Field(&d.Password, append(requiredUnless(update), validation.By(validatePassword))...),
		validation.Field(&d.FullName, validation.Required, validation.Length(1, 100)),
		validation.Field(&d.Role, validation.Required, validation.By(func(value interface{}) error {
			role, _ := value.(domain.Role)
			if role.Valid() {
				return nil
			}
			return errors.New("must be admin, supervisor or petugas")
		})),
	)
}
