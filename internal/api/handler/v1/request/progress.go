package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

var errNotAnImage = errors.New("only image uploads are accepted")

// ProgressRequest is the multipart form behind progress report uploads.
type ProgressRequest struct {
	MilestoneID    string `form:"milestone_id" json:"milestone_id"`
	Description    string `form:"deskripsi" json:"deskripsi"`
	ReportDate     string `form:"tanggal_laporan" json:"tanggal_laporan" example:"2024-06-03"`
	Percent        int    `form:"persentase_progress" json:"persentase_progress"`
	ExistingPhotos string `form:"existing_photos" json:"existing_photos" example:"[\"/uploads/a.jpg\"]"`

	Photos []*multipart.FileHeader `form:"photos" json:"photos" swaggerignore:"true"`
}

func (req *ProgressRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ReportDate, validation.Required, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if _, err := domain.ParseDate(s); err != nil {
				return errors.New("must be a date like 2024-06-03")
			}
			return nil
		})),
		validation.Field(&req.ExistingPhotos, validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			var urls []string
			if err := json.Unmarshal([]byte(s), &urls); err != nil {
				return errors.New("must be a JSON list of photo URLs")
			}
			return nil
		})),
		validation.Field(&req.Photos, validation.By(func(value interface{}) error {
			photos, _ := value.([]*multipart.FileHeader)
			for _, fh := range photos {
				if fh == nil || !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
					return errNotAnImage
				}
			}
			return nil
		})),
	)
}

// ToDraft reads the uploaded photos into memory. Validate must have passed.
func (req *ProgressRequest) ToDraft() (domain.ProgressDraft, error) {
	date, err := domain.ParseDate(req.ReportDate)
	if err != nil {
		return domain.ProgressDraft{}, err
	}

	draft := domain.ProgressDraft{
		MilestoneID: req.MilestoneID,
		Description: strings.TrimSpace(req.Description),
		ReportDate:  date,
		Percent:     req.Percent,
	}

	if req.ExistingPhotos != "" {
		if err = json.Unmarshal([]byte(req.ExistingPhotos), &draft.RetainedPhotos); err != nil {
			return domain.ProgressDraft{}, fmt.Errorf("json.Unmarshal existing_photos -> %w", err)
		}
	}

	for _, fh := range req.Photos {
		attachment, err := readAttachment(fh)
		if err != nil {
			return domain.ProgressDraft{}, err
		}
		draft.Photos = append(draft.Photos, attachment)
	}

	return draft, nil
}

func readAttachment(fh *multipart.FileHeader) (domain.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("fh.Open -> %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("io.ReadAll -> %w", err)
	}

	return domain.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
