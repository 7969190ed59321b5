package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

const photoField = "photos"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// escapeQuotes quotes a Content-Disposition parameter the way mime/multipart does.
func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type formFile struct {
	field string
	file  domain.Attachment
}

// Multipart is an ordered multipart/form-data body.
type Multipart struct {
	fields [][2]string
	files  []formFile
}

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

func (m *Multipart) File(name string, file domain.Attachment) *Multipart {
	m.files = append(m.files, formFile{field: name, file: file})
	return m
}

func (m *Multipart) Encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("w.WriteField %s -> %w", f[0], err)
		}
	}

	for _, f := range m.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.field), escapeQuotes(f.file.Filename)))
		contentType := f.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("w.CreatePart %s -> %w", f.file.Filename, err)
		}
		if _, err = part.Write(f.file.Data); err != nil {
			return nil, "", fmt.Errorf("part.Write %s -> %w", f.file.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("w.Close -> %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

// ProgressForm encodes a progress report submission. Creates carry the
// milestone id; updates carry the retained photo URLs as a JSON list.
func ProgressForm(d domain.ProgressDraft, update bool) (*Multipart, error) {
	m := &Multipart{}
	m.Field("deskripsi", d.Description).
		Field("tanggal_laporan", d.ReportDate.String()).
		Field("persentase_progress", strconv.Itoa(d.Percent))

	if update {
		retained := d.RetainedPhotos
		if retained == nil {
			retained = []string{}
		}
		b, err := json.Marshal(retained)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal retained photos -> %w", err)
		}
		m.Field("existing_photos", string(b))
	} else {
		m.Field("milestone_id", d.MilestoneID)
	}

	for _, photo := range d.Photos {
		m.File(photoField, photo)
	}

	return m, nil
}
