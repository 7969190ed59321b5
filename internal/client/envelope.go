package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// decodeFields reads per-field messages sent either as {"field": "msg"},
// {"field": ["msg", ...]} or [{"field": "f", "message": "msg"}].
func decodeFields(raw json.RawMessage) map[string]string {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}

	var nested map[string][]string
	if err := json.Unmarshal(raw, &nested); err == nil {
		out := make(map[string]string, len(nested))
		for field, msgs := range nested {
			if len(msgs) > 0 {
				out[field] = msgs[0]
			}
		}
		return out
	}

	var list []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make(map[string]string, len(list))
		for _, item := range list {
			field := item.Field
			if field == "" {
				field = item.Path
			}
			if field != "" {
				out[field] = item.Message
			}
		}
		return out
	}

	return nil
}

// ListResult is a decoded list payload: either Paged or Unpaged.
type ListResult[T any] interface {
	Page(filter domain.ListFilter) domain.Page[T]
	isListResult()
}

// Paged is a list the backend wrapped as {data, pagination}.
type Paged[T any] struct {
	Items      []T
	Pagination domain.Pagination
}

// Unpaged is a list the backend sent as a bare array.
type Unpaged[T any] struct {
	Items []T
}

func (Paged[T]) isListResult()   {}
func (Unpaged[T]) isListResult() {}

func (p Paged[T]) Page(filter domain.ListFilter) domain.Page[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}

	pagination := p.Pagination
	if pagination.Page == 0 {
		pagination.Page = max(filter.Page, 1)
	}
	if pagination.Limit == 0 {
		pagination.Limit = filter.Limit
	}

	return domain.Page[T]{Items: items, Pagination: pagination}
}

// Page wraps the whole array as a single page.
func (u Unpaged[T]) Page(domain.ListFilter) domain.Page[T] {
	items := u.Items
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if len(items) > 0 {
		totalPages = 1
	}

	return domain.Page[T]{
		Items: items,
		Pagination: domain.Pagination{
			Total:      len(items),
			Page:       1,
			Limit:      len(items),
			TotalPages: totalPages,
		},
	}
}

// DecodeList normalises the two list shapes the backend answers with.
func DecodeList[T any](raw json.RawMessage) (ListResult[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Unpaged[T]{}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("json.Unmarshal list -> %w", err)
		}
		return Unpaged[T]{Items: items}, nil

	case '{':
		var wrapped struct {
			Data       json.RawMessage    `json:"data"`
			Pagination *domain.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("json.Unmarshal paged list -> %w", err)
		}

		var items []T
		if len(wrapped.Data) > 0 && !bytes.Equal(wrapped.Data, []byte("null")) {
			if err := json.Unmarshal(wrapped.Data, &items); err != nil {
				return nil, fmt.Errorf("json.Unmarshal paged items -> %w", err)
			}
		}
		if wrapped.Pagination == nil {
			return Unpaged[T]{Items: items}, nil
		}
		return Paged[T]{Items: items, Pagination: *wrapped.Pagination}, nil
	}

	return nil, fmt.Errorf("unexpected list payload starting with %q", trimmed[0])
}
