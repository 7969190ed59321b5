package domain

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Items      []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListFilter narrows a list request. Zero values are not sent.
type ListFilter struct {
	Page   int
	Limit  int
	Search string
	Status string
	Role   string
}
