package types

// Slug is a machine-readable marker on every API response.
type Slug string

// Response slugs
const (
	SuccessSlug      Slug = "success"
	ErrorSlug        Slug = "error"
	InvalidInputSlug Slug = "invalid_input"
	NotFoundSlug     Slug = "not_found"
	ConflictSlug     Slug = "conflict"
	RateLimitedSlug  Slug = "rate_limited"
)

// Response is the envelope for successful API responses.
type Response struct {
	Slug Slug        `json:"slug"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for error API responses.
type ErrorResponse struct {
	Slug  Slug   `json:"slug"`
	Error string `json:"error"`
	// Optional additional details, such as field-level validation info.
	Details interface{} `json:"details,omitempty"`
}

// PaginationResponse carries paging information for list endpoints.
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse is a generic envelope for listing resources.
type ListResponse[T any] struct {
	Rows       []T                `json:"rows"`
	Pagination PaginationResponse `json:"pagination"`
}
