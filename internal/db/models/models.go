// Package models defines the persistent records of the hiring
// lifecycle: jobs, the two offer kinds (applications and invitations),
// contracts, and feedback.
package models

const (
	// DefaultLimit is the max number of rows retrieved per listing call
	DefaultLimit = 50
	// MaxLimit caps caller-supplied page sizes
	MaxLimit = 200
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize clamps the options to sane bounds.
func (o *ListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
