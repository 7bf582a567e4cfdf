package types

// CreateJobRequest is the payload for posting a new job.
type CreateJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	CategoryID  uint    `json:"category_id"`
}

// UpdateJobRequest is the payload for editing an unverified job.
// Nil fields are left unchanged.
type UpdateJobRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Location    *string  `json:"location,omitempty"`
	CategoryID  *uint    `json:"category_id,omitempty"`
}

// ApplyRequest is the payload for a worker applying to a job.
type ApplyRequest struct {
	Message      string  `json:"message"`
	ProposedRate float64 `json:"proposed_rate"`
}

// InviteRequest is the payload for a client inviting a worker to a job.
type InviteRequest struct {
	WorkerID     uint    `json:"worker_id"`
	Description  string  `json:"description"`
	ProposedRate float64 `json:"proposed_rate"`
}

// SubmitFeedbackRequest is the payload for rating a completed contract.
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
