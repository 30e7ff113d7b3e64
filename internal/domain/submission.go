package domain

// SubmissionAction tells the backend what to do with a rejected entity.
type SubmissionAction string

const (
	// ActionAutoBan adds the entity to the deny-list directly.
	ActionAutoBan SubmissionAction = "auto_ban"
	// ActionPending queues the entity for moderation review.
	ActionPending SubmissionAction = "pending"
)

// SubmissionItem is one deduplicated rejected entity prepared for the backend.
type SubmissionItem struct {
	Type          ErrorKind        `json:"type"`
	Value         string           `json:"value"`
	Reason        string           `json:"reason"`
	OriginalError string           `json:"original_error"`
	Action        SubmissionAction `json:"action"`
}

// RemovedKeyword records a candidate keyword dropped by the deny-list filter
// during campaign assembly, for submission to the moderation queue.
type RemovedKeyword struct {
	Value  string `json:"value"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
