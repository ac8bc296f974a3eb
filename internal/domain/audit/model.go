package audit

import "time"

type Entry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	ActionVendorApproved   = "vendor.approved"
	ActionVendorDeclined   = "vendor.declined"
	ActionSubmissionReview = "submission.reviewed"
	ActionAnswerPosted     = "answer.posted"
)
