package qa

import (
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/submission"
)

// Thread is a question/answer pairing derived from one step of one
// submission. Threads are computed on read and never stored.
type Thread struct {
	ID           string          `json:"id"`
	SubmissionID string          `json:"submissionId"`
	Step         submission.Step `json:"step"`
	RFPType      string          `json:"rfpType"`
	Question     string          `json:"question"`
	Answer       string          `json:"answer,omitempty"`
	AskedAt      time.Time       `json:"askedAt"`
	AnsweredAt   *time.Time      `json:"answeredAt,omitempty"`
	HasNewAnswer bool            `json:"hasNewAnswer"`

	VendorID    string `json:"vendorId,omitempty"`
	VendorName  string `json:"vendorName,omitempty"`
	VendorEmail string `json:"vendorEmail,omitempty"`
}

func ThreadID(submissionID string, step submission.Step) string {
	return submissionID + ":" + string(step)
}

func (t Thread) Answered() bool {
	return t.Answer != ""
}

type ThreadList struct {
	Threads         []Thread `json:"threads"`
	Total           int      `json:"total"`
	UnansweredCount int      `json:"unansweredCount"`
	NewAnswerCount  int      `json:"newAnswerCount"`
}

type AnswerInput struct {
	Step   submission.Step `json:"step" binding:"required" example:"step3"`
	Answer string          `json:"answer" binding:"required"`
}

type AskInput struct {
	Step     submission.Step `json:"step" binding:"required" example:"step2"`
	Question string          `json:"question" binding:"required"`
}

type MarkReadInput struct {
	SubmissionID string `json:"submissionId"`
}
