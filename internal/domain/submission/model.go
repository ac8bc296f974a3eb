package submission

import (
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
)

type ReviewStatus string

const (
	ReviewPending     ReviewStatus = "Pending"
	ReviewApproved    ReviewStatus = "Approved"
	ReviewShortlisted ReviewStatus = "Shortlisted"
	ReviewRejected    ReviewStatus = "Rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewShortlisted, ReviewRejected:
		return true
	}
	return false
}

// Step names the form steps that carry a question/answer pair.
type Step string

const (
	Step2 Step = "step2"
	Step3 Step = "step3"
	Step4 Step = "step4"
)

// Steps lists the question-bearing steps in form order.
var Steps = []Step{Step2, Step3, Step4}

func (s Step) Valid() bool {
	for _, step := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

type Reference struct {
	Company     string `json:"company"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type QAPair struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type Submission struct {
	ID       string `json:"id"`
	VendorID string `json:"vendorId"`
	RFPType  string `json:"rfpType"`

	CompanyName  string `json:"companyName"`
	ContactName  string `json:"contactName"`
	ContactTitle string `json:"contactTitle"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Website      string `json:"website"`
	Country      string `json:"country"`

	CurrentWorkflow string `json:"currentWorkflow"`
	PainPoints      string `json:"painPoints"`
	DesiredOutcomes string `json:"desiredOutcomes"`

	IntegrationScores map[string]int `json:"integrationScores"`
	IntegrationNotes  string         `json:"integrationNotes"`

	SOC2Compliant  bool   `json:"soc2Compliant"`
	HIPAACompliant bool   `json:"hipaaCompliant"`
	GDPRCompliant  bool   `json:"gdprCompliant"`
	DataResidency  string `json:"dataResidency"`
	SecurityNotes  string `json:"securityNotes"`

	ImplementationTimeline string                `json:"implementationTimeline"`
	UpfrontCost            float64               `json:"upfrontCost"`
	AnnualCost             float64               `json:"annualCost"`
	References             []Reference           `json:"references"`
	PricingDocument        attachment.Attachment `json:"pricingDocument"`
	AttestAccurate         bool                  `json:"attestAccurate"`
	AttestAuthorized       bool                  `json:"attestAuthorized"`

	ReviewStatus ReviewStatus `json:"reviewStatus"`
	AdminNotes   string       `json:"adminNotes,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewedAt,omitempty"`
	ReviewedBy   string       `json:"reviewedBy,omitempty"`

	Questions          map[Step]QAPair `json:"questions"`
	AnswersViewed      bool            `json:"answersViewed"`
	QuestionsUpdatedAt *time.Time      `json:"questionsUpdatedAt,omitempty"`

	SubmittedAt  time.Time  `json:"submittedAt"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// OwnedBy reports whether the submission's vendor link is vendorID.
func (s Submission) OwnedBy(vendorID string) bool {
	return vendorID != "" && s.VendorID == vendorID
}
