package submission

import (
	"bytes"
	"encoding/json"
)

// Cost is a cost figure as typed by the vendor. It accepts either a JSON
// number or a string such as "$12,500".
type Cost string

func (c *Cost) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cost(s)
		return nil
	}
	*c = Cost(data)
	return nil
}

// FormData is the proposal as posted by the vendor. Company identity fields
// are deliberately absent: they are copied from the vendor record.
type FormData struct {
	RFPType string `json:"rfpType" example:"care-coordination"`

	CurrentWorkflow string `json:"currentWorkflow"`
	PainPoints      string `json:"painPoints"`
	DesiredOutcomes string `json:"desiredOutcomes"`

	IntegrationScores map[string]int `json:"integrationScores"`
	IntegrationNotes  string         `json:"integrationNotes"`
	Step2Questions    string         `json:"step2Questions"`

	SOC2Compliant  bool   `json:"soc2Compliant"`
	HIPAACompliant bool   `json:"hipaaCompliant"`
	GDPRCompliant  bool   `json:"gdprCompliant"`
	DataResidency  string `json:"dataResidency"`
	SecurityNotes  string `json:"securityNotes"`
	Step3Questions string `json:"step3Questions"`

	ImplementationTimeline string      `json:"implementationTimeline"`
	UpfrontCost            Cost        `json:"upfrontCost" swaggertype:"string" example:"$12,500"`
	AnnualCost             Cost        `json:"annualCost" swaggertype:"string" example:"4000"`
	References             []Reference `json:"references"`
	Step4Questions         string      `json:"step4Questions"`

	AttestAccurate   bool `json:"attestAccurate"`
	AttestAuthorized bool `json:"attestAuthorized"`
}

// Question returns the question typed for a step.
func (f FormData) Question(step Step) string {
	switch step {
	case Step2:
		return f.Step2Questions
	case Step3:
		return f.Step3Questions
	case Step4:
		return f.Step4Questions
	}
	return ""
}

type ReviewInput struct {
	Status ReviewStatus `json:"status" binding:"required" example:"Shortlisted"`
	Notes  *string      `json:"notes" example:"Strong integration story"`
}

type ListFilter struct {
	ReviewStatus ReviewStatus `form:"status"`
}

type CreateResult struct {
	SubmissionID string `json:"submissionId"`
}
