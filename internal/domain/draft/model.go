package draft

import (
	"encoding/json"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/vendor"
)

const StatusDraft = "Draft"

// Draft is unsubmitted proposal form state. FormData is owned by the frontend
// and stored verbatim.
type Draft struct {
	ID        string          `json:"id"`
	VendorID  string          `json:"vendorId"`
	FormData  json.RawMessage `json:"formData"`
	LastSaved time.Time       `json:"lastSaved"`
	Status    string          `json:"status"`
}

// Loaded pairs a vendor's draft, if any, with the vendor's current profile.
type Loaded struct {
	Draft  *Draft         `json:"draft"`
	Vendor vendor.Profile `json:"vendor"`
}

type SaveInput struct {
	FormData json.RawMessage `json:"formData" binding:"required" swaggertype:"object"`
}

type SaveResult struct {
	DraftID   string    `json:"draftId"`
	LastSaved time.Time `json:"lastSaved"`
}
