package repository

import "github.com/linskybing/rfp-portal/internal/recordstore"

// Collection names in the record store.
const (
	VendorsTable     = "Vendors"
	DraftsTable      = "Drafts"
	SubmissionsTable = "Submissions"
	AuditTable       = "Audit Log"
)

// ErrNotFound is returned when a record id does not resolve.
var ErrNotFound = recordstore.ErrNotFound

// Vendors
const (
	fieldCompanyName  = "Company Name"
	fieldContactName  = "Contact Name"
	fieldContactTitle = "Contact Title"
	fieldEmail        = "Email"
	fieldPhone        = "Phone"
	fieldWebsite      = "Website"
	fieldCountry      = "Country"
	fieldCompanySize  = "Company Size"
	fieldServices     = "Services"
	fieldPasswordHash = "Password Hash"
	fieldNDAFileName  = "NDA File Name"
	fieldNDAURL       = "NDA URL"
	fieldNDAStorageID = "NDA Storage ID"
	fieldVendorStatus = "Status"
	fieldApprovedAt   = "Approved At"
	fieldApprovedBy   = "Approved By"
	fieldLastLogin    = "Last Login"
	fieldRegisteredAt = "Registered At"
)

// Drafts
const (
	fieldVendorLink = "Vendor"
	fieldFormData   = "Form Data"
	fieldLastSaved  = "Last Saved"
	fieldDraftState = "Status"
)

// Submissions
const (
	fieldRFPType                = "RFP Type"
	fieldCurrentWorkflow        = "Current Workflow"
	fieldPainPoints             = "Pain Points"
	fieldDesiredOutcomes        = "Desired Outcomes"
	fieldIntegrationScores      = "Integration Scores"
	fieldIntegrationNotes       = "Integration Notes"
	fieldSOC2                   = "SOC2 Compliant"
	fieldHIPAA                  = "HIPAA Compliant"
	fieldGDPR                   = "GDPR Compliant"
	fieldDataResidency          = "Data Residency"
	fieldSecurityNotes          = "Security Notes"
	fieldImplementationTimeline = "Implementation Timeline"
	fieldUpfrontCost            = "Upfront Cost"
	fieldAnnualCost             = "Annual Cost"
	fieldReferences             = "References"
	fieldPricingFileName        = "Pricing Document Name"
	fieldPricingURL             = "Pricing Document URL"
	fieldPricingStorageID       = "Pricing Document Storage ID"
	fieldAttestAccurate         = "Attest Accurate"
	fieldAttestAuthorized       = "Attest Authorized"
	fieldReviewStatus           = "Review Status"
	fieldAdminNotes             = "Admin Notes"
	fieldReviewedAt             = "Reviewed At"
	fieldReviewedBy             = "Reviewed By"
	fieldAnswersViewed          = "Answers Viewed"
	fieldQuestionsUpdated       = "Questions Last Updated"
	fieldSubmittedAt            = "Submitted At"
	fieldLastModified           = "Last Modified"
)

// Audit Log
const (
	fieldActor      = "Actor"
	fieldAction     = "Action"
	fieldEntityType = "Entity Type"
	fieldEntityID   = "Entity ID"
	fieldDetail     = "Detail"
	fieldLoggedAt   = "Logged At"
)
