package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/linskybing/rfp-portal/internal/storage"
)

type SubmissionService struct {
	Repos     *repository.Repos
	documents storage.DocumentStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubmissionService(deps Deps) *SubmissionService {
	deps = deps.withDefaults()
	return &SubmissionService{
		Repos:     deps.Repos,
		documents: deps.Documents,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Create files a proposal for an approved vendor. Company identity is copied
// from the vendor record and any draft the vendor had is discarded.
func (s *SubmissionService) Create(ctx context.Context, vendorID string, form submission.FormData, pricing *attachment.Upload) (submission.CreateResult, error) {
	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return submission.CreateResult{}, storeError(err, ErrVendorNotFound, "load vendor")
	}
	if v.Status != vendor.StatusApproved {
		return submission.CreateResult{}, ErrAccountNotApproved
	}
	if err := validateForm(form); err != nil {
		return submission.CreateResult{}, err
	}

	now := s.now()
	sub := submission.Submission{
		VendorID:     vendorID,
		ReviewStatus: submission.ReviewPending,
		Questions:    make(map[submission.Step]submission.QAPair, len(submission.Steps)),
		SubmittedAt:  now,
	}
	copyIdentity(&sub, v)
	applyForm(&sub, form)
	for _, step := range submission.Steps {
		if q := strings.TrimSpace(form.Question(step)); q != "" {
			sub.Questions[step] = submission.QAPair{Question: q}
		}
	}
	if len(sub.Questions) > 0 {
		sub.QuestionsUpdatedAt = &now
	}

	if sub.PricingDocument, err = s.uploadPricing(ctx, pricing); err != nil {
		return submission.CreateResult{}, err
	}

	if err := s.Repos.Submission.Create(ctx, &sub); err != nil {
		return submission.CreateResult{}, upstreamError("failed to create submission", err)
	}

	s.discardDrafts(ctx, vendorID)
	return submission.CreateResult{SubmissionID: sub.ID}, nil
}

// Update rewrites an owned submission in place. Any edit sends the review
// back to Pending; question and answer fields are left alone.
func (s *SubmissionService) Update(ctx context.Context, submissionID, vendorID string, form submission.FormData, pricing *attachment.Upload) (submission.Submission, error) {
	sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "load submission")
	}
	if !sub.OwnedBy(vendorID) {
		return submission.Submission{}, ErrNotOwner
	}
	if err := validateForm(form); err != nil {
		return submission.Submission{}, err
	}

	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return submission.Submission{}, storeError(err, ErrVendorNotFound, "load vendor")
	}

	doc, err := s.uploadPricing(ctx, pricing)
	if err != nil {
		return submission.Submission{}, err
	}
	if !doc.IsZero() {
		sub.PricingDocument = doc
	}

	now := s.now()
	copyIdentity(&sub, v)
	applyForm(&sub, form)
	sub.ReviewStatus = submission.ReviewPending
	sub.LastModified = &now

	if err := s.Repos.Submission.UpdateContent(ctx, &sub); err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "update submission")
	}
	return sub, nil
}

func (s *SubmissionService) Get(ctx context.Context, submissionID, vendorID string) (submission.Submission, error) {
	sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "load submission")
	}
	if !sub.OwnedBy(vendorID) {
		return submission.Submission{}, ErrNotOwner
	}
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, vendorID string) ([]submission.Submission, error) {
	subs, err := s.Repos.Submission.FindByOwner(ctx, vendorID)
	if err != nil {
		return nil, upstreamError("failed to load submissions", err)
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return subs, nil
}

func (s *SubmissionService) AdminList(ctx context.Context, filter submission.ListFilter) ([]submission.Submission, error) {
	if filter.ReviewStatus != "" && !filter.ReviewStatus.Valid() {
		return nil, validationError("unknown review status " + string(filter.ReviewStatus))
	}
	subs, err := s.Repos.Submission.List(ctx, filter)
	if err != nil {
		return nil, upstreamError("failed to load submissions", err)
	}
	return subs, nil
}

func (s *SubmissionService) AdminGet(ctx context.Context, submissionID string) (submission.Submission, error) {
	sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "load submission")
	}
	return sub, nil
}

// uploadPricing stores the document before the owning record is written so a
// failed upload leaves the record untouched.
func (s *SubmissionService) uploadPricing(ctx context.Context, pricing *attachment.Upload) (attachment.Attachment, error) {
	if pricing == nil || len(pricing.Data) == 0 {
		return attachment.Attachment{}, nil
	}
	doc, err := s.documents.Put(ctx, storage.PrefixPricing, *pricing)
	if err != nil {
		return attachment.Attachment{}, upstreamError("failed to upload pricing document", err)
	}
	return doc, nil
}

func (s *SubmissionService) discardDrafts(ctx context.Context, vendorID string) {
	drafts, err := s.Repos.Draft.FindByOwner(ctx, vendorID)
	if err != nil {
		s.logger.Warn("failed to load drafts after submission", "vendor_id", vendorID, "error", err)
		return
	}
	for _, d := range drafts {
		if err := s.Repos.Draft.Delete(ctx, d.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("failed to delete draft after submission", "vendor_id", vendorID, "draft_id", d.ID, "error", err)
		}
	}
}

func validateForm(form submission.FormData) error {
	var missing []string
	if strings.TrimSpace(form.CurrentWorkflow) == "" {
		missing = append(missing, "currentWorkflow")
	}
	if strings.TrimSpace(form.PainPoints) == "" {
		missing = append(missing, "painPoints")
	}
	if strings.TrimSpace(form.DesiredOutcomes) == "" {
		missing = append(missing, "desiredOutcomes")
	}
	if len(missing) > 0 {
		return validationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func copyIdentity(sub *submission.Submission, v vendor.Vendor) {
	sub.CompanyName = v.CompanyName
	sub.ContactName = v.ContactName
	sub.ContactTitle = v.ContactTitle
	sub.Email = v.Email
	sub.Phone = v.Phone
	sub.Website = v.Website
	sub.Country = v.Country
}

func applyForm(sub *submission.Submission, form submission.FormData) {
	sub.RFPType = strings.TrimSpace(form.RFPType)
	sub.CurrentWorkflow = form.CurrentWorkflow
	sub.PainPoints = form.PainPoints
	sub.DesiredOutcomes = form.DesiredOutcomes
	sub.IntegrationScores = form.IntegrationScores
	if sub.IntegrationScores == nil {
		sub.IntegrationScores = map[string]int{}
	}
	sub.IntegrationNotes = form.IntegrationNotes
	sub.SOC2Compliant = form.SOC2Compliant
	sub.HIPAACompliant = form.HIPAACompliant
	sub.GDPRCompliant = form.GDPRCompliant
	sub.DataResidency = form.DataResidency
	sub.SecurityNotes = form.SecurityNotes
	sub.ImplementationTimeline = form.ImplementationTimeline
	sub.UpfrontCost = SanitizeCost(string(form.UpfrontCost))
	sub.AnnualCost = SanitizeCost(string(form.AnnualCost))
	sub.References = form.References
	if sub.References == nil {
		sub.References = []submission.Reference{}
	}
	sub.AttestAccurate = form.AttestAccurate
	sub.AttestAuthorized = form.AttestAuthorized
}
