package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/audit"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/notify"
	"github.com/linskybing/rfp-portal/internal/repository"
)

// ApprovalService owns the admin side of the vendor and submission
// lifecycles. A vendor moves from Pending Approval to Approved or Declined
// exactly once. Submission review statuses move freely on admin action.
type ApprovalService struct {
	Repos  *repository.Repos
	audit  *AuditService
	events EventSink
	now    func() time.Time
}

func NewApprovalService(deps Deps, audit *AuditService) *ApprovalService {
	deps = deps.withDefaults()
	if audit == nil {
		audit = NewAuditService(deps)
	}
	return &ApprovalService{
		Repos:  deps.Repos,
		audit:  audit,
		events: deps.Events,
		now:    deps.Now,
	}
}

func (s *ApprovalService) Approve(ctx context.Context, actor, vendorID string) (vendor.Vendor, error) {
	return s.decide(ctx, actor, vendorID, vendor.StatusApproved)
}

func (s *ApprovalService) Decline(ctx context.Context, actor, vendorID string) (vendor.Vendor, error) {
	return s.decide(ctx, actor, vendorID, vendor.StatusDeclined)
}

func (s *ApprovalService) decide(ctx context.Context, actor, vendorID string, to vendor.Status) (vendor.Vendor, error) {
	if strings.TrimSpace(actor) == "" {
		return vendor.Vendor{}, ErrAdminRequired
	}

	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return vendor.Vendor{}, storeError(err, ErrVendorNotFound, "load vendor")
	}
	if v.Status != vendor.StatusPendingApproval {
		return vendor.Vendor{}, conflictError("vendor is already " + strings.ToLower(string(v.Status)))
	}

	now := s.now()
	updated, err := s.Repos.Vendor.UpdateStatus(ctx, vendorID, to, now, actor)
	if err != nil {
		return vendor.Vendor{}, storeError(err, ErrVendorNotFound, "update vendor")
	}

	auditAction, eventAction := audit.ActionVendorApproved, notify.ActionApproved
	if to == vendor.StatusDeclined {
		auditAction, eventAction = audit.ActionVendorDeclined, notify.ActionDeclined
	}
	s.audit.Record(ctx, actor, auditAction, "vendor", vendorID, updated.Email)
	s.events.Dispatch(notify.Event{
		VendorID:  updated.ID,
		Name:      updated.ContactName,
		Email:     updated.Email,
		Action:    eventAction,
		Timestamp: now,
	})
	return updated, nil
}

func (s *ApprovalService) ReviewSubmission(ctx context.Context, actor, submissionID string, input submission.ReviewInput) (submission.Submission, error) {
	if strings.TrimSpace(actor) == "" {
		return submission.Submission{}, ErrAdminRequired
	}
	if !input.Status.Valid() {
		return submission.Submission{}, validationError("unknown review status " + string(input.Status))
	}
	if _, err := s.Repos.Submission.GetByID(ctx, submissionID); err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "load submission")
	}

	updated, err := s.Repos.Submission.UpdateReview(ctx, submissionID, input.Status, input.Notes, s.now(), actor)
	if err != nil {
		return submission.Submission{}, storeError(err, ErrSubmissionNotFound, "review submission")
	}
	s.audit.Record(ctx, actor, audit.ActionSubmissionReview, "submission", submissionID, string(input.Status))
	return updated, nil
}

// ListVendors returns vendors newest first, optionally limited to one status.
func (s *ApprovalService) ListVendors(ctx context.Context, filter vendor.ListFilter) ([]vendor.Vendor, error) {
	var (
		vendors []vendor.Vendor
		err     error
	)
	switch filter.Status {
	case "":
		vendors, err = s.Repos.Vendor.ListAll(ctx)
	case vendor.StatusPendingApproval, vendor.StatusApproved, vendor.StatusDeclined:
		vendors, err = s.Repos.Vendor.ListByStatus(ctx, filter.Status)
	default:
		return nil, validationError("unknown vendor status " + string(filter.Status))
	}
	if err != nil {
		return nil, upstreamError("failed to load vendors", err)
	}
	sort.SliceStable(vendors, func(i, j int) bool {
		return vendors[i].CreatedAt.After(vendors[j].CreatedAt)
	})
	return vendors, nil
}

func (s *ApprovalService) GetVendor(ctx context.Context, vendorID string) (vendor.Vendor, error) {
	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return vendor.Vendor{}, storeError(err, ErrVendorNotFound, "load vendor")
	}
	return v, nil
}
