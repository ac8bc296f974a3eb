package repository

import (
	"context"
	"sort"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/internal/recordstore"
)

type SubmissionRepo interface {
	FindByOwner(ctx context.Context, vendorID string) ([]submission.Submission, error)
	List(ctx context.Context, filter submission.ListFilter) ([]submission.Submission, error)
	GetByID(ctx context.Context, id string) (submission.Submission, error)
	Create(ctx context.Context, s *submission.Submission) error
	UpdateContent(ctx context.Context, s *submission.Submission) error
	UpdateReview(ctx context.Context, id string, status submission.ReviewStatus, notes *string, at time.Time, by string) (submission.Submission, error)
	SetAnswer(ctx context.Context, id string, step submission.Step, answer string, at time.Time) error
	SetQuestion(ctx context.Context, id string, step submission.Step, question string, at time.Time) error
	MarkViewed(ctx context.Context, id string) error
}

type RecordSubmissionRepo struct {
	store     recordstore.Store
	scanLimit int
}

func NewSubmissionRepo(store recordstore.Store, scanLimit int) *RecordSubmissionRepo {
	return &RecordSubmissionRepo{store: store, scanLimit: scanLimit}
}

// FindByOwner loads a bounded page of submissions and keeps those whose
// vendor link contains vendorID, newest submission first.
func (r *RecordSubmissionRepo) FindByOwner(ctx context.Context, vendorID string) ([]submission.Submission, error) {
	records, err := r.store.List(ctx, SubmissionsTable, recordstore.Query{MaxRecords: r.scanLimit})
	if err != nil {
		return nil, err
	}
	var owned []submission.Submission
	for _, rec := range records {
		if rec.Fields.HasLink(fieldVendorLink, vendorID) {
			owned = append(owned, submissionFromRecord(rec))
		}
	}
	sortBySubmittedDesc(owned)
	return owned, nil
}

func (r *RecordSubmissionRepo) List(ctx context.Context, filter submission.ListFilter) ([]submission.Submission, error) {
	q := recordstore.Query{MaxRecords: r.scanLimit}
	if filter.ReviewStatus != "" {
		q.Where = []recordstore.Condition{{Field: fieldReviewStatus, Value: string(filter.ReviewStatus)}}
	}
	records, err := r.store.List(ctx, SubmissionsTable, q)
	if err != nil {
		return nil, err
	}
	subs := make([]submission.Submission, 0, len(records))
	for _, rec := range records {
		subs = append(subs, submissionFromRecord(rec))
	}
	sortBySubmittedDesc(subs)
	return subs, nil
}

func (r *RecordSubmissionRepo) GetByID(ctx context.Context, id string) (submission.Submission, error) {
	rec, err := r.store.Find(ctx, SubmissionsTable, id)
	if err != nil {
		return submission.Submission{}, err
	}
	return submissionFromRecord(rec), nil
}

func (r *RecordSubmissionRepo) Create(ctx context.Context, s *submission.Submission) error {
	fields := contentFields(*s)
	fields[fieldVendorLink] = recordstore.Link(s.VendorID)
	fields[fieldSubmittedAt] = s.SubmittedAt
	fields[fieldAnswersViewed] = s.AnswersViewed
	for _, step := range submission.Steps {
		if q := s.Questions[step].Question; q != "" {
			fields[questionField(step)] = q
		}
	}
	if s.QuestionsUpdatedAt != nil {
		fields[fieldQuestionsUpdated] = *s.QuestionsUpdatedAt
	}

	rec, err := r.store.Create(ctx, SubmissionsTable, fields)
	if err != nil {
		return err
	}
	s.ID = rec.ID
	return nil
}

// UpdateContent rewrites the proposal fields, review status and modification
// time. Question/answer fields, the viewed flag and admin notes are untouched.
func (r *RecordSubmissionRepo) UpdateContent(ctx context.Context, s *submission.Submission) error {
	fields := contentFields(*s)
	if s.LastModified != nil {
		fields[fieldLastModified] = *s.LastModified
	}
	_, err := r.store.Update(ctx, SubmissionsTable, s.ID, fields)
	return err
}

func (r *RecordSubmissionRepo) UpdateReview(ctx context.Context, id string, status submission.ReviewStatus, notes *string, at time.Time, by string) (submission.Submission, error) {
	fields := recordstore.Fields{
		fieldReviewStatus: string(status),
		fieldReviewedAt:   at,
		fieldReviewedBy:   by,
	}
	if notes != nil {
		fields[fieldAdminNotes] = *notes
	}
	rec, err := r.store.Update(ctx, SubmissionsTable, id, fields)
	if err != nil {
		return submission.Submission{}, err
	}
	return submissionFromRecord(rec), nil
}

// SetAnswer writes a step's answer and flags the submission's answers unread.
func (r *RecordSubmissionRepo) SetAnswer(ctx context.Context, id string, step submission.Step, answer string, at time.Time) error {
	_, err := r.store.Update(ctx, SubmissionsTable, id, recordstore.Fields{
		answerField(step):     answer,
		fieldQuestionsUpdated: at,
		fieldAnswersViewed:    false,
	})
	return err
}

// SetQuestion replaces a step's question and clears its previous answer.
func (r *RecordSubmissionRepo) SetQuestion(ctx context.Context, id string, step submission.Step, question string, at time.Time) error {
	_, err := r.store.Update(ctx, SubmissionsTable, id, recordstore.Fields{
		questionField(step):   question,
		answerField(step):     nil,
		fieldQuestionsUpdated: at,
	})
	return err
}

func (r *RecordSubmissionRepo) MarkViewed(ctx context.Context, id string) error {
	_, err := r.store.Update(ctx, SubmissionsTable, id, recordstore.Fields{fieldAnswersViewed: true})
	return err
}

func questionField(step submission.Step) string {
	switch step {
	case submission.Step2:
		return "Step 2 Questions"
	case submission.Step3:
		return "Step 3 Questions"
	default:
		return "Step 4 Questions"
	}
}

func answerField(step submission.Step) string {
	switch step {
	case submission.Step2:
		return "Step 2 Answers"
	case submission.Step3:
		return "Step 3 Answers"
	default:
		return "Step 4 Answers"
	}
}

func contentFields(s submission.Submission) recordstore.Fields {
	scores := s.IntegrationScores
	if scores == nil {
		scores = map[string]int{}
	}
	refs := s.References
	if refs == nil {
		refs = []submission.Reference{}
	}
	return recordstore.Fields{
		fieldRFPType:                s.RFPType,
		fieldCompanyName:            s.CompanyName,
		fieldContactName:            s.ContactName,
		fieldContactTitle:           s.ContactTitle,
		fieldEmail:                  s.Email,
		fieldPhone:                  s.Phone,
		fieldWebsite:                s.Website,
		fieldCountry:                s.Country,
		fieldCurrentWorkflow:        s.CurrentWorkflow,
		fieldPainPoints:             s.PainPoints,
		fieldDesiredOutcomes:        s.DesiredOutcomes,
		fieldIntegrationScores:      encodeBlob(scores),
		fieldIntegrationNotes:       s.IntegrationNotes,
		fieldSOC2:                   s.SOC2Compliant,
		fieldHIPAA:                  s.HIPAACompliant,
		fieldGDPR:                   s.GDPRCompliant,
		fieldDataResidency:          s.DataResidency,
		fieldSecurityNotes:          s.SecurityNotes,
		fieldImplementationTimeline: s.ImplementationTimeline,
		fieldUpfrontCost:            s.UpfrontCost,
		fieldAnnualCost:             s.AnnualCost,
		fieldReferences:             encodeBlob(refs),
		fieldPricingFileName:        s.PricingDocument.FileName,
		fieldPricingURL:             s.PricingDocument.URL,
		fieldPricingStorageID:       s.PricingDocument.StorageID,
		fieldAttestAccurate:         s.AttestAccurate,
		fieldAttestAuthorized:       s.AttestAuthorized,
		fieldReviewStatus:           string(s.ReviewStatus),
	}
}

func submissionFromRecord(rec recordstore.Record) submission.Submission {
	f := rec.Fields
	s := submission.Submission{
		ID:                     rec.ID,
		VendorID:               f.FirstLink(fieldVendorLink),
		RFPType:                f.String(fieldRFPType),
		CompanyName:            f.String(fieldCompanyName),
		ContactName:            f.String(fieldContactName),
		ContactTitle:           f.String(fieldContactTitle),
		Email:                  f.String(fieldEmail),
		Phone:                  f.String(fieldPhone),
		Website:                f.String(fieldWebsite),
		Country:                f.String(fieldCountry),
		CurrentWorkflow:        f.String(fieldCurrentWorkflow),
		PainPoints:             f.String(fieldPainPoints),
		DesiredOutcomes:        f.String(fieldDesiredOutcomes),
		IntegrationScores:      decodeIntegrationScores(f[fieldIntegrationScores]),
		IntegrationNotes:       f.String(fieldIntegrationNotes),
		SOC2Compliant:          f.Bool(fieldSOC2),
		HIPAACompliant:         f.Bool(fieldHIPAA),
		GDPRCompliant:          f.Bool(fieldGDPR),
		DataResidency:          f.String(fieldDataResidency),
		SecurityNotes:          f.String(fieldSecurityNotes),
		ImplementationTimeline: f.String(fieldImplementationTimeline),
		UpfrontCost:            f.Float(fieldUpfrontCost),
		AnnualCost:             f.Float(fieldAnnualCost),
		References:             decodeReferences(f[fieldReferences]),
		PricingDocument: attachment.Attachment{
			FileName:  f.String(fieldPricingFileName),
			URL:       f.String(fieldPricingURL),
			StorageID: f.String(fieldPricingStorageID),
		},
		AttestAccurate:     f.Bool(fieldAttestAccurate),
		AttestAuthorized:   f.Bool(fieldAttestAuthorized),
		ReviewStatus:       submission.ReviewStatus(f.String(fieldReviewStatus)),
		AdminNotes:         f.String(fieldAdminNotes),
		ReviewedAt:         f.Time(fieldReviewedAt),
		ReviewedBy:         f.String(fieldReviewedBy),
		Questions:          make(map[submission.Step]submission.QAPair, len(submission.Steps)),
		AnswersViewed:      f.Bool(fieldAnswersViewed),
		QuestionsUpdatedAt: f.Time(fieldQuestionsUpdated),
		SubmittedAt:        rec.CreatedTime,
		LastModified:       f.Time(fieldLastModified),
	}
	if submitted := f.Time(fieldSubmittedAt); submitted != nil {
		s.SubmittedAt = *submitted
	}
	if s.ReviewStatus == "" {
		s.ReviewStatus = submission.ReviewPending
	}
	for _, step := range submission.Steps {
		pair := submission.QAPair{
			Question: f.String(questionField(step)),
			Answer:   f.String(answerField(step)),
		}
		if pair.Question != "" || pair.Answer != "" {
			s.Questions[step] = pair
		}
	}
	return s
}

func sortBySubmittedDesc(subs []submission.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
}
