package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/qa"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCost(t *testing.T) {
	cases := map[string]float64{
		"$12,500":   12500,
		"tbd":       0,
		"":          0,
		"1k":        1,
		"1,000.50":  1000.5,
		"USD 99.99": 99.99,
		"1.2.3":     0,
		"4000":      4000,
	}
	for raw, want := range cases {
		assert.Equal(t, want, SanitizeCost(raw), "input %q", raw)
	}
}

func TestCostAcceptsNumbersAndStrings(t *testing.T) {
	var form submission.FormData
	require.NoError(t, json.Unmarshal([]byte(`{"upfrontCost":"$12,500","annualCost":4000.5}`), &form))
	assert.Equal(t, 12500.0, SanitizeCost(string(form.UpfrontCost)))
	assert.Equal(t, 4000.5, SanitizeCost(string(form.AnnualCost)))
}

// --------------------- Create ---------------------
func TestCreateSubmission_CopiesIdentityAndSanitizesCosts(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	form := validForm()
	form.UpfrontCost = "$12,500"
	form.AnnualCost = "tbd"
	form.Step2Questions = "Do you support HL7?"

	res, err := env.svc.Submission.Create(ctx, v.ID, form, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.SubmissionID)

	sub, err := env.repos.Submission.GetByID(ctx, res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, sub.VendorID)
	assert.Equal(t, v.CompanyName, sub.CompanyName)
	assert.Equal(t, v.Email, sub.Email)
	assert.Equal(t, 12500.0, sub.UpfrontCost)
	assert.Equal(t, 0.0, sub.AnnualCost)
	assert.Equal(t, submission.ReviewPending, sub.ReviewStatus)
	assert.Equal(t, map[string]int{"epic": 4, "cerner": 2}, sub.IntegrationScores)
	require.Len(t, sub.References, 1)
	assert.Equal(t, "Mercy Health", sub.References[0].Company)
	assert.Equal(t, "Do you support HL7?", sub.Questions[submission.Step2].Question)
	assert.NotNil(t, sub.QuestionsUpdatedAt)
}

func TestCreateSubmission_RequiresApprovedVendor(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusPendingApproval)

	_, err := env.svc.Submission.Create(context.Background(), v.ID, validForm(), nil)
	assert.ErrorIs(t, err, ErrAccountNotApproved)
	assert.Equal(t, 0, env.store.Len(repository.SubmissionsTable))
}

func TestCreateSubmission_UnknownVendor(t *testing.T) {
	env := setupMemoryServices(t)

	_, err := env.svc.Submission.Create(context.Background(), "recGhost", validForm(), nil)
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestCreateSubmission_RequiresWorkflowFields(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusApproved)

	form := validForm()
	form.PainPoints = "  "
	_, err := env.svc.Submission.Create(context.Background(), v.ID, form, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, MessageOf(err), "painPoints")
}

func TestCreateSubmission_DiscardsDraft(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	_, err := env.svc.Draft.Save(ctx, v.ID, json.RawMessage(`{"step":4}`))
	require.NoError(t, err)

	_, err = env.svc.Submission.Create(ctx, v.ID, validForm(), nil)
	require.NoError(t, err)

	loaded, err := env.svc.Draft.Load(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Draft)
}

func TestCreateSubmission_StoresPricingDocument(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	pricing := &attachment.Upload{FileName: "pricing.xlsx", Data: []byte("sheet")}
	res, err := env.svc.Submission.Create(ctx, v.ID, validForm(), pricing)
	require.NoError(t, err)

	sub, err := env.repos.Submission.GetByID(ctx, res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, "pricing.xlsx", sub.PricingDocument.FileName)
	_, ok := env.docs.Get(sub.PricingDocument.StorageID)
	assert.True(t, ok)
}

func TestCreateSubmission_UploadFailureWritesNothing(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusApproved)

	deps := Deps{Repos: env.repos, Documents: failingDocuments{}, Logger: quietLogger()}
	svc := NewSubmissionService(deps)

	_, err := svc.Create(context.Background(), v.ID, validForm(), &attachment.Upload{FileName: "p.pdf", Data: []byte("x")})
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.Equal(t, 0, env.store.Len(repository.SubmissionsTable))
}

// --------------------- Update ---------------------
func TestUpdateSubmission_NonOwnerIsRejectedAndRecordUntouched(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	owner := env.seedVendor(t, vendor.StatusApproved)
	intruder := env.seedVendor(t, vendor.StatusApproved)

	res, err := env.svc.Submission.Create(ctx, owner.ID, validForm(), nil)
	require.NoError(t, err)
	before, err := env.store.Find(ctx, repository.SubmissionsTable, res.SubmissionID)
	require.NoError(t, err)

	form := validForm()
	form.CurrentWorkflow = "hijacked"
	_, err = env.svc.Submission.Update(ctx, res.SubmissionID, intruder.ID, form, nil)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	after, err := env.store.Find(ctx, repository.SubmissionsTable, res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, before.Fields, after.Fields)
}

func TestUpdateSubmission_ResetsReviewAndKeepsQA(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	form := validForm()
	form.Step3Questions = "Where is data hosted?"
	res, err := env.svc.Submission.Create(ctx, v.ID, form, &attachment.Upload{FileName: "p.pdf", Data: []byte("x")})
	require.NoError(t, err)

	_, err = env.svc.Approval.ReviewSubmission(ctx, "admin@portal.test", res.SubmissionID,
		submission.ReviewInput{Status: submission.ReviewShortlisted, Notes: ptrString("promising")})
	require.NoError(t, err)
	require.NoError(t, env.svc.QA.PostAnswer(ctx, "admin@portal.test", res.SubmissionID,
		qa.AnswerInput{Step: submission.Step3, Answer: "US-East"}))

	form.CurrentWorkflow = "Revised workflow"
	form.Step3Questions = "ignored on update"
	updated, err := env.svc.Submission.Update(ctx, res.SubmissionID, v.ID, form, nil)
	require.NoError(t, err)
	assert.Equal(t, submission.ReviewPending, updated.ReviewStatus)
	assert.NotNil(t, updated.LastModified)

	stored, err := env.repos.Submission.GetByID(ctx, res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, submission.ReviewPending, stored.ReviewStatus)
	assert.Equal(t, "Revised workflow", stored.CurrentWorkflow)
	assert.Equal(t, "Where is data hosted?", stored.Questions[submission.Step3].Question)
	assert.Equal(t, "US-East", stored.Questions[submission.Step3].Answer)
	assert.Equal(t, "promising", stored.AdminNotes)
	assert.Equal(t, "p.pdf", stored.PricingDocument.FileName)
}

func TestUpdateSubmission_NotFound(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusApproved)

	_, err := env.svc.Submission.Update(context.Background(), "recNope", v.ID, validForm(), nil)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

// --------------------- Read ---------------------
func TestGetAndListSubmissions_EnforceOwnership(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	a := env.seedVendor(t, vendor.StatusApproved)
	b := env.seedVendor(t, vendor.StatusApproved)

	first, err := env.svc.Submission.Create(ctx, a.ID, validForm(), nil)
	require.NoError(t, err)
	second, err := env.svc.Submission.Create(ctx, a.ID, validForm(), nil)
	require.NoError(t, err)
	_, err = env.svc.Submission.Create(ctx, b.ID, validForm(), nil)
	require.NoError(t, err)

	_, err = env.svc.Submission.Get(ctx, first.SubmissionID, b.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := env.svc.Submission.Get(ctx, first.SubmissionID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.SubmissionID, got.ID)

	subs, err := env.svc.Submission.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, second.SubmissionID, subs[0].ID)

	none, err := env.svc.Submission.List(ctx, "recNobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAdminListSubmissions_FiltersByStatus(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	first, err := env.svc.Submission.Create(ctx, v.ID, validForm(), nil)
	require.NoError(t, err)
	_, err = env.svc.Submission.Create(ctx, v.ID, validForm(), nil)
	require.NoError(t, err)
	_, err = env.svc.Approval.ReviewSubmission(ctx, "admin@portal.test", first.SubmissionID, submission.ReviewInput{Status: submission.ReviewRejected})
	require.NoError(t, err)

	all, err := env.svc.Submission.AdminList(ctx, submission.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rejected, err := env.svc.Submission.AdminList(ctx, submission.ListFilter{ReviewStatus: submission.ReviewRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, first.SubmissionID, rejected[0].ID)

	_, err = env.svc.Submission.AdminList(ctx, submission.ListFilter{ReviewStatus: "Maybe"})
	assert.Equal(t, KindValidation, KindOf(err))
}
