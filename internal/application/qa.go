package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/audit"
	"github.com/linskybing/rfp-portal/internal/domain/qa"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/repository"
)

// QAService derives question/answer threads from the per-step fields of
// submissions. Threads are never stored.
//
// Read state lives on the submission, not the thread: marking read clears
// every thread of that submission, and a new answer on any step flags them
// all as unread again.
type QAService struct {
	Repos  *repository.Repos
	audit  *AuditService
	logger *slog.Logger
	now    func() time.Time
}

func NewQAService(deps Deps, audit *AuditService) *QAService {
	deps = deps.withDefaults()
	if audit == nil {
		audit = NewAuditService(deps)
	}
	return &QAService{
		Repos:  deps.Repos,
		audit:  audit,
		logger: deps.Logger,
		now:    deps.Now,
	}
}

func (s *QAService) ThreadsForVendor(ctx context.Context, vendorID string) (qa.ThreadList, error) {
	subs, err := s.Repos.Submission.FindByOwner(ctx, vendorID)
	if err != nil {
		return qa.ThreadList{}, upstreamError("failed to load submissions", err)
	}
	var threads []qa.Thread
	for _, sub := range subs {
		threads = append(threads, threadsOf(sub)...)
	}
	return newThreadList(threads), nil
}

// ThreadsForAdmin lists threads across all vendors, joined with the owning
// vendor's name and email through one batched lookup.
func (s *QAService) ThreadsForAdmin(ctx context.Context) (qa.ThreadList, error) {
	subs, err := s.Repos.Submission.List(ctx, submission.ListFilter{})
	if err != nil {
		return qa.ThreadList{}, upstreamError("failed to load submissions", err)
	}

	var threads []qa.Thread
	seen := make(map[string]struct{})
	var vendorIDs []string
	for _, sub := range subs {
		subThreads := threadsOf(sub)
		if len(subThreads) == 0 {
			continue
		}
		threads = append(threads, subThreads...)
		if _, ok := seen[sub.VendorID]; !ok && sub.VendorID != "" {
			seen[sub.VendorID] = struct{}{}
			vendorIDs = append(vendorIDs, sub.VendorID)
		}
	}

	vendors, err := s.Repos.Vendor.FindByIDs(ctx, vendorIDs)
	if err != nil {
		s.logger.Warn("vendor lookup for threads failed, using submission contact fields", "error", err)
		vendors = map[string]vendor.Vendor{}
	}

	bySubmission := make(map[string]submission.Submission, len(subs))
	for _, sub := range subs {
		bySubmission[sub.ID] = sub
	}
	for i := range threads {
		t := &threads[i]
		if v, ok := vendors[t.VendorID]; ok {
			t.VendorName = v.CompanyName
			t.VendorEmail = v.Email
			continue
		}
		sub := bySubmission[t.SubmissionID]
		t.VendorName = sub.CompanyName
		t.VendorEmail = sub.Email
	}
	return newThreadList(threads), nil
}

// PostAnswer answers a step's question and flags the submission unread for
// the vendor.
func (s *QAService) PostAnswer(ctx context.Context, actor, submissionID string, input qa.AnswerInput) error {
	if !input.Step.Valid() {
		return ErrInvalidStep
	}
	answer := strings.TrimSpace(input.Answer)
	if answer == "" {
		return validationError("answer is required")
	}

	sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
	if err != nil {
		return storeError(err, ErrSubmissionNotFound, "load submission")
	}
	if strings.TrimSpace(sub.Questions[input.Step].Question) == "" {
		return validationError("no question has been asked for " + string(input.Step))
	}

	if err := s.Repos.Submission.SetAnswer(ctx, submissionID, input.Step, answer, s.now()); err != nil {
		return storeError(err, ErrSubmissionNotFound, "save answer")
	}
	s.audit.Record(ctx, actor, audit.ActionAnswerPosted, "submission", submissionID, string(input.Step))
	return nil
}

// AskQuestion replaces the vendor's question for a step; any earlier answer
// to that step is cleared.
func (s *QAService) AskQuestion(ctx context.Context, vendorID, submissionID string, input qa.AskInput) error {
	if !input.Step.Valid() {
		return ErrInvalidStep
	}
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return validationError("question is required")
	}

	sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
	if err != nil {
		return storeError(err, ErrSubmissionNotFound, "load submission")
	}
	if !sub.OwnedBy(vendorID) {
		return ErrNotOwner
	}

	if err := s.Repos.Submission.SetQuestion(ctx, submissionID, input.Step, question, s.now()); err != nil {
		return storeError(err, ErrSubmissionNotFound, "save question")
	}
	return nil
}

// MarkRead marks answers as seen. With a submission id only that submission
// is marked; without one every owned submission holding an unread answer is.
// It returns the number of submissions marked.
func (s *QAService) MarkRead(ctx context.Context, vendorID, submissionID string) (int, error) {
	if submissionID != "" {
		sub, err := s.Repos.Submission.GetByID(ctx, submissionID)
		if err != nil {
			return 0, storeError(err, ErrSubmissionNotFound, "load submission")
		}
		if !sub.OwnedBy(vendorID) {
			return 0, ErrNotOwner
		}
		if err := s.Repos.Submission.MarkViewed(ctx, submissionID); err != nil {
			return 0, storeError(err, ErrSubmissionNotFound, "mark answers read")
		}
		return 1, nil
	}

	subs, err := s.Repos.Submission.FindByOwner(ctx, vendorID)
	if err != nil {
		return 0, upstreamError("failed to load submissions", err)
	}
	marked := 0
	for _, sub := range subs {
		if sub.AnswersViewed || !hasAnswer(sub) {
			continue
		}
		if err := s.Repos.Submission.MarkViewed(ctx, sub.ID); err != nil {
			return marked, storeError(err, ErrSubmissionNotFound, "mark answers read")
		}
		marked++
	}
	return marked, nil
}

func hasAnswer(sub submission.Submission) bool {
	for _, pair := range sub.Questions {
		if strings.TrimSpace(pair.Answer) != "" {
			return true
		}
	}
	return false
}

// threadsOf emits one thread per step whose question is non-empty.
func threadsOf(sub submission.Submission) []qa.Thread {
	var threads []qa.Thread
	for _, step := range submission.Steps {
		pair := sub.Questions[step]
		if strings.TrimSpace(pair.Question) == "" {
			continue
		}
		t := qa.Thread{
			ID:           qa.ThreadID(sub.ID, step),
			SubmissionID: sub.ID,
			Step:         step,
			RFPType:      sub.RFPType,
			Question:     pair.Question,
			Answer:       pair.Answer,
			AskedAt:      sub.SubmittedAt,
			VendorID:     sub.VendorID,
		}
		if t.Answered() {
			t.AnsweredAt = sub.QuestionsUpdatedAt
			t.HasNewAnswer = !sub.AnswersViewed
		}
		threads = append(threads, t)
	}
	return threads
}

var stepOrder = map[submission.Step]int{
	submission.Step2: 0,
	submission.Step3: 1,
	submission.Step4: 2,
}

// sortThreads puts unanswered threads first, each group newest first.
func sortThreads(threads []qa.Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		a, b := threads[i], threads[j]
		if a.Answered() != b.Answered() {
			return !a.Answered()
		}
		if !a.AskedAt.Equal(b.AskedAt) {
			return a.AskedAt.After(b.AskedAt)
		}
		if a.SubmissionID != b.SubmissionID {
			return a.SubmissionID < b.SubmissionID
		}
		return stepOrder[a.Step] < stepOrder[b.Step]
	})
}

func newThreadList(threads []qa.Thread) qa.ThreadList {
	if threads == nil {
		threads = []qa.Thread{}
	}
	sortThreads(threads)
	list := qa.ThreadList{Threads: threads, Total: len(threads)}
	for _, t := range threads {
		if !t.Answered() {
			list.UnansweredCount++
		}
		if t.HasNewAnswer {
			list.NewAnswerCount++
		}
	}
	return list
}
