package application

import (
	"log/slog"
	"time"

	"github.com/linskybing/rfp-portal/internal/notify"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/linskybing/rfp-portal/internal/session"
	"github.com/linskybing/rfp-portal/internal/storage"
)

// DefaultDraftRetention is how long an untouched draft survives the sweep.
const DefaultDraftRetention = 30 * 24 * time.Hour

// EventSink receives vendor lifecycle events. notify.Dispatcher is the
// production implementation.
type EventSink interface {
	Dispatch(event notify.Event)
}

// AdminCredentials is the single configured administrator account.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type Deps struct {
	Repos          *repository.Repos
	Documents      storage.DocumentStore
	Events         EventSink
	Sessions       session.Store
	Hasher         PasswordHasher
	Admin          AdminCredentials
	TokenTTL       time.Duration
	DraftRetention time.Duration
	Logger         *slog.Logger
	Now            func() time.Time
}

type Services struct {
	Audit      *AuditService
	Identity   *IdentityService
	Draft      *DraftService
	Submission *SubmissionService
	QA         *QAService
	Approval   *ApprovalService
}

func New(deps Deps) *Services {
	deps = deps.withDefaults()
	audit := NewAuditService(deps)
	return &Services{
		Audit:      audit,
		Identity:   NewIdentityService(deps),
		Draft:      NewDraftService(deps),
		Submission: NewSubmissionService(deps),
		QA:         NewQAService(deps, audit),
		Approval:   NewApprovalService(deps, audit),
	}
}

type nopSink struct{}

func (nopSink) Dispatch(notify.Event) {}

func (d Deps) withDefaults() Deps {
	if d.Documents == nil {
		d.Documents = storage.NewMemoryStore()
	}
	if d.Events == nil {
		d.Events = nopSink{}
	}
	if d.Sessions == nil {
		d.Sessions = session.NewMemoryStore()
	}
	if d.Hasher == nil {
		d.Hasher = NewBcryptHasher()
	}
	if d.TokenTTL <= 0 {
		d.TokenTTL = 24 * time.Hour
	}
	if d.DraftRetention <= 0 {
		d.DraftRetention = DefaultDraftRetention
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}
