package application

import (
	"context"
	"log/slog"

	"github.com/linskybing/rfp-portal/internal/domain/audit"
	"github.com/linskybing/rfp-portal/internal/repository"
)

const defaultAuditLimit = 100

type AuditService struct {
	Repos  *repository.Repos
	logger *slog.Logger
}

func NewAuditService(deps Deps) *AuditService {
	deps = deps.withDefaults()
	return &AuditService{Repos: deps.Repos, logger: deps.Logger}
}

// Record appends an entry. Failures are logged and never surface to the
// operation being audited.
func (s *AuditService) Record(ctx context.Context, actor, action, entityType, entityID, detail string) {
	entry := &audit.Entry{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := s.Repos.Audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit write failed", "action", action, "entity_id", entityID, "error", err)
	}
}

func (s *AuditService) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLimit
	}
	entries, err := s.Repos.Audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, upstreamError("failed to load audit log", err)
	}
	return entries, nil
}
