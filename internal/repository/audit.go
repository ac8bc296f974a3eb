package repository

import (
	"context"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/audit"
	"github.com/linskybing/rfp-portal/internal/recordstore"
)

type AuditRepo interface {
	Create(ctx context.Context, entry *audit.Entry) error
	ListRecent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type RecordAuditRepo struct {
	store recordstore.Store
}

func NewAuditRepo(store recordstore.Store) *RecordAuditRepo {
	return &RecordAuditRepo{store: store}
}

func (r *RecordAuditRepo) Create(ctx context.Context, entry *audit.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	rec, err := r.store.Create(ctx, AuditTable, recordstore.Fields{
		fieldActor:      entry.Actor,
		fieldAction:     entry.Action,
		fieldEntityType: entry.EntityType,
		fieldEntityID:   entry.EntityID,
		fieldDetail:     entry.Detail,
		fieldLoggedAt:   entry.CreatedAt,
	})
	if err != nil {
		return err
	}
	entry.ID = rec.ID
	return nil
}

func (r *RecordAuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	records, err := r.store.List(ctx, AuditTable, recordstore.Query{MaxRecords: limit})
	if err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, 0, len(records))
	for _, rec := range records {
		f := rec.Fields
		entry := audit.Entry{
			ID:         rec.ID,
			Actor:      f.String(fieldActor),
			Action:     f.String(fieldAction),
			EntityType: f.String(fieldEntityType),
			EntityID:   f.String(fieldEntityID),
			Detail:     f.String(fieldDetail),
			CreatedAt:  rec.CreatedTime,
		}
		if at := f.Time(fieldLoggedAt); at != nil {
			entry.CreatedAt = *at
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
