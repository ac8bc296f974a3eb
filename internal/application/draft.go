package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/draft"
	"github.com/linskybing/rfp-portal/internal/repository"
)

// DraftService keeps at most one draft per vendor. The guarantee is
// read-then-write against the store and two concurrent saves can still race;
// Load and Delete tolerate the resulting duplicates.
type DraftService struct {
	Repos     *repository.Repos
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewDraftService(deps Deps) *DraftService {
	deps = deps.withDefaults()
	return &DraftService{
		Repos:     deps.Repos,
		retention: deps.DraftRetention,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Save overwrites the vendor's draft, creating it on first save.
func (s *DraftService) Save(ctx context.Context, vendorID string, formData json.RawMessage) (draft.SaveResult, error) {
	payload := bytes.TrimSpace(formData)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return draft.SaveResult{}, validationError("formData is required")
	}
	if !json.Valid(payload) {
		return draft.SaveResult{}, validationError("formData must be valid JSON")
	}

	existing, err := s.Repos.Draft.FindByOwner(ctx, vendorID)
	if err != nil {
		return draft.SaveResult{}, upstreamError("failed to load drafts", err)
	}

	now := s.now()
	if len(existing) > 0 {
		d := existing[0]
		d.FormData = json.RawMessage(payload)
		d.LastSaved = now
		d.Status = draft.StatusDraft
		if err := s.Repos.Draft.Update(ctx, &d); err != nil {
			return draft.SaveResult{}, upstreamError("failed to save draft", err)
		}
		return draft.SaveResult{DraftID: d.ID, LastSaved: now}, nil
	}

	d := draft.Draft{
		VendorID:  vendorID,
		FormData:  json.RawMessage(payload),
		LastSaved: now,
		Status:    draft.StatusDraft,
	}
	if err := s.Repos.Draft.Create(ctx, &d); err != nil {
		return draft.SaveResult{}, upstreamError("failed to create draft", err)
	}
	return draft.SaveResult{DraftID: d.ID, LastSaved: now}, nil
}

// Load returns the most recently saved draft, or a nil draft when there is
// none, together with the vendor's profile read fresh from the store.
func (s *DraftService) Load(ctx context.Context, vendorID string) (draft.Loaded, error) {
	v, err := s.Repos.Vendor.GetByID(ctx, vendorID)
	if err != nil {
		return draft.Loaded{}, storeError(err, ErrVendorNotFound, "load vendor")
	}

	drafts, err := s.Repos.Draft.FindByOwner(ctx, vendorID)
	if err != nil {
		return draft.Loaded{}, upstreamError("failed to load drafts", err)
	}

	loaded := draft.Loaded{Vendor: v.Profile()}
	if len(drafts) > 0 {
		d := drafts[0]
		loaded.Draft = &d
	}
	if len(drafts) > 1 {
		s.logger.Warn("vendor has duplicate drafts", "vendor_id", vendorID, "count", len(drafts))
	}
	return loaded, nil
}

// Delete removes every draft linked to the vendor and reports how many.
func (s *DraftService) Delete(ctx context.Context, vendorID string) (int, error) {
	drafts, err := s.Repos.Draft.FindByOwner(ctx, vendorID)
	if err != nil {
		return 0, upstreamError("failed to load drafts", err)
	}
	deleted := 0
	for _, d := range drafts {
		if err := s.Repos.Draft.Delete(ctx, d.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return deleted, upstreamError("failed to delete draft", err)
		}
		deleted++
	}
	return deleted, nil
}

// Sweep purges drafts not saved within the retention window. A non-positive
// retention uses the configured default.
func (s *DraftService) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		retention = s.retention
	}
	cutoff := s.now().Add(-retention)

	drafts, err := s.Repos.Draft.ListAll(ctx)
	if err != nil {
		return 0, upstreamError("failed to list drafts", err)
	}

	deleted := 0
	for _, d := range drafts {
		if !d.LastSaved.Before(cutoff) {
			continue
		}
		if err := s.Repos.Draft.Delete(ctx, d.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return deleted, upstreamError("failed to delete draft", err)
		}
		deleted++
	}
	s.logger.Info("draft sweep finished", "deleted", deleted, "cutoff", cutoff)
	return deleted, nil
}
