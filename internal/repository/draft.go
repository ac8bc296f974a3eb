package repository

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/linskybing/rfp-portal/internal/domain/draft"
	"github.com/linskybing/rfp-portal/internal/recordstore"
)

type DraftRepo interface {
	FindByOwner(ctx context.Context, vendorID string) ([]draft.Draft, error)
	ListAll(ctx context.Context) ([]draft.Draft, error)
	Create(ctx context.Context, d *draft.Draft) error
	Update(ctx context.Context, d *draft.Draft) error
	Delete(ctx context.Context, id string) error
}

type RecordDraftRepo struct {
	store     recordstore.Store
	scanLimit int
}

func NewDraftRepo(store recordstore.Store, scanLimit int) *RecordDraftRepo {
	return &RecordDraftRepo{store: store, scanLimit: scanLimit}
}

// FindByOwner loads a bounded page of drafts and keeps those whose vendor
// link names vendorID. The store's own link filtering is not trusted.
// Results are ordered most recently saved first.
func (r *RecordDraftRepo) FindByOwner(ctx context.Context, vendorID string) ([]draft.Draft, error) {
	records, err := r.store.List(ctx, DraftsTable, recordstore.Query{MaxRecords: r.scanLimit})
	if err != nil {
		return nil, err
	}
	var owned []draft.Draft
	for _, rec := range records {
		if rec.Fields.FirstLink(fieldVendorLink) == vendorID {
			owned = append(owned, draftFromRecord(rec))
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].LastSaved.After(owned[j].LastSaved)
	})
	return owned, nil
}

func (r *RecordDraftRepo) ListAll(ctx context.Context) ([]draft.Draft, error) {
	records, err := r.store.List(ctx, DraftsTable, recordstore.Query{})
	if err != nil {
		return nil, err
	}
	drafts := make([]draft.Draft, 0, len(records))
	for _, rec := range records {
		drafts = append(drafts, draftFromRecord(rec))
	}
	return drafts, nil
}

func (r *RecordDraftRepo) Create(ctx context.Context, d *draft.Draft) error {
	fields := draftFields(*d)
	fields[fieldVendorLink] = recordstore.Link(d.VendorID)
	rec, err := r.store.Create(ctx, DraftsTable, fields)
	if err != nil {
		return err
	}
	d.ID = rec.ID
	return nil
}

// Update overwrites the payload and save time; the vendor link is left as is.
func (r *RecordDraftRepo) Update(ctx context.Context, d *draft.Draft) error {
	_, err := r.store.Update(ctx, DraftsTable, d.ID, draftFields(*d))
	return err
}

func (r *RecordDraftRepo) Delete(ctx context.Context, id string) error {
	return r.store.Destroy(ctx, DraftsTable, id)
}

func draftFields(d draft.Draft) recordstore.Fields {
	return recordstore.Fields{
		fieldFormData:   string(d.FormData),
		fieldLastSaved:  d.LastSaved,
		fieldDraftState: d.Status,
	}
}

func draftFromRecord(rec recordstore.Record) draft.Draft {
	f := rec.Fields
	d := draft.Draft{
		ID:       rec.ID,
		VendorID: f.FirstLink(fieldVendorLink),
		Status:   f.String(fieldDraftState),
	}
	if raw := f.String(fieldFormData); raw != "" && json.Valid([]byte(raw)) {
		d.FormData = json.RawMessage(raw)
	}
	if saved := f.Time(fieldLastSaved); saved != nil {
		d.LastSaved = *saved
	} else {
		d.LastSaved = rec.CreatedTime
	}
	return d
}
