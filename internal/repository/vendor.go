package repository

import (
	"context"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/recordstore"
)

type VendorRepo interface {
	ListAll(ctx context.Context) ([]vendor.Vendor, error)
	ListByStatus(ctx context.Context, status vendor.Status) ([]vendor.Vendor, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]vendor.Vendor, error)
	GetByID(ctx context.Context, id string) (vendor.Vendor, error)
	Create(ctx context.Context, v *vendor.Vendor) error
	UpdateStatus(ctx context.Context, id string, status vendor.Status, decidedAt time.Time, decidedBy string) (vendor.Vendor, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type RecordVendorRepo struct {
	store recordstore.Store
}

func NewVendorRepo(store recordstore.Store) *RecordVendorRepo {
	return &RecordVendorRepo{store: store}
}

// ListAll fetches the whole Vendors collection.
func (r *RecordVendorRepo) ListAll(ctx context.Context) ([]vendor.Vendor, error) {
	records, err := r.store.List(ctx, VendorsTable, recordstore.Query{})
	if err != nil {
		return nil, err
	}
	return vendorsFromRecords(records), nil
}

func (r *RecordVendorRepo) ListByStatus(ctx context.Context, status vendor.Status) ([]vendor.Vendor, error) {
	records, err := r.store.List(ctx, VendorsTable, recordstore.Query{
		Where: []recordstore.Condition{{Field: fieldVendorStatus, Value: string(status)}},
	})
	if err != nil {
		return nil, err
	}
	return vendorsFromRecords(records), nil
}

// FindByIDs resolves a set of vendor ids in one store call. Unknown ids are
// simply absent from the result.
func (r *RecordVendorRepo) FindByIDs(ctx context.Context, ids []string) (map[string]vendor.Vendor, error) {
	out := make(map[string]vendor.Vendor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	records, err := r.store.List(ctx, VendorsTable, recordstore.Query{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		out[rec.ID] = vendorFromRecord(rec)
	}
	return out, nil
}

func (r *RecordVendorRepo) GetByID(ctx context.Context, id string) (vendor.Vendor, error) {
	rec, err := r.store.Find(ctx, VendorsTable, id)
	if err != nil {
		return vendor.Vendor{}, err
	}
	return vendorFromRecord(rec), nil
}

func (r *RecordVendorRepo) Create(ctx context.Context, v *vendor.Vendor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	rec, err := r.store.Create(ctx, VendorsTable, vendorFields(*v))
	if err != nil {
		return err
	}
	v.ID = rec.ID
	return nil
}

func (r *RecordVendorRepo) UpdateStatus(ctx context.Context, id string, status vendor.Status, decidedAt time.Time, decidedBy string) (vendor.Vendor, error) {
	rec, err := r.store.Update(ctx, VendorsTable, id, recordstore.Fields{
		fieldVendorStatus: string(status),
		fieldApprovedAt:   decidedAt,
		fieldApprovedBy:   decidedBy,
	})
	if err != nil {
		return vendor.Vendor{}, err
	}
	return vendorFromRecord(rec), nil
}

func (r *RecordVendorRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.store.Update(ctx, VendorsTable, id, recordstore.Fields{fieldLastLogin: at})
	return err
}

func vendorFields(v vendor.Vendor) recordstore.Fields {
	fields := recordstore.Fields{
		fieldCompanyName:  v.CompanyName,
		fieldContactName:  v.ContactName,
		fieldContactTitle: v.ContactTitle,
		fieldEmail:        v.Email,
		fieldPhone:        v.Phone,
		fieldWebsite:      v.Website,
		fieldCountry:      v.Country,
		fieldCompanySize:  v.CompanySize,
		fieldServices:     v.Services,
		fieldPasswordHash: v.PasswordHash,
		fieldVendorStatus: string(v.Status),
		fieldRegisteredAt: v.CreatedAt,
	}
	if !v.NDA.IsZero() {
		fields[fieldNDAFileName] = v.NDA.FileName
		fields[fieldNDAURL] = v.NDA.URL
		fields[fieldNDAStorageID] = v.NDA.StorageID
	}
	return fields
}

func vendorFromRecord(rec recordstore.Record) vendor.Vendor {
	f := rec.Fields
	v := vendor.Vendor{
		ID:           rec.ID,
		CompanyName:  f.String(fieldCompanyName),
		ContactName:  f.String(fieldContactName),
		ContactTitle: f.String(fieldContactTitle),
		Email:        f.String(fieldEmail),
		Phone:        f.String(fieldPhone),
		Website:      f.String(fieldWebsite),
		Country:      f.String(fieldCountry),
		CompanySize:  f.String(fieldCompanySize),
		Services:     f.String(fieldServices),
		PasswordHash: f.String(fieldPasswordHash),
		NDA: attachment.Attachment{
			FileName:  f.String(fieldNDAFileName),
			URL:       f.String(fieldNDAURL),
			StorageID: f.String(fieldNDAStorageID),
		},
		Status:     vendor.Status(f.String(fieldVendorStatus)),
		ApprovedAt: f.Time(fieldApprovedAt),
		ApprovedBy: f.String(fieldApprovedBy),
		LastLogin:  f.Time(fieldLastLogin),
		CreatedAt:  rec.CreatedTime,
	}
	if registered := f.Time(fieldRegisteredAt); registered != nil {
		v.CreatedAt = *registered
	}
	if v.Status == "" {
		v.Status = vendor.StatusPendingApproval
	}
	return v
}

func vendorsFromRecords(records []recordstore.Record) []vendor.Vendor {
	vendors := make([]vendor.Vendor, 0, len(records))
	for _, rec := range records {
		vendors = append(vendors, vendorFromRecord(rec))
	}
	return vendors
}
