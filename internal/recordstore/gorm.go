package recordstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordRow is the single table backing every collection.
type RecordRow struct {
	ID         string            `gorm:"primaryKey;size:32"`
	Collection string            `gorm:"size:64;not null;index:idx_records_collection_updated,priority:1"`
	Fields     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time `gorm:"index:idx_records_collection_updated,priority:2"`
}

func (RecordRow) TableName() string {
	return "records"
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the records table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&RecordRow{})
}

func (s *GormStore) Find(ctx context.Context, collection, id string) (Record, error) {
	var row RecordRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return row.toRecord(), nil
}

func (s *GormStore) List(ctx context.Context, collection string, q Query) ([]Record, error) {
	query := s.db.WithContext(ctx).Model(&RecordRow{}).Where("collection = ?", collection)
	if len(q.IDs) > 0 {
		query = query.Where("id IN ?", q.IDs)
	}
	for _, cond := range q.Where {
		query = query.Where(datatypes.JSONQuery("fields").Equals(cond.Value, cond.Field))
	}
	query = query.Order("updated_at DESC")
	if q.MaxRecords > 0 {
		query = query.Limit(q.MaxRecords)
	}

	var rows []RecordRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (s *GormStore) Create(ctx context.Context, collection string, fields Fields) (Record, error) {
	normalized, err := normalizeFields(fields)
	if err != nil {
		return Record{}, err
	}
	row := RecordRow{
		ID:         newRecordID(),
		Collection: collection,
		Fields:     datatypes.JSONMap(normalized),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Record{}, fmt.Errorf("create %s: %w", collection, err)
	}
	return row.toRecord(), nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, fields Fields) (Record, error) {
	patch, err := normalizeFields(fields)
	if err != nil {
		return Record{}, err
	}

	var row RecordRow
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error; err != nil {
			return err
		}
		row.Fields = datatypes.JSONMap(mergeFields(Fields(row.Fields), patch))
		return tx.Save(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return row.toRecord(), nil
}

func (s *GormStore) Destroy(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&RecordRow{})
	if res.Error != nil {
		return fmt.Errorf("destroy %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r RecordRow) toRecord() Record {
	fields := Fields{}
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Record{ID: r.ID, CreatedTime: r.CreatedAt, Fields: fields}
}
