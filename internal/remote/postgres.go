package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/goverland-labs/goverland-profile-storage/internal/metrics"
)

type Record struct {
	Path      string `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Value     json.RawMessage `gorm:"type:jsonb;serializer:json"`
}

func (Record) TableName() string {
	return "remote_records"
}

// PostgresStore keeps every path as a jsonb document.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Set(ctx context.Context, path string, value any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("postgres", "set", err, start)
	}(time.Now())

	rec, err := newRecord(path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	err = s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(rec).
		Error
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	return nil
}

// Update merges top level fields into the stored document, creating it when missing.
func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any) (err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("postgres", "update", err, start)
	}(time.Now())

	rec, err := newRecord(path, fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	err = s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "path"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      gorm.Expr("remote_records.value || excluded.value"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(rec).
		Error
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, path string) (raw json.RawMessage, exists bool, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("postgres", "get", err, start)
	}(time.Now())

	var rec Record
	err = s.db.
		WithContext(ctx).
		Where("path = ?", path).
		Take(&rec).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}

	return rec.Value, true, nil
}

func (s *PostgresStore) List(ctx context.Context, prefix string) (list map[string]json.RawMessage, err error) {
	defer func(start time.Time) {
		metrics.CollectRequestsMetric("postgres", "list", err, start)
	}(time.Now())

	var records []Record
	err = s.db.
		WithContext(ctx).
		Where("path LIKE ?", prefix+"/%").
		Where("path NOT LIKE ?", prefix+"/%/%").
		Order("path").
		Find(&records).
		Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	list = make(map[string]json.RawMessage, len(records))
	for _, rec := range records {
		list[rec.Path] = rec.Value
	}

	return list, nil
}

func newRecord(path string, value any) (*Record, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	fields, err := toFields(value)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}

	return &Record{
		Path:  path,
		Value: raw,
	}, nil
}
