// internal/infrastructure/localstore/postgres.go
package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Item is one stored key of one namespace
type Item struct {
	Namespace string    `gorm:"primaryKey;size:64" json:"namespace"`
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "local_storage_items"
}

// PostgresBackend persists items in a single table through gorm
type PostgresBackend struct {
	db *gorm.DB
}

// NewPostgresBackend creates a gorm backed store
func NewPostgresBackend(db *gorm.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var item Item
	err := p.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return item.Value, true, nil
}

func (p *PostgresBackend) Set(ctx context.Context, namespace, key, value string) error {
	item := Item{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Delete(ctx context.Context, namespace, key string) error {
	err := p.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Delete(&Item{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Clear(ctx context.Context, namespace string) error {
	err := p.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&Item{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	return nil
}
