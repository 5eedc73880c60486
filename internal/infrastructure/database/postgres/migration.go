// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	models := []interface{}{
		&localstore.Item{},
	}

	for _, model := range models {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates indexes AutoMigrate does not express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_local_storage_items_updated_at ON local_storage_items (updated_at)`,
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// PurgeStale deletes browser items not written for longer than maxAge,
// returning how many rows went away. The site namespace is kept.
func (m *Migration) PurgeStale(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	result := m.db.
		Where("updated_at < ? AND namespace <> ?", cutoff, localstore.SiteNamespace).
		Delete(&localstore.Item{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge stale items: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		m.log.WithField("rows", result.RowsAffected).Info("Purged stale local storage items")
	}
	return result.RowsAffected, nil
}
