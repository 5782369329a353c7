package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/models"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.Organization{},
		&models.User{},
		&models.Member{},
		&models.Event{},
		&models.Donation{},
		&models.Attendance{},
		&models.Project{},
		&models.Expense{},
		&models.Message{},
	}
}

// Migrate creates or updates the schema and the composite indexes.
func Migrate(db *gorm.DB) error {
	logrus.Info("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return err
	}
	logrus.Info("Database migrations completed")
	return nil
}

// AddIndexes adds the composite indexes used by filtered listings
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"expenses", "idx_expenses_org_project", "organization_id, project_id"},
		{"attendance", "idx_attendance_org_event", "organization_id, event_id"},
		{"messages", "idx_messages_pair", "sender_organization_id, receiver_organization_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logrus.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{"index": idx.name, "table": idx.table}).Debug("Created index")
	}

	return nil
}
