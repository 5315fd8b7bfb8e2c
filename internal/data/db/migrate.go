package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/botanica-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureIndexes creates the composite and partial indexes AutoMigrate cannot express.
// Statements are portable across postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_cart_item_session_product", `DROP INDEX IF EXISTS idx_cart_item_session_product;`},
		{"idx_cart_item_session_product_key", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_item_session_product_key ON cart_item(session_id, product_id);`},
		{"idx_live_update_project_created", `CREATE INDEX IF NOT EXISTS idx_live_update_project_created ON live_impact_update(project_id, created_at);`},
		{"idx_inventory_movement_product_created", `CREATE INDEX IF NOT EXISTS idx_inventory_movement_product_created ON inventory_movement(product_id, created_at);`},
		{"idx_order_header_user_created", `CREATE INDEX IF NOT EXISTS idx_order_header_user_created ON order_header(user_id, created_at);`},
		{"idx_user_preferences_session_created", `CREATE INDEX IF NOT EXISTS idx_user_preferences_session_created ON user_preferences(session_id, created_at);`},
		{"idx_recommendation_results_session_created", `CREATE INDEX IF NOT EXISTS idx_recommendation_results_session_created ON recommendation_results(session_id, created_at);`},
		{"idx_impact_milestone_project", `CREATE INDEX IF NOT EXISTS idx_impact_milestone_project_created ON impact_milestone(project_id, created_at);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("ensure %s: %w", s.name, err)
		}
	}
	return nil
}

// Migrate runs AutoMigrateAll followed by EnsureIndexes.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureIndexes(db); err != nil {
		return err
	}
	return nil
}
