package config

import (
	"flowershop_backend/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Tables in dependency order.
func tables() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ResetPassword{},
		&models.Category{},
		&models.File{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.Review{},
	}
}

func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.AutoMigrate(tables()...); err != nil {
		log.Error().Err(err).Msg("failed to migrate database schema")
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

func ResetAndMigrate(db *gorm.DB, log zerolog.Logger) error {
	all := append(tables(), "order_products")
	// Drop dependents first.
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			log.Error().Err(err).Msg("failed to drop tables")
			return err
		}
	}
	log.Info().Msg("all tables dropped")

	if err := Migrate(db, log); err != nil {
		return err
	}
	if err := Seed(db, log); err != nil {
		return err
	}

	log.Info().Msg("database reset and migration completed")
	return nil
}
