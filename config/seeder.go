package config

import (
	"errors"

	"flowershop_backend/models"
	"flowershop_backend/utils"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Seed inserts the demo users, categories and products. Existing rows are left alone.
func Seed(db *gorm.DB, log zerolog.Logger) error {
	if err := SeedUsers(db, log); err != nil {
		return err
	}
	if err := SeedCategories(db, log); err != nil {
		return err
	}
	return SeedProducts(db, log)
}

func SeedUsers(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("seeding users")

	seeds := []struct {
		user     models.User
		password string
	}{
		{models.User{Username: "john", Email: "john@example.com", FirstName: "John", LastName: "Doe", Role: models.RoleAdmin, IsActive: true}, "test"},
		{models.User{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", Role: models.RoleModerator, IsActive: true}, "guess"},
		{models.User{Username: "david", Email: "david@example.com", FirstName: "David", LastName: "Brown", Role: models.RoleUser, IsActive: true}, "cake"},
	}

	for _, s := range seeds {
		user := s.user
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			log.Debug().Str("username", user.Username).Msg("user already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := utils.HashPassword(s.password)
		if err != nil {
			return err
		}
		user.Password = hash
		if err := db.Create(&user).Error; err != nil {
			log.Error().Err(err).Str("username", user.Username).Msg("failed to seed user")
			return err
		}
		log.Info().Str("username", user.Username).Uint("id", user.ID).Msg("user seeded")
	}
	return nil
}

func SeedCategories(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("seeding categories")

	seeds := []struct {
		name, description, parent string
	}{
		{"romantic-flowers", "Bouquets and arrangements for anniversaries, dates and every romantic gesture.", ""},
		{"get-well-flowers", "Cheerful flowers to lift the spirits of someone recovering.", "romantic-flowers"},
		{"seasonal-flowers", "Fresh picks that follow the seasons.", "romantic-flowers"},
		{"luxury-flowers", "Premium stems and designer arrangements.", "seasonal-flowers"},
		{"flower-subscriptions", "Recurring deliveries of hand picked flowers.", "luxury-flowers"},
	}

	for _, s := range seeds {
		var existing models.Category
		err := db.Where("name = ?", s.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		category := models.Category{Name: s.name, Description: s.description}
		if s.parent != "" {
			var parent models.Category
			if err := db.Where("name = ?", s.parent).First(&parent).Error; err != nil {
				return err
			}
			category.ParentID = &parent.ID
		}
		if err := db.Create(&category).Error; err != nil {
			log.Error().Err(err).Str("category", s.name).Msg("failed to seed category")
			return err
		}
	}
	return nil
}

func SeedProducts(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("seeding products")

	seeds := []struct {
		product  models.Product
		category string
	}{
		{models.Product{Name: "Red Rose Bouquet", Description: "A classic bouquet of a dozen long stemmed red roses.", Price: 55, Brand: "FlowerPower", Color: "Red"}, "romantic-flowers"},
		{models.Product{Name: "Elegant White Lilies", Description: "Graceful white lilies arranged in a glass vase.", Price: 65, Brand: "BlossomBouquet", Color: "White"}, "seasonal-flowers"},
		{models.Product{Name: "Tropical Orchid Arrangement", Description: "An exotic arrangement of colorful orchids to brighten up any room.", Price: 75, Brand: "ExoticFlorals", Color: "Purple"}, "seasonal-flowers"},
		{models.Product{Name: "Sunflower Basket", Description: "A basket of bright sunflowers to bring some sunshine indoors.", Price: 40, Brand: "SunshineFlorals", Color: "Yellow"}, "get-well-flowers"},
	}

	for _, s := range seeds {
		product := s.product
		var count int64
		if err := db.Model(&models.Product{}).Where("name = ?", product.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		var category models.Category
		if err := db.Where("name = ?", s.category).First(&category).Error; err != nil {
			return err
		}
		product.CategoryID = category.ID
		product.Material = "Fresh Flowers"
		product.IsAvailable = true
		if err := db.Create(&product).Error; err != nil {
			log.Error().Err(err).Str("product", product.Name).Msg("failed to seed product")
			return err
		}
	}

	log.Info().Msg("seeding complete")
	return nil
}
