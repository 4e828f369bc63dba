package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/models"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Contact{},
		&models.Deal{},
		&models.Task{},
		&models.Activity{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
