package inits

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/graceful_shutdown"
)

func NewPostgresDB(ac *app_config.AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(ac.DatabaseUrl), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		panic(err)
	}
	graceful_shutdown.AddOutputShutdownFunc(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
