package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/lunarworks/LanternFox/app/models"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

var DB *gorm.DB

const maxRetries = 5
const retryDelay = 5 * time.Second

func SetupDatabase() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
			DontSupportRenameIndex:   true,
			DontSupportRenameColumn:  true,
		}), &gorm.Config{TranslateError: true})
		if err == nil {
			DB.AutoMigrate(
				&models.User{},
				&models.CreditBalance{},
				&models.CreditTransaction{},
				&models.PaymentRecord{},
				&models.GeneratedImage{},
			)

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

func GetDB() *gorm.DB {
	return DB
}
