package config

import (
	"fmt"
	"log"

	"bookingtour/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// DSN tạo chuỗi kết nối postgres
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

func ConnectDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "connect db")
	}

	if cfg.Migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	DB = db
	log.Println("Successfully connected to db")
	return db, nil
}

// Migrate tạo/cập nhật bảng bằng AutoMigrate
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Tour{}, "Options", &models.TourOptionAvailable{}); err != nil {
		return errors.Wrap(err, "setup tour option join table")
	}
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.UserRole{},
		&models.TourOption{},
		&models.Tour{},
		&models.TourImage{},
		&models.TourCondition{},
		&models.TourOptionAvailable{},
		&models.Voucher{},
		&models.Booking{},
		&models.BookingOption{},
		&models.Payment{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
