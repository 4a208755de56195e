package database

import (
	"fmt"
	"gscormer_backend/internal/config"
	"gscormer_backend/internal/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, runMigrations bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if runMigrations {
		err = db.AutoMigrate(
			&model.User{},
			&model.ScormMaster{},
			&model.ScormCourse{},
			&model.ScormUpdate{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// Seed an admin account on a fresh database so the console is reachable.
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		db.Create(&model.User{
			Name:     "admin",
			Password: string(hashed),
			Agent:    "Administración",
			Role:     model.Admin,
		})
		log.Println("Seeded default admin user (change its password)")
	}

	return db, nil
}
