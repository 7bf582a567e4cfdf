// Package db provides database connectivity and operations
package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/workbridge/workbridge/internal/db/models"
)

// Database configuration defaults
const (
	// DefaultHost is the default database host
	DefaultHost = "localhost"
	// DefaultPort is the default database port
	DefaultPort = 5432
	// DefaultUser is the default database user
	DefaultUser = "postgres"
	// DefaultPassword is the default database password
	DefaultPassword = "postgres"
	// DefaultDBName is the default database name
	DefaultDBName = "workbridge"
)

// Options represents database connection configuration options
type Options struct {
	Host     string
	User     string
	Password string
	DBName   string
	Port     int
	SSL      bool
	LogLevel logger.LogLevel
}

// New creates a new database connection with the given options and runs
// migrations on it.
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)
	sslMode := "disable"
	if opts.SSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, sslMode)

	db, err := gorm.Open(postgres.Open(dsn), newConfig(opts.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := SeedCategories(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newConfig builds the gorm configuration every connection uses.
// TranslateError maps driver duplicate-key failures to
// gorm.ErrDuplicatedKey, which the services rely on to turn races on
// the unique indexes into conflicts.
func newConfig(logLevel logger.LogLevel) *gorm.Config {
	// Ignore record-not-found noise; callers translate it to typed errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	return &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	}
}

func setDefaults(opts Options) Options {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.User == "" {
		opts.User = DefaultUser
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	return opts
}

// Migrate runs the schema migrations for all records.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Job{},
		&models.Application{},
		&models.Invitation{},
		&models.Contract{},
		&models.Feedback{},
	)
}

// defaultCategories are created on first startup so job posting has a
// directory to validate against before the taxonomy service syncs.
var defaultCategories = []string{
	"cleaning",
	"delivery",
	"gardening",
	"handyman",
	"moving",
	"tutoring",
}

// SeedCategories ensures the default category directory entries exist.
func SeedCategories(db *gorm.DB) error {
	for _, name := range defaultCategories {
		category := models.Category{Name: name, Active: true}
		result := db.Where(&models.Category{Name: name}).FirstOrCreate(&category)
		if result.Error != nil {
			return fmt.Errorf("failed to ensure category %q exists: %w", name, result.Error)
		}
	}
	return nil
}
