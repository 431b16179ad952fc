package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/gomaterials/pkg/db/migrations"
	"github.com/mwantia/gomaterials/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormStore implements MetadataStore on top of any GORM dialector.
type GormStore struct {
	db           *gorm.DB
	maxOpenConns int
}

// DB returns the underlying GORM database instance
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func openGorm(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	// Default to silent logging
	if level == 0 {
		level = logger.Silent
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ParseLogLevel maps a configuration string onto a GORM log level.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info", "debug":
		return logger.Info
	default:
		return logger.Silent
	}
}

// Connect initializes the database connection
func (s *GormStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	sqlDB.SetMaxIdleConns(s.maxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs all pending versioned migrations
func (s *GormStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity
func (s *GormStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Material operations

// FindExactMatch reports whether a row carries the same metadata and attachments. Attachments are
// compared by stored path or by content digest. A supplied image also matches rows without an image;
// a missing image only matches rows without an image.
func (s *GormStore) FindExactMatch(ctx context.Context, match Match) (bool, error) {
	pdf := []clause.Expression{clause.Eq{Column: "pdf_path", Value: match.PDFPath}}
	if match.PDFSHA256 != "" {
		pdf = append(pdf, clause.Eq{Column: "pdf_sha256", Value: match.PDFSHA256})
	}

	image := []clause.Expression{clause.Eq{Column: "image_path", Value: nil}}
	if match.ImagePath != nil {
		image = append(image, clause.Eq{Column: "image_path", Value: *match.ImagePath})
		if match.ImageSHA256 != nil && *match.ImageSHA256 != "" {
			image = append(image, clause.Eq{Column: "image_sha256", Value: *match.ImageSHA256})
		}
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Material{}).
		Where(clause.Eq{Column: "name", Value: match.Name}).
		Where(clause.Eq{Column: "desc", Value: match.Description}).
		Where(clause.Eq{Column: "category", Value: match.Category}).
		Where(clause.Or(pdf...)).
		Where(clause.Or(image...)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) GetMaterial(ctx context.Context, id uint) (*models.Material, error) {
	var material models.Material
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

func (s *GormStore) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.WithContext(ctx).Order("id ASC").Find(&materials).Error
	return materials, err
}

func (s *GormStore) CountMaterials(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Material{}).Count(&count).Error
	return count, err
}

func (s *GormStore) CreateMaterial(ctx context.Context, material *models.Material) error {
	material.ID = 0
	return s.db.WithContext(ctx).Create(material).Error
}

// UpdateMaterial overwrites every mutable column of the row identified by material.ID and reloads it.
func (s *GormStore) UpdateMaterial(ctx context.Context, material *models.Material) error {
	result := s.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("id = ?", material.ID).
		Updates(map[string]any{
			"name":         material.Name,
			"desc":         material.Description,
			"category":     material.Category,
			"pdf_path":     material.PDFPath,
			"pdf_sha256":   material.PDFSHA256,
			"image_path":   material.ImagePath,
			"image_sha256": material.ImageSHA256,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Where("id = ?", material.ID).First(material).Error
}

func (s *GormStore) DeleteMaterial(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Material{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
