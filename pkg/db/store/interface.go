package store

import (
	"context"
	"errors"

	"github.com/mwantia/gomaterials/pkg/db/models"
)

// ErrNotFound is returned when a material id does not resolve to a row.
var ErrNotFound = errors.New("material not found")

// Match describes the field tuple compared by the duplicate check.
type Match struct {
	Name        string
	Description string
	Category    string
	PDFPath     string
	PDFSHA256   string
	ImagePath   *string
	ImageSHA256 *string
}

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Material operations
	FindExactMatch(ctx context.Context, match Match) (bool, error)
	GetMaterial(ctx context.Context, id uint) (*models.Material, error)
	ListMaterials(ctx context.Context) ([]models.Material, error)
	CountMaterials(ctx context.Context) (int64, error)
	CreateMaterial(ctx context.Context, material *models.Material) error
	UpdateMaterial(ctx context.Context, material *models.Material) error
	DeleteMaterial(ctx context.Context, id uint) error
}
