package models

import "time"

// Material is a single row of the materials table. The document path is mandatory, the image path is
// nullable. Digests are recorded while the attachments are stored.
type Material struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"column:name;type:text;not null"`
	Description string  `gorm:"column:desc;type:text;not null"`
	Category    string  `gorm:"column:category;type:text;not null"`
	PDFPath     string  `gorm:"column:pdf_path;type:text;not null"`
	PDFSHA256   string  `gorm:"column:pdf_sha256;type:text"`
	ImagePath   *string `gorm:"column:image_path;type:text"`
	ImageSHA256 *string `gorm:"column:image_sha256;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Material) TableName() string {
	return "materials"
}

// HasImage reports whether an image attachment is referenced.
func (m *Material) HasImage() bool {
	return m.ImagePath != nil && *m.ImagePath != ""
}
