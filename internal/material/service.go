package material

import (
	"context"
	"errors"

	"github.com/mwantia/gomaterials/pkg/attachment"
	"github.com/mwantia/gomaterials/pkg/db/models"
	"github.com/mwantia/gomaterials/pkg/db/store"
	"github.com/mwantia/gomaterials/pkg/events"
	"github.com/mwantia/gomaterials/pkg/log"
	"github.com/mwantia/gomaterials/pkg/metrics"
)

type Options struct {
	// CleanupOnFailure removes attachments written earlier in a create or update that fails later on.
	CleanupOnFailure bool
	Publisher        events.Publisher
}

// Service keeps the materials table and the attachment store in step. Every operation is a linear
// pipeline without a shared transaction: a failing step aborts the rest and earlier side effects stay.
type Service struct {
	metadata    store.MetadataStore
	attachments attachment.Store
	publisher   events.Publisher
	log         log.LoggerService

	cleanupOnFailure bool
}

func NewService(metadata store.MetadataStore, attachments attachment.Store, logger log.LoggerService, opts Options) *Service {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Service{
		metadata:         metadata,
		attachments:      attachments,
		publisher:        publisher,
		log:              logger,
		cleanupOnFailure: opts.CleanupOnFailure,
	}
}

// Create validates the request, stores the document (and image), runs the duplicate check and inserts
// the row. A conflict leaves the freshly stored files in place unless cleanup is enabled.
func (s *Service) Create(ctx context.Context, fields Fields, document, image *Upload) (_ *models.Material, err error) {
	defer func() { metrics.RecordOperation("create", err) }()

	fields = fields.normalize()
	if err := fields.validate(); err != nil {
		return nil, err
	}
	if document == nil {
		return nil, validationError("pdf file is required")
	}
	if err := validateUpload(attachment.Document, document); err != nil {
		return nil, err
	}
	if err := validateUpload(attachment.Image, image); err != nil {
		return nil, err
	}

	var written []string

	doc, err := s.store(ctx, attachment.Document, document)
	if err != nil {
		return nil, err
	}
	written = append(written, doc.Path)

	material := &models.Material{
		Name:        fields.Name,
		Description: fields.Description,
		Category:    fields.Category,
		PDFPath:     doc.Path,
		PDFSHA256:   doc.SHA256,
	}

	if image != nil {
		img, err := s.store(ctx, attachment.Image, image)
		if err != nil {
			s.compensate(ctx, written)
			return nil, err
		}
		written = append(written, img.Path)
		material.ImagePath = &img.Path
		material.ImageSHA256 = &img.SHA256
	}

	duplicate, err := s.metadata.FindExactMatch(ctx, store.Match{
		Name:        material.Name,
		Description: material.Description,
		Category:    material.Category,
		PDFPath:     material.PDFPath,
		PDFSHA256:   material.PDFSHA256,
		ImagePath:   material.ImagePath,
		ImageSHA256: material.ImageSHA256,
	})
	if err != nil {
		s.compensate(ctx, written)
		return nil, repositoryError("failed to check for duplicates", err)
	}
	if duplicate {
		s.log.Warn("Rejected duplicate material '%s' in category '%s'", material.Name, material.Category)
		s.compensate(ctx, written)
		return nil, &Error{Kind: KindConflict, Message: "material already exists"}
	}

	if err := s.metadata.CreateMaterial(ctx, material); err != nil {
		s.compensate(ctx, written)
		return nil, repositoryError("failed to save material", err)
	}

	s.log.Info("Created material %d '%s'", material.ID, material.Name)
	s.publish(ctx, events.MaterialCreated, material)

	return material, nil
}

// Update rewrites the metadata of an existing material. A new document replaces the old file; a new
// image replaces the old one if any. Without a new image the stored image is kept.
func (s *Service) Update(ctx context.Context, id uint, fields Fields, document, image *Upload) (_ *models.Material, err error) {
	defer func() { metrics.RecordOperation("update", err) }()

	fields = fields.normalize()
	if err := fields.validate(); err != nil {
		return nil, err
	}

	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateUpload(attachment.Document, document); err != nil {
		return nil, err
	}
	if err := validateUpload(attachment.Image, image); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = fields.Name
	updated.Description = fields.Description
	updated.Category = fields.Category

	var written []string

	if document != nil {
		if err := s.remove(ctx, existing.PDFPath); err != nil {
			return nil, err
		}
		doc, err := s.store(ctx, attachment.Document, document)
		if err != nil {
			return nil, err
		}
		written = append(written, doc.Path)
		updated.PDFPath = doc.Path
		updated.PDFSHA256 = doc.SHA256
	}

	if image != nil {
		if existing.HasImage() {
			if err := s.remove(ctx, *existing.ImagePath); err != nil {
				s.compensate(ctx, written)
				return nil, err
			}
		}
		img, err := s.store(ctx, attachment.Image, image)
		if err != nil {
			s.compensate(ctx, written)
			return nil, err
		}
		written = append(written, img.Path)
		updated.ImagePath = &img.Path
		updated.ImageSHA256 = &img.SHA256
	}

	if err := s.metadata.UpdateMaterial(ctx, &updated); err != nil {
		s.compensate(ctx, written)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError(id)
		}
		return nil, repositoryError("failed to update material", err)
	}

	s.log.Info("Updated material %d '%s'", updated.ID, updated.Name)
	s.publish(ctx, events.MaterialUpdated, &updated)

	return &updated, nil
}

// Delete removes both attachments and then the row. Attachments that are already gone are ignored.
func (s *Service) Delete(ctx context.Context, id uint) (err error) {
	defer func() { metrics.RecordOperation("delete", err) }()

	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, existing.PDFPath); err != nil {
		return err
	}
	if existing.HasImage() {
		if err := s.remove(ctx, *existing.ImagePath); err != nil {
			return err
		}
	}

	if err := s.metadata.DeleteMaterial(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError(id)
		}
		return repositoryError("failed to delete material", err)
	}

	s.log.Info("Deleted material %d '%s'", existing.ID, existing.Name)
	s.publish(ctx, events.MaterialDeleted, existing)

	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Material, error) {
	materials, err := s.metadata.ListMaterials(ctx)
	if err != nil {
		return nil, repositoryError("failed to list materials", err)
	}
	return materials, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Material, error) {
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id uint) (*models.Material, error) {
	material, err := s.metadata.GetMaterial(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError(id)
		}
		return nil, repositoryError("failed to load material", err)
	}
	return material, nil
}

func (s *Service) store(ctx context.Context, kind attachment.Kind, upload *Upload) (*attachment.Stored, error) {
	stored, err := s.attachments.Store(ctx, kind, upload.Filename, upload.MediaType, upload.Content)
	if err != nil {
		if errors.Is(err, attachment.ErrUnsupportedMediaType) {
			return nil, &Error{Kind: KindValidation, Message: "invalid " + string(kind) + " file", Err: err}
		}
		return nil, storageError("failed to store "+string(kind), err)
	}

	metrics.RecordAttachment(string(kind), stored.Size)
	s.log.Debug("Stored %s '%s' as '%s' (%d bytes)", kind, upload.Filename, stored.Path, stored.Size)
	return stored, nil
}

func (s *Service) remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := s.attachments.Remove(ctx, path); err != nil {
		return storageError("failed to remove attachment", err)
	}
	return nil
}

// compensate drops attachments of an aborted operation when cleanup is enabled.
func (s *Service) compensate(ctx context.Context, paths []string) {
	if !s.cleanupOnFailure {
		if len(paths) > 0 {
			s.log.Warn("Leaving %d attachment(s) of failed operation in place: %v", len(paths), paths)
		}
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, path := range paths {
		if err := s.attachments.Remove(ctx, path); err != nil {
			s.log.Error("Failed to clean up attachment '%s': %v", path, err)
		}
	}
}

func (s *Service) publish(ctx context.Context, eventType string, material *models.Material) {
	event := events.NewEvent(eventType, material.ID, material.Name, material.Category)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish %s for material %d: %v", eventType, material.ID, err)
	}
}
