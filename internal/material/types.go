package material

import (
	"io"
	"strings"

	"github.com/mwantia/gomaterials/pkg/attachment"
)

// Fields are the descriptive columns supplied on create and update.
type Fields struct {
	Name        string
	Description string
	Category    string
}

func (f Fields) normalize() Fields {
	return Fields{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
	}
}

func (f Fields) validate() error {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Description == "" {
		missing = append(missing, "desc")
	}
	if f.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return validationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Upload is an attachment received from a client.
type Upload struct {
	Filename  string
	MediaType string
	Content   io.Reader
}

func validateUpload(kind attachment.Kind, upload *Upload) error {
	if upload == nil {
		return nil
	}
	if err := attachment.Validate(kind, upload.MediaType); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid " + string(kind) + " file", Err: err}
	}
	return nil
}
