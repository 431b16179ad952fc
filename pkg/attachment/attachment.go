// Package attachment places uploaded material files into per-kind partitions and removes them again.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrNotExist             = errors.New("attachment does not exist")
	ErrInvalidPath          = errors.New("invalid attachment path")
)

// Kind selects the partition an attachment is written to.
type Kind string

const (
	Document Kind = "document"
	Image    Kind = "image"
)

var partitions = map[Kind]string{
	Document: "pdfs",
	Image:    "images",
}

var allowedMediaTypes = map[Kind][]string{
	Document: {"application/pdf"},
	Image:    {"image/jpeg", "image/png", "image/jpg"},
}

// Partition returns the directory name used for the kind.
func (k Kind) Partition() string {
	return partitions[k]
}

// KindOf resolves a partition directory name back to its kind.
func KindOf(partition string) (Kind, bool) {
	for kind, p := range partitions {
		if p == partition {
			return kind, true
		}
	}
	return "", false
}

// Stored describes a freshly written attachment.
type Stored struct {
	Path   string
	Size   int64
	SHA256 string
}

// Info describes an attachment opened for reading.
type Info struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// Store is implemented by every attachment backend.
type Store interface {
	// Store validates mediaType for kind and writes r under the kind's partition.
	Store(ctx context.Context, kind Kind, originalName, mediaType string, r io.Reader) (*Stored, error)

	// Remove deletes path. Silently succeeds if path does not exist.
	Remove(ctx context.Context, path string) error

	// Open returns the content at path. Missing attachments yield ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadSeekCloser, *Info, error)
}

// Validate rejects media types outside the allow-list of kind. Parameters and case are ignored.
func Validate(kind Kind, mediaType string) error {
	allowed, ok := allowedMediaTypes[kind]
	if !ok {
		return fmt.Errorf("unknown attachment kind '%s'", kind)
	}
	if !mimetype.EqualsAny(mediaType, allowed...) {
		return fmt.Errorf("%w: %s does not accept '%s'", ErrUnsupportedMediaType, kind, mediaType)
	}
	return nil
}

// SplitPath checks that p has the form <partition>/<file> and returns both parts.
func SplitPath(p string) (Kind, string, error) {
	if p == "" || strings.Contains(p, "\\") || path.Clean(p) != p {
		return "", "", fmt.Errorf("%w: '%s'", ErrInvalidPath, p)
	}

	partition, name, ok := strings.Cut(p, "/")
	if !ok || name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return "", "", fmt.Errorf("%w: '%s'", ErrInvalidPath, p)
	}

	kind, ok := KindOf(partition)
	if !ok {
		return "", "", fmt.Errorf("%w: unknown partition '%s'", ErrInvalidPath, partition)
	}
	return kind, name, nil
}
