package attachment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/spf13/afero"
)

// LocalStore keeps attachments on a filesystem below a root directory.
type LocalStore struct {
	fs    afero.Fs
	namer *Namer
}

// NewLocalStore creates a LocalStore rooted at root, creating the directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// NewLocalStoreFs creates a LocalStore on top of an already rooted filesystem.
func NewLocalStoreFs(fsys afero.Fs) *LocalStore {
	return &LocalStore{
		fs:    fsys,
		namer: NewNamer(),
	}
}

// Store streams r through a SHA-256 hasher into a temp file that is renamed into place once complete.
func (l *LocalStore) Store(ctx context.Context, kind Kind, originalName, mediaType string, r io.Reader) (*Stored, error) {
	if err := Validate(kind, mediaType); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dest := l.namer.Path(kind, originalName, mediaType)
	if err := l.fs.MkdirAll(kind.Partition(), 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", kind.Partition(), err)
	}

	tmp := dest + ".tmp"
	f, err := l.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open tmp %q: %w", tmp, err)
	}

	hasher := sha256.New()
	n, werr := io.Copy(io.MultiWriter(f, hasher), r)
	cerr := f.Close()

	if werr != nil {
		l.fs.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("stream write: %w", werr)
	}
	if cerr != nil {
		l.fs.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("flush: %w", cerr)
	}

	if err := l.fs.Rename(tmp, dest); err != nil {
		l.fs.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("rename to %q: %w", dest, err)
	}

	return &Stored{
		Path:   dest,
		Size:   n,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (l *LocalStore) Remove(ctx context.Context, p string) error {
	if _, _, err := SplitPath(p); err != nil {
		return err
	}
	if err := l.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", p, err)
	}
	return nil
}

func (l *LocalStore) Open(ctx context.Context, p string) (io.ReadSeekCloser, *Info, error) {
	if _, _, err := SplitPath(p); err != nil {
		return nil, nil, err
	}

	f, err := l.fs.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, fmt.Errorf("open %q: %w", p, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %q: %w", p, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, nil, ErrNotExist
	}

	return f, &Info{
		Name:    path.Base(p),
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}, nil
}

// Exists reports whether p refers to a stored attachment.
func (l *LocalStore) Exists(p string) (bool, error) {
	return afero.Exists(l.fs, p)
}
