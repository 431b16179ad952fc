package attachment

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

// Namer derives stored file names from a millisecond timestamp prefix and the sanitized original name.
// Prefixes handed out by one Namer are strictly increasing.
type Namer struct {
	last atomic.Int64
	now  func() time.Time
}

func NewNamer() *Namer {
	return &Namer{now: time.Now}
}

func (n *Namer) prefix() int64 {
	current := n.now().UnixMilli()
	for {
		last := n.last.Load()
		next := current
		if next <= last {
			next = last + 1
		}
		if n.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Path returns the partition-relative path for a new attachment of kind.
func (n *Namer) Path(kind Kind, originalName, mediaType string) string {
	name := Sanitize(originalName)
	if path.Ext(name) == "" {
		if mt := mimetype.Lookup(baseMediaType(mediaType)); mt != nil {
			name += mt.Extension()
		}
	}
	return kind.Partition() + "/" + strconv.FormatInt(n.prefix(), 10) + "-" + name
}

// Sanitize strips directory components and replaces whitespace runs with underscores.
func Sanitize(originalName string) string {
	name := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	name = strings.Join(strings.FieldsFunc(name, unicode.IsSpace), "_")
	name = strings.Map(func(r rune) rune {
		if r == '/' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

func baseMediaType(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
