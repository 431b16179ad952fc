package attachment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
}

// MinIOStore keeps attachments as objects of a single bucket, using the partition as key prefix.
type MinIOStore struct {
	client *minio.Client
	bucket string
	namer  *Namer
}

func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		namer:  NewNamer(),
	}, nil
}

func (m *MinIOStore) Store(ctx context.Context, kind Kind, originalName, mediaType string, r io.Reader) (*Stored, error) {
	if err := Validate(kind, mediaType); err != nil {
		return nil, err
	}

	objectName := m.namer.Path(kind, originalName, mediaType)
	hasher := sha256.New()

	info, err := m.client.PutObject(ctx, m.bucket, objectName, io.TeeReader(r, hasher), -1, minio.PutObjectOptions{
		ContentType: baseMediaType(mediaType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %q to MinIO: %w", objectName, err)
	}

	return &Stored{
		Path:   objectName,
		Size:   info.Size,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Remove deletes the object. S3 semantics already treat a missing key as success.
func (m *MinIOStore) Remove(ctx context.Context, p string) error {
	if _, _, err := SplitPath(p); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, p, minio.RemoveObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("failed to remove %q from MinIO: %w", p, err)
	}
	return nil
}

func (m *MinIOStore) Open(ctx context.Context, p string) (io.ReadSeekCloser, *Info, error) {
	if _, _, err := SplitPath(p); err != nil {
		return nil, nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, p, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get %q from MinIO: %w", p, err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, nil, ErrNotExist
		}
		return nil, nil, fmt.Errorf("failed to stat %q: %w", p, err)
	}

	return obj, &Info{
		Name:        path.Base(p),
		Size:        stat.Size,
		ModTime:     stat.LastModified,
		ContentType: stat.ContentType,
	}, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
