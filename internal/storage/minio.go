package storage

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the externally reachable base for object links. When empty
	// links are built from the endpoint and bucket.
	PublicURL string
}

type MinioStore struct {
	client *minioSDK.Client
	cfg    MinioConfig
}

// NewMinioStore connects to MinIO and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	client, err := minioSDK.New(cfg.Endpoint, &minioSDK.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		slog.Info("bucket created", "bucket", cfg.Bucket)
	}

	return &MinioStore{client: client, cfg: cfg}, nil
}

func (s *MinioStore) Put(ctx context.Context, prefix string, upload attachment.Upload) (attachment.Attachment, error) {
	if len(upload.Data) == 0 {
		return attachment.Attachment{}, fmt.Errorf("empty upload %q", upload.FileName)
	}
	name := objectName(prefix, upload.FileName)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(upload.Data)
	}

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, name, bytes.NewReader(upload.Data), int64(len(upload.Data)), minioSDK.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return attachment.Attachment{}, fmt.Errorf("upload %s: %w", name, err)
	}

	return attachment.Attachment{
		FileName:  upload.FileName,
		URL:       s.cfg.objectURL(name),
		StorageID: name,
	}, nil
}

func (s *MinioStore) Delete(ctx context.Context, storageID string) error {
	return s.client.RemoveObject(ctx, s.cfg.Bucket, storageID, minioSDK.RemoveObjectOptions{})
}

func (c MinioConfig) objectURL(name string) string {
	if c.PublicURL != "" {
		return strings.TrimSuffix(c.PublicURL, "/") + "/" + name
	}
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.Endpoint, c.Bucket, name)
}
