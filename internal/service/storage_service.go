package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"retreat_screening_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService keeps applicant-uploaded attachments (resumes, intake
// documents referenced by form submissions) in MinIO. Objects are keyed by
// application id and never served directly; reads go through short-lived
// presigned URLs.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &StorageService{client: client, bucket: cfg.MinioBucket}, nil
}

func attachmentKey(applicationID uint, filename string) string {
	return fmt.Sprintf("applications/%d/%s", applicationID, filename)
}

func (s *StorageService) UploadAttachment(ctx context.Context, applicationID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	key := attachmentKey(applicationID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// AttachmentURL returns a presigned GET URL valid for 15 minutes.
func (s *StorageService) AttachmentURL(ctx context.Context, applicationID uint, filename string) (string, error) {
	key := attachmentKey(applicationID, filename)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, 15*time.Minute, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *StorageService) ListAttachments(ctx context.Context, applicationID uint) ([]string, error) {
	prefix := fmt.Sprintf("applications/%d/", applicationID)
	var names []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, object.Err
		}
		names = append(names, object.Key[len(prefix):])
	}
	return names, nil
}
