package storage

import (
	"context"
	"time"
)

// ObjectInfo describes an archived report object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service archives generated reports to remote object storage.
type Service interface {
	// UploadReport stores content under bucket/key and returns the object's
	// s3:// location.
	UploadReport(ctx context.Context, bucket, key, contentType string, content []byte) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// ObjectURL returns a presigned download URL valid for expires.
	ObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
