package storage

import (
	"context"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the image storage service.
type StorageService interface {
	// Upload stores the raw image bytes under the given key and returns the
	// public URL the stored object is reachable at.
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)

	// Delete removes the object specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
