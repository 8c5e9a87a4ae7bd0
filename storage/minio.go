package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MinIOStorage keeps converted PNGs in an object-storage bucket so the
// API can serve them back later. Purely optional; local output needs no
// storage at all.
type MinIOStorage struct {
	minioClient *minio.Client
	bucketName  string
	logger      *zap.Logger
}

func NewMinIOStorage(minioClient *minio.Client, bucketName string, logger *zap.Logger) *MinIOStorage {
	return &MinIOStorage{
		minioClient: minioClient,
		bucketName:  bucketName,
		logger:      logger,
	}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (storage *MinIOStorage) EnsureBucket() error {
	ctx := context.Background()
	err := storage.minioClient.MakeBucket(ctx, storage.bucketName, minio.MakeBucketOptions{})
	if err != nil {
		// MakeBucket fails when we already own the bucket; that is fine.
		exists, errBucketExists := storage.minioClient.BucketExists(ctx, storage.bucketName)
		if errBucketExists == nil && exists {
			return nil
		}
		return fmt.Errorf("make bucket %s: %w", storage.bucketName, err)
	}
	storage.logger.Info("created bucket", zap.String("bucket", storage.bucketName))
	return nil
}

// StoreFile uploads one PNG under its output name.
func (storage *MinIOStorage) StoreFile(fileName string, fileData []byte) error {
	info, err := storage.minioClient.PutObject(
		context.Background(), storage.bucketName, fileName,
		bytes.NewReader(fileData), int64(len(fileData)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return fmt.Errorf("put %s: %w", fileName, err)
	}

	storage.logger.Info("uploaded object",
		zap.String("name", fileName),
		zap.Int64("size", info.Size))
	return nil
}

// DownloadFile fetches a stored PNG by its output name. Reading the
// returned object surfaces not-found errors.
func (storage *MinIOStorage) DownloadFile(fileName string) (*minio.Object, error) {
	return storage.minioClient.GetObject(context.Background(), storage.bucketName, fileName, minio.GetObjectOptions{})
}
