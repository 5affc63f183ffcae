package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient stores rendered QR images and uploaded logo assets.
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	minioCfg := cfg.MinIO
	client, err := minio.New(minioCfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioCfg.AccessKey, minioCfg.SecretKey, ""),
		Secure: minioCfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, minioCfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, minioCfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Printf("Bucket %s created successfully", minioCfg.Bucket)
	}

	return &MinIOClient{
		client:    client,
		bucket:    minioCfg.Bucket,
		publicURL: minioCfg.PublicURL,
	}, nil
}

// PutObject uploads raw bytes under objectKey with the given content type.
func (m *MinIOClient) PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := m.client.PutObject(
		ctx,
		m.bucket,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}
	return nil
}

func (m *MinIOClient) ObjectExists(objectKey string) (bool, error) {
	_, err := m.client.StatObject(context.Background(), m.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (m *MinIOClient) DeleteObject(objectKey string) error {
	return m.client.RemoveObject(context.Background(), m.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (m *MinIOClient) GetPublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s", m.publicURL, objectKey)
}
