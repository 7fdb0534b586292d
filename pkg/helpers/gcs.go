package helpers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) error {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(baseURL, bucket, objectPath string) string {
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com"
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), bucket, objectPath)
}

// GCSUploader stores images in one bucket and returns their public URL.
type GCSUploader struct {
	Client  *storage.Client
	Bucket  string
	BaseURL string
}

func NewGCSUploader(client *storage.Client, bucket, baseURL string) *GCSUploader {
	return &GCSUploader{Client: client, Bucket: bucket, BaseURL: baseURL}
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if err := UploadObject(ctx, u.Client, u.Bucket, objectPath, contentType, r); err != nil {
		return "", err
	}
	return PublicURL(u.BaseURL, u.Bucket, objectPath), nil
}
