// Package cloudstore pushes cover images to an S3-compatible object store
// and hands back the URL and opaque object name the catalog records locally.
package cloudstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"bookshelf/internal/image"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// Prefix namespaces uploaded objects inside the bucket.
	Prefix string
}

type Client struct {
	mc      *minio.Client
	bucket  string
	prefix  string
	baseURL string
}

// New validates the configuration, connects to the object store, and makes
// sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("media store endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media store bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("media store access key and secret key are required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "covers"
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create media store client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("cannot check media store bucket: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			log.Printf("cannot create bucket %s, assuming it exists: %v", cfg.Bucket, err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &Client{
		mc:      mc,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// ObjectURL returns the public URL for a stored object.
func (c *Client) ObjectURL(objectName string) string {
	return c.baseURL + "/" + objectName
}

func (c *Client) objectName(fileName string) string {
	return path.Join(c.prefix, uuid.New().String()+filepath.Ext(fileName))
}

// Upload stages the file in a transient local copy, then pushes it to the
// object store with default options. The object name doubles as the opaque
// public identifier used for later deletes.
func (c *Client) Upload(ctx context.Context, file *image.File) (image.Asset, error) {
	if file == nil || file.Size == 0 {
		return image.Asset{}, fmt.Errorf("%w: file is missing or empty", image.ErrUpload)
	}

	tmp, err := os.CreateTemp("", "bookshelf-upload-*")
	if err != nil {
		return image.Asset{}, fmt.Errorf("%w: staging file: %v", image.ErrUpload, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file.Content); err != nil {
		tmp.Close()
		return image.Asset{}, fmt.Errorf("%w: staging file: %v", image.ErrUpload, err)
	}
	if err := tmp.Close(); err != nil {
		return image.Asset{}, fmt.Errorf("%w: staging file: %v", image.ErrUpload, err)
	}

	objectName := c.objectName(file.Name)
	if _, err := c.mc.FPutObject(ctx, c.bucket, objectName, tmpPath, minio.PutObjectOptions{}); err != nil {
		return image.Asset{}, fmt.Errorf("%w: put object %s: %v", image.ErrUpload, objectName, err)
	}

	return image.Asset{
		URL:      c.ObjectURL(objectName),
		PublicID: objectName,
	}, nil
}

// Delete removes the object by its public identifier. An empty identifier
// is a best-effort no-op, mirroring the remote API's permissive behavior.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := c.mc.RemoveObject(ctx, c.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object %s: %v", image.ErrDelete, publicID, err)
	}
	return nil
}
