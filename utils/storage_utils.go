package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// StorageConfig points the uploader at an S3-compatible bucket.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base URL objects are served from. When empty the
	// virtual-host style URL of the endpoint is used.
	PublicURL string
}

// Uploader stores catalog images in object storage.
type Uploader struct {
	client s3iface.S3API
	cfg    StorageConfig
}

func NewUploader(cfg StorageConfig) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: new session: %w", err)
	}
	return &Uploader{client: s3.New(sess), cfg: cfg}, nil
}

// NewUploaderWithClient is used with a preconfigured or fake S3 client.
func NewUploaderWithClient(client s3iface.S3API, cfg StorageConfig) *Uploader {
	return &Uploader{client: client, cfg: cfg}
}

// Upload puts file under folder/fileName and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, file []byte, fileName, folder, contentType string) (string, error) {
	key := path.Join(folder, fileName)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *Uploader) objectURL(key string) string {
	if u.cfg.PublicURL != "" {
		return strings.TrimSuffix(u.cfg.PublicURL, "/") + "/" + key
	}
	host := strings.TrimPrefix(strings.TrimPrefix(u.cfg.Endpoint, "https://"), "http://")
	if host == "" {
		host = fmt.Sprintf("s3.%s.amazonaws.com", u.cfg.Region)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.cfg.Bucket, host, key)
}
