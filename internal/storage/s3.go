// Package storage persists profile photos to an S3-compatible object store
// and hands back the public URL that gets saved on the user record. Works
// with AWS S3 and MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/garotinhosDePrograma/mylinks-api/internal/config"
)

// S3API is the slice of the S3 client used by PhotoStorage. Declared as an
// interface so tests can substitute a mock.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PhotoStorage uploads profile photos. Safe for concurrent use.
type PhotoStorage struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

// extensionByType maps the accepted photo MIME types to object key suffixes.
var extensionByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewPhotoStorage builds a PhotoStorage from the loaded S3 config. The
// endpoint override and static credentials support MinIO in development.
func NewPhotoStorage(ctx context.Context, cfg config.S3Config) (*PhotoStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &PhotoStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase,
	}, nil
}

// NewPhotoStorageWithClient builds a PhotoStorage around a pre-configured
// client. Used by tests.
func NewPhotoStorageWithClient(client S3API, bucket, publicBaseURL string) *PhotoStorage {
	return &PhotoStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}
}

// UploadPhoto stores the image bytes under a fresh avatars/ key and returns
// the public URL. contentType must be one of the accepted image types --
// callers validate that before reaching storage.
func (p *PhotoStorage) UploadPhoto(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extensionByType[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	key := "avatars/" + uuid.NewString() + ext

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	return p.publicBaseURL + "/" + key, nil
}

// DeletePhotoByURL removes a previously uploaded object given its public
// URL. URLs outside our base (e.g. Google picture claims) are ignored.
func (p *PhotoStorage) DeletePhotoByURL(ctx context.Context, photoURL string) error {
	prefix := p.publicBaseURL + "/"
	if len(photoURL) <= len(prefix) || photoURL[:len(prefix)] != prefix {
		return nil
	}
	key := photoURL[len(prefix):]

	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	return nil
}
