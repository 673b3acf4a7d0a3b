package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// mockS3 implements S3API for testing.
type mockS3 struct {
	putFn    func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	deleteFn func(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putFn != nil {
		return m.putFn(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, params, optFns...)
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadPhoto(t *testing.T) {
	var gotKey, gotContentType string
	var gotBody []byte

	mock := &mockS3{
		putFn: func(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			gotKey = *params.Key
			gotContentType = *params.ContentType
			gotBody, _ = io.ReadAll(params.Body)
			return &s3.PutObjectOutput{}, nil
		},
	}

	ps := NewPhotoStorageWithClient(mock, "mylinks-media", "https://cdn.example.com")
	url, err := ps.UploadPhoto(context.Background(), []byte("fake-jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("UploadPhoto failed: %v", err)
	}

	if !strings.HasPrefix(gotKey, "avatars/") || !strings.HasSuffix(gotKey, ".jpg") {
		t.Errorf("unexpected object key %q", gotKey)
	}
	if gotContentType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", gotContentType)
	}
	if string(gotBody) != "fake-jpeg" {
		t.Errorf("body not passed through")
	}
	if url != "https://cdn.example.com/"+gotKey {
		t.Errorf("unexpected public URL %q", url)
	}
}

func TestUploadPhoto_UnsupportedType(t *testing.T) {
	ps := NewPhotoStorageWithClient(&mockS3{}, "b", "https://cdn.example.com")
	if _, err := ps.UploadPhoto(context.Background(), []byte("x"), "application/pdf"); err == nil {
		t.Fatal("expected error for unsupported content type")
	}
}

func TestDeletePhotoByURL(t *testing.T) {
	var deletedKey string
	mock := &mockS3{
		deleteFn: func(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
			deletedKey = *params.Key
			return &s3.DeleteObjectOutput{}, nil
		},
	}

	ps := NewPhotoStorageWithClient(mock, "b", "https://cdn.example.com")
	if err := ps.DeletePhotoByURL(context.Background(), "https://cdn.example.com/avatars/x.jpg"); err != nil {
		t.Fatalf("DeletePhotoByURL failed: %v", err)
	}
	if deletedKey != "avatars/x.jpg" {
		t.Errorf("expected avatars/x.jpg, got %q", deletedKey)
	}
}

func TestDeletePhotoByURL_ForeignURLIgnored(t *testing.T) {
	called := false
	mock := &mockS3{
		deleteFn: func(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
			called = true
			return &s3.DeleteObjectOutput{}, nil
		},
	}

	ps := NewPhotoStorageWithClient(mock, "b", "https://cdn.example.com")
	// Google picture claims are stored as-is and must never be deleted from our bucket.
	if err := ps.DeletePhotoByURL(context.Background(), "https://lh3.googleusercontent.com/pic"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("foreign URL must not trigger a bucket delete")
	}
}
