package artifactstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	bucket, key, contentType string
	body                     string
	err                      error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestPutUploadsArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "app.zip")
	if err := os.WriteFile(zipPath, []byte("PK"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	client := &fakeS3{}
	store := &S3Store{Client: client, Bucket: "releases", Prefix: "/contoso/"}

	location, err := store.Put(context.Background(), "20260101-app.zip", zipPath)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if location != "s3://releases/contoso/20260101-app.zip" {
		t.Fatalf("location = %q", location)
	}
	if client.key != "contoso/20260101-app.zip" || client.contentType != "application/zip" || client.body != "PK" {
		t.Fatalf("unexpected upload: %+v", client)
	}
}

func TestPutErrors(t *testing.T) {
	store := &S3Store{Client: &fakeS3{err: errors.New("denied")}, Bucket: "b"}
	if _, err := store.Put(context.Background(), "k", filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Fatalf("expected open error")
	}
	zipPath := filepath.Join(t.TempDir(), "a.zip")
	_ = os.WriteFile(zipPath, []byte("PK"), 0o644)
	if _, err := store.Put(context.Background(), "k", zipPath); err == nil {
		t.Fatalf("expected upload error")
	}
	if _, err := New(context.Background(), Options{}); !errors.Is(err, errBucketRequired) {
		t.Fatalf("expected bucket error, got %v", err)
	}
}

func TestKey(t *testing.T) {
	if got := (&S3Store{}).Key("a.zip"); got != "a.zip" {
		t.Fatalf("key = %q", got)
	}
}
