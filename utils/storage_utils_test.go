package utils

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestUploaderUpload(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploaderWithClient(fake, StorageConfig{Bucket: "illustra", Endpoint: "https://object.example.io"})

	url, err := u.Upload(context.Background(), []byte("png"), "luna.png", "illustrazioni", "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://illustra.object.example.io/illustrazioni/luna.png" {
		t.Fatalf("url = %s", url)
	}
	if aws.StringValue(fake.input.Key) != "illustrazioni/luna.png" || aws.StringValue(fake.input.ContentType) != "image/png" {
		t.Fatalf("input = %+v", fake.input)
	}
	if string(fake.body) != "png" {
		t.Fatalf("body = %q", fake.body)
	}
}

func TestUploaderPublicURL(t *testing.T) {
	u := NewUploaderWithClient(&fakeS3{}, StorageConfig{Bucket: "b", PublicURL: "https://cdn.example.com/"})
	url, err := u.Upload(context.Background(), nil, "a.jpg", "charm", "")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/charm/a.jpg" {
		t.Fatalf("url = %s", url)
	}
}
