package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeS3 keeps objects in memory.
type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	putType string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString(body))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = string(data)
	f.putType = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestParseObjectPath(t *testing.T) {
	bucket, key, err := ParseObjectPath("s3://docs/notes/today.txt")
	if err != nil {
		t.Fatalf("ParseObjectPath: %v", err)
	}
	if bucket != "docs" || key != "notes/today.txt" {
		t.Errorf("got (%q, %q), want (%q, %q)", bucket, key, "docs", "notes/today.txt")
	}
	for _, bad := range []string{"docs/x", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		if _, _, err := ParseObjectPath(bad); err == nil {
			t.Errorf("ParseObjectPath(%q) should fail", bad)
		}
	}
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	s := NewS3StoreWithClient(fake)
	ctx := context.Background()

	if err := s.Write(ctx, "s3://docs/a.txt", "remote text"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fake.putType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", fake.putType)
	}
	got, err := s.Read(ctx, "s3://docs/a.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "remote text" {
		t.Errorf("Read = %q, want %q", got, "remote text")
	}
}

func TestS3StoreReadMissing(t *testing.T) {
	s := NewS3StoreWithClient(&fakeS3{objects: map[string]string{}})
	if _, err := s.Read(context.Background(), "s3://docs/missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read missing = %v, want ErrNotFound", err)
	}
}

func TestRouterDispatch(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"docs/a.txt": "from s3"}}
	r := &Router{Local: &FileStore{}, Object: NewS3StoreWithClient(fake)}

	got, err := r.Read(context.Background(), "s3://docs/a.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "from s3" {
		t.Errorf("Read = %q, want %q", got, "from s3")
	}
	resolved, err := r.Resolve("s3://docs/a.txt")
	if err != nil || resolved != "s3://docs/a.txt" {
		t.Errorf("Resolve = (%q, %v), want unchanged", resolved, err)
	}
}
