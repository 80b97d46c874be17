package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const s3Scheme = "s3://"

// S3Store stores documents as objects addressed by s3://bucket/key paths.
type S3Store struct {
	client s3iface.S3API
}

// S3Options configures NewS3Store. Empty fields use the SDK defaults.
type S3Options struct {
	Region   string
	Endpoint string // for S3-compatible services; enables path-style addressing
}

// NewS3Store creates an S3Store from the default credential chain.
func NewS3Store(opts S3Options) (*S3Store, error) {
	cfg := aws.NewConfig()
	if opts.Region != "" {
		cfg = cfg.WithRegion(opts.Region)
	}
	if opts.Endpoint != "" {
		cfg = cfg.WithEndpoint(opts.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess)), nil
}

// NewS3StoreWithClient wraps an existing S3 client.
func NewS3StoreWithClient(client s3iface.S3API) *S3Store {
	return &S3Store{client: client}
}

// ParseObjectPath splits s3://bucket/key into its bucket and key.
func ParseObjectPath(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %q", path)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path needs a bucket and a key: %q", path)
	}
	return bucket, key, nil
}

// Resolve validates path; object paths are already canonical.
func (s *S3Store) Resolve(path string) (string, error) {
	if _, _, err := ParseObjectPath(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *S3Store) Read(ctx context.Context, path string) (string, error) {
	bucket, key, err := ParseObjectPath(path)
	if err != nil {
		return "", err
	}
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return "", ErrNotFound
		}
		return "", err
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", err
	}
	log.Debugf("read %s (%d bytes)", path, len(data))
	return string(data), nil
}

func (s *S3Store) Write(ctx context.Context, path, content string) error {
	bucket, key, err := ParseObjectPath(path)
	if err != nil {
		return err
	}
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return err
	}
	log.Debugf("wrote %s (%d bytes)", path, len(content))
	return nil
}
