package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ClientOptions describes an S3-compatible endpoint. BaseEndpoint may be
// empty for AWS itself; for MinIO it is the server URL.
type S3ClientOptions struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// loadDefaultAWSConfig is a seam for tests.
var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Client builds a path-style client with static credentials.
func NewS3Client(ctx context.Context, opts S3ClientOptions) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// S3Store keeps blobs as objects in one bucket, under an optional key prefix.
type S3Store struct {
	client    S3API
	bucket    string
	keyPrefix string
	// tmpDir is where uploads are spooled before PutObject; "" means os.TempDir.
	tmpDir string
}

var _ Store = (*S3Store)(nil)

func NewS3Store(client S3API, bucket, keyPrefix string) (*S3Store, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	return &S3Store{client: client, bucket: bucket, keyPrefix: keyPrefix}, nil
}

func (s *S3Store) key(storedName string) string {
	return s.keyPrefix + storedName
}

// Put spools r to a temporary file first: PutObject needs a seekable body
// of known length to sign the request over plain HTTP.
func (s *S3Store) Put(ctx context.Context, r io.Reader, originalName string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(s.tmpDir, "linkshare-upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create spool file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, ctxReader{ctx: ctx, r: r})
	if err != nil {
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("rewind spool file: %w", err)
	}

	storedName := NewStoredName(originalName)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(storedName)),
		Body:          tmp,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", 0, fmt.Errorf("put object: %w", err)
	}

	return storedName, size, nil
}

func (s *S3Store) Get(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(storedName)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, 0, fmt.Errorf("%s: %w", storedName, ErrBlobMissing)
		}
		return nil, 0, fmt.Errorf("get object: %w", err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

// Delete relies on DeleteObject being idempotent; a NotFound reply from a
// stricter S3 implementation is also treated as success.
func (s *S3Store) Delete(ctx context.Context, storedName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(storedName)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
