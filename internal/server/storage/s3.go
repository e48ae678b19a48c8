package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// s3API is the part of *s3.Client the store uses.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config describes an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Prefix       string
	UsePathStyle bool
}

// S3Store keeps each owner's objects under <prefix>/<ownerID>/.
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", common.ErrorValidation)
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	})

	return newS3Store(client, c.Bucket, c.Prefix), nil
}

func newS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) ownerPrefix(ownerID int64) string {
	return path.Join(s.prefix, strconv.FormatInt(ownerID, 10)) + "/"
}

func (s *S3Store) key(ownerID int64, storedName string) (string, error) {
	if err := checkStoredName(storedName); err != nil {
		return "", err
	}
	return s.ownerPrefix(ownerID) + storedName, nil
}

// Resolve returns the key prefix; S3 has no directories to create.
func (s *S3Store) Resolve(ctx context.Context, ownerID int64) (string, error) {
	return s.ownerPrefix(ownerID), nil
}

// Save uploads with If-None-Match: * so an existing key is never replaced;
// a 412 means another upload won the name and allocation moves on.
func (s *S3Store) Save(ctx context.Context, ownerID int64, safeName string, r io.Reader) (string, error) {
	if err := checkStoredName(safeName); err != nil {
		return "", err
	}

	body, err := seekable(r)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %w", common.ErrorStorage, err)
	}
	start, err := body.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}

	taken := func(name string) (bool, error) {
		return s.Exists(ctx, ownerID, name)
	}

	n := 0
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		name, idx, err := firstFree(safeName, n, taken)
		if err != nil {
			return "", err
		}
		if _, err := body.Seek(start, io.SeekStart); err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrorStorage, err)
		}

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.ownerPrefix(ownerID) + name),
			Body:        body,
			IfNoneMatch: aws.String("*"),
		})
		if isS3Code(err, "PreconditionFailed", "ConditionalRequestConflict") {
			n = idx + 1
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: put %s: %w", common.ErrorStorage, name, err)
		}
		return name, nil
	}

	return "", fmt.Errorf("%w: could not allocate a name for %q", common.ErrorStorage, safeName)
}

// seekable returns r itself when it can rewind, otherwise buffers it.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (s *S3Store) head(ctx context.Context, ownerID int64, storedName string) (*s3.HeadObjectOutput, error) {
	key, err := s.key(ownerID, storedName)
	if err != nil {
		return nil, err
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return nil, mapS3Error(err, storedName)
	}
	return out, nil
}

func (s *S3Store) Size(ctx context.Context, ownerID int64, storedName string) (int64, error) {
	out, err := s.head(ctx, ownerID, storedName)
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

func (s *S3Store) Exists(ctx context.Context, ownerID int64, storedName string) (bool, error) {
	_, err := s.head(ctx, ownerID, storedName)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *S3Store) Open(ctx context.Context, ownerID int64, storedName string) (io.ReadCloser, int64, error) {
	key, err := s.key(ownerID, storedName)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return nil, 0, mapS3Error(err, storedName)
	}
	return out.Body, aws.ToInt64(out.ContentLength), nil
}

// Remove checks existence first because DeleteObject succeeds on missing keys.
func (s *S3Store) Remove(ctx context.Context, ownerID int64, storedName string) error {
	if _, err := s.head(ctx, ownerID, storedName); err != nil {
		return err
	}
	key, _ := s.key(ownerID, storedName)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", common.ErrorStorage, storedName, err)
	}
	return nil
}

func isS3Code(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.ErrorCode() == c {
			return true
		}
	}
	return false
}

func mapS3Error(err error, name string) error {
	if isS3Code(err, "NotFound", "NoSuchKey") {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, name)
	}
	return fmt.Errorf("%w: %s: %w", common.ErrorStorage, name, err)
}
