package storage

import (
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/infrastructure/uuid"
	"go.elastic.co/apm"
)

// S3Config bucket options
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string // S3 compatible endpoint, path style addressing is used when set
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
	MaxSize         int64
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage ObjectStorage backed by an S3 bucket
type S3Storage struct {
	client    putObjectAPI
	bucket    string
	publicURL string
	maxSize   int64
	keys      uuid.Generator
}

var _ ObjectStorage = &S3Storage{}

// NewS3Storage create a S3Storage, static credentials are used when given, otherwise the default chain
func NewS3Storage(ctx context.Context, cfg *S3Config, keys uuid.Generator) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com"
	}
	return newS3Storage(client, cfg.Bucket, publicURL, cfg.MaxSize, keys), nil
}

func newS3Storage(client putObjectAPI, bucket, publicURL string, maxSize int64, keys uuid.Generator) *S3Storage {
	return &S3Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   maxSize,
		keys:      keys,
	}
}

// Upload implement ObjectStorage
func (s *S3Storage) Upload(ctx context.Context, file *File, dir, ownerID string) (string, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "S3Storage.Upload", "storage")
	defer apmSpan.End()

	if err := Validate(file, s.maxSize); err != nil {
		return "", err
	}
	id, err := s.keys.Generate()
	if err != nil {
		return "", errors.Wrap(err, "generate object key")
	}
	key := path.Join(dir, ownerID, id+strings.ToLower(path.Ext(file.Name)))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file.Body,
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}
	return s.publicURL + "/" + key, nil
}
