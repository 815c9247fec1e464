// s3 предоставляет реализацию storage.PhotosStorage на базе AWS S3 (aws-sdk-go-v2).
// Подходит и для S3-совместимых хранилищ: при заданном endpoint
// используется BaseEndpoint и, по конфигу, path-style адресация.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pribylovaa/valet/internal/config"
	"github.com/pribylovaa/valet/internal/storage"
)

// objectAPI — используемое подмножество *s3.Client.
type objectAPI interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
}

// Точки подмены в тестах.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newObjectAPI = func(cfg aws.Config, optFns ...func(*awss3.Options)) objectAPI {
		return awss3.NewFromConfig(cfg, optFns...)
	}
)

// PhotosStorage — адаптер S3 для фотографий профилей.
type PhotosStorage struct {
	cfg     *config.Config
	client  objectAPI
	baseURL string
}

// New создает клиента S3 и проверяет доступность бакета (HeadBucket).
func New(ctx context.Context, cfg *config.Config) (*PhotosStorage, error) {
	const op = "storage/s3/New"

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: load aws config: %w", op, err)
	}

	client := newObjectAPI(awsCfg, func(o *awss3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})

	if _, err := client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(cfg.Photos.Bucket)}); err != nil {
		return nil, fmt.Errorf("%s: bucket %q: %w", op, cfg.Photos.Bucket, err)
	}

	return &PhotosStorage{cfg: cfg, client: client, baseURL: publicBase(cfg)}, nil
}

// publicBase — базовый публичный адрес объектов бакета.
func publicBase(cfg *config.Config) string {
	if base := strings.TrimRight(cfg.Photos.PublicBaseURL, "/"); base != "" {
		return base
	}

	if ep := strings.TrimRight(cfg.S3.Endpoint, "/"); ep != "" {
		return ep + "/" + cfg.Photos.Bucket
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Photos.Bucket, cfg.S3.Region)
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.PhotosStorage = (*PhotosStorage)(nil)
