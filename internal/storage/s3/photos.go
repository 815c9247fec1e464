package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/storage"
)

// UploadPhoto кладёт изображение под ключ storage.PhotoKey и возвращает публичный URL.
func (s *PhotosStorage) UploadPhoto(ctx context.Context, upload storage.PhotoUpload) (string, error) {
	const op = "storage/s3/photos/UploadPhoto"

	size := int64(len(upload.Data))
	if upload.OwnerID == uuid.Nil || size == 0 || size > s.cfg.Photos.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if !slices.Contains(s.cfg.Photos.AllowedContentTypes, upload.ContentType) {
		return "", storage.ErrInvalidArgument
	}

	key := storage.PhotoKey(upload.OwnerID, upload.Variant, upload.ContentType, time.Now())

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Photos.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(upload.Data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(upload.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

// DeletePhoto удаляет объект владельца; отсутствие объекта проверяется HeadObject,
// так как DeleteObject в S3 идемпотентен.
func (s *PhotosStorage) DeletePhoto(ctx context.Context, ownerID uuid.UUID, key string) error {
	const op = "storage/s3/photos/DeletePhoto"

	if !storage.OwnsKey(ownerID, key) {
		return storage.ErrNotFoundPhoto
	}

	bucket := aws.String(s.cfg.Photos.Bucket)

	if _, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{Bucket: bucket, Key: aws.String(key)}); err != nil {
		if isNotFound(err) {
			return storage.ErrNotFoundPhoto
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{Bucket: bucket, Key: aws.String(key)}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// OwnerPhotos перечисляет объекты владельца постранично.
func (s *PhotosStorage) OwnerPhotos(ctx context.Context, ownerID uuid.UUID) ([]storage.Photo, error) {
	const op = "storage/s3/photos/OwnerPhotos"

	p := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Photos.Bucket),
		Prefix: aws.String(storage.OwnerPrefix(ownerID)),
	})

	result := make([]storage.Photo, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			result = append(result, storage.Photo{
				Key:          key,
				URL:          s.baseURL + "/" + key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return result, nil
}

// KeyFromURL восстанавливает ключ объекта из публичного URL.
func (s *PhotosStorage) KeyFromURL(urlOrKey string) string {
	return storage.KeyFromURL(s.baseURL, s.cfg.Photos.Bucket, urlOrKey)
}

func isNotFound(err error) bool {
	var (
		nf  *types.NotFound
		nsk *types.NoSuchKey
	)

	return errors.As(err, &nf) || errors.As(err, &nsk)
}
