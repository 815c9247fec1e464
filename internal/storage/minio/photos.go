package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/valet/internal/storage"
)

// UploadPhoto кладёт изображение в бакет под ключом
// "<owner>/<variant>_<owner>_<unixms>.<ext>" и возвращает публичный URL.
func (s *PhotosStorage) UploadPhoto(ctx context.Context, upload storage.PhotoUpload) (string, error) {
	const op = "storage/minio/photos/UploadPhoto"

	size := int64(len(upload.Data))
	if upload.OwnerID == uuid.Nil || size == 0 || size > s.cfg.Photos.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if !slices.Contains(s.cfg.Photos.AllowedContentTypes, upload.ContentType) {
		return "", storage.ErrInvalidArgument
	}

	key := storage.PhotoKey(upload.OwnerID, upload.Variant, upload.ContentType, time.Now())

	_, err := s.client.PutObject(ctx, s.cfg.Photos.Bucket, key, bytes.NewReader(upload.Data), size, mclient.PutObjectOptions{
		ContentType: upload.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

// DeletePhoto удаляет объект владельца. RemoveObject в S3 идемпотентен,
// поэтому существование проверяется через StatObject.
func (s *PhotosStorage) DeletePhoto(ctx context.Context, ownerID uuid.UUID, key string) error {
	const op = "storage/minio/photos/DeletePhoto"

	if !storage.OwnsKey(ownerID, key) {
		return storage.ErrNotFoundPhoto
	}

	if _, err := s.client.StatObject(ctx, s.cfg.Photos.Bucket, key, mclient.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return storage.ErrNotFoundPhoto
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.RemoveObject(ctx, s.cfg.Photos.Bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// OwnerPhotos перечисляет объекты под префиксом владельца.
func (s *PhotosStorage) OwnerPhotos(ctx context.Context, ownerID uuid.UUID) ([]storage.Photo, error) {
	const op = "storage/minio/photos/OwnerPhotos"

	result := make([]storage.Photo, 0)
	for obj := range s.client.ListObjects(ctx, s.cfg.Photos.Bucket, mclient.ListObjectsOptions{
		Prefix:    storage.OwnerPrefix(ownerID),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%s: %w", op, obj.Err)
		}

		result = append(result, storage.Photo{
			Key:          obj.Key,
			URL:          s.baseURL + "/" + obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}

	return result, nil
}

// KeyFromURL восстанавливает ключ объекта из публичного URL.
func (s *PhotosStorage) KeyFromURL(urlOrKey string) string {
	return storage.KeyFromURL(s.baseURL, s.cfg.Photos.Bucket, urlOrKey)
}

func isNotFound(err error) bool {
	resp := mclient.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
